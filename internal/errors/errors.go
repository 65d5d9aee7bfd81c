package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"

	ErrCodeLoginTaken  = "LOGIN_TAKEN"
	ErrCodeEmailTaken  = "EMAIL_TAKEN"
	ErrCodeDeckExists  = "DECK_EXISTS"
	ErrCodeDeckLimit   = "DECK_LIMIT"
	ErrCodeCardLimit   = "CARD_LIMIT"
	ErrCodeBadPassword = "INVALID_CREDENTIALS"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string            // Error code (e.g., "NOT_FOUND", "VALIDATION_ERROR")
	Message string            // Human-readable error message
	Status  int               // HTTP status code
	Fields  map[string]string // Field-level messages, optional
	Err     error             // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

var notFoundMessages = map[string]string{
	"user":  "Пользователь не найден",
	"deck":  "Колода не найдена",
	"card":  "Карточка не найдена",
	"share": "Ссылка недействительна",
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	msg, ok := notFoundMessages[resource]
	if !ok {
		msg = fmt.Sprintf("%s not found", resource)
	}
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: msg,
		Status:  http.StatusNotFound,
		Err:     fmt.Errorf("%s %v not found", resource, id),
	}
}

// NewValidationError creates a new VALIDATION_ERROR for a single field
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: reason,
		Status:  http.StatusBadRequest,
		Fields:  map[string]string{field: reason},
	}
}

// NewFieldErrors creates a VALIDATION_ERROR carrying several field messages.
func NewFieldErrors(fields map[string]string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: "Проверьте правильность заполнения полей",
		Status:  http.StatusBadRequest,
		Fields:  fields,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "Внутренняя ошибка сервера",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeForbidden,
		Message: message,
		Status:  http.StatusForbidden,
	}
}

// NewConflictError creates a 409 error with a machine-readable code.
func NewConflictError(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  http.StatusConflict,
	}
}

// NewLimitError creates a 422 error for exhausted quotas.
func NewLimitError(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  http.StatusUnprocessableEntity,
	}
}
