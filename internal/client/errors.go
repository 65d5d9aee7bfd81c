package client

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/samber/lo"
)

const (
	MsgDefault      = "Произошла ошибка"
	MsgNoConnection = "Нет соединения с сервером. Проверьте подключение к интернету"
)

// APIError is the normalized form of every failed request.
// StatusCode is 0 when no response was received.
type APIError struct {
	StatusCode int               `json:"statusCode"`
	Message    string            `json:"message"`
	Errors     map[string]string `json:"errors,omitempty"`
	Code       string            `json:"code,omitempty"`
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// ValidationError is returned when input fails a local check. The request is
// never sent.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	fields := lo.Keys(e.Errors)
	sort.Strings(fields)
	return "invalid " + strings.Join(fields, ", ")
}

// transportError marks a request that was sent but got no response.
type transportError struct{ err error }

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// responseError carries a non-2xx response before normalization.
type responseError struct {
	status int
	body   errorBody
}

func (e *responseError) Error() string { return fmt.Sprintf("status %d", e.status) }

type errorBody struct {
	Status  int               `json:"status"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// HandleAPIError maps any request failure onto an APIError.
func HandleAPIError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var resp *responseError
	if errors.As(err, &resp) {
		msg := resp.body.Message
		if msg == "" {
			msg = MsgDefault
		}
		return &APIError{
			StatusCode: resp.status,
			Message:    msg,
			Errors:     resp.body.Errors,
			Code:       resp.body.Code,
		}
	}

	var transport *transportError
	if errors.As(err, &transport) {
		return &APIError{StatusCode: 0, Message: MsgNoConnection}
	}

	return &APIError{StatusCode: 0, Message: err.Error()}
}

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindConflict
	KindNotFound
	KindLimitReached
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindLimitReached:
		return "limit_reached"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// KindOf classifies err. Local validation failures and 400 responses are both
// KindValidation.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return KindValidation
	}

	apiErr := HandleAPIError(err)
	switch apiErr.StatusCode {
	case 0:
		var transport *transportError
		if errors.As(err, &transport) || apiErr.Message == MsgNoConnection {
			return KindNetwork
		}
		return KindUnknown
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusUnprocessableEntity:
		return KindLimitReached
	default:
		return KindUnknown
	}
}

// Copy is the user-facing text for each status a screen branches on. Empty
// entries fall back to the server message.
type Copy struct {
	Unauthorized string
	Forbidden    string
	NotFound     string
	Conflict     string
	LimitReached string
	Network      string
	Default      string
}

// DefaultCopy is used when a caller has nothing more specific to say.
var DefaultCopy = Copy{
	Unauthorized: "Сессия истекла. Войдите снова",
	Forbidden:    "Недостаточно прав",
	Network:      MsgNoConnection,
	Default:      MsgDefault,
}

// UserMessage picks the text to show for err.
func UserMessage(err error, c Copy) string {
	if err == nil {
		return ""
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return firstFieldError(verr.Errors, c.Default)
	}

	apiErr := HandleAPIError(err)
	var pick string
	switch apiErr.StatusCode {
	case http.StatusUnauthorized:
		pick = c.Unauthorized
	case http.StatusForbidden:
		pick = c.Forbidden
	case http.StatusNotFound:
		pick = c.NotFound
	case http.StatusConflict:
		pick = c.Conflict
	case http.StatusUnprocessableEntity:
		pick = c.LimitReached
	case 0:
		if KindOf(err) == KindNetwork {
			pick = c.Network
		}
	}
	if pick != "" {
		return pick
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	if c.Default != "" {
		return c.Default
	}
	return MsgDefault
}

func firstFieldError(errs map[string]string, def string) string {
	fields := lo.Keys(errs)
	sort.Strings(fields)
	for _, f := range fields {
		if errs[f] != "" {
			return errs[f]
		}
	}
	if def != "" {
		return def
	}
	return MsgDefault
}
