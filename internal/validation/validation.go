// Package validation holds the field predicates shared by the API server and
// the client. Every predicate is pure: the same input always yields the same
// Result.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Result is the outcome of a single field check.
type Result struct {
	IsValid bool   `json:"isValid"`
	Error   string `json:"error,omitempty"`
}

func ok() Result { return Result{IsValid: true} }

func fail(msg string) Result { return Result{IsValid: false, Error: msg} }

const (
	EmailMaxLength           = 254
	LoginMinLength           = 3
	LoginMaxLength           = 64
	PasswordMinLength        = 8
	PasswordMaxLength        = 64
	DeckNameMaxLength        = 90
	DeckDescriptionMaxLength = 200
	CardTextMaxLength        = 200
)

// PasswordSymbols is the punctuation a password may (and must) draw from.
const PasswordSymbols = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?`~"

const (
	MsgEmailRequired = "Введите email"
	MsgEmailInvalid  = "Некорректный формат email"
	MsgEmailTooLong  = "Email не должен превышать 254 символа"

	MsgLoginRequired = "Введите логин"
	MsgLoginTooShort = "Логин должен содержать минимум 3 символа"
	MsgLoginTooLong  = "Логин не должен превышать 64 символа"
	MsgLoginCharset  = "Логин может содержать только латинские буквы, цифры, точку, дефис и подчёркивание"

	MsgPasswordRequired     = "Введите пароль"
	MsgPasswordInvalidChars = "Пароль содержит недопустимые символы"
	MsgPasswordTooShort     = "Пароль должен содержать минимум 8 символов"
	MsgPasswordTooLong      = "Пароль не должен превышать 64 символа"
	MsgPasswordNoUpper      = "Пароль должен содержать хотя бы одну заглавную букву"
	MsgPasswordNoLower      = "Пароль должен содержать хотя бы одну строчную букву"
	MsgPasswordNoDigit      = "Пароль должен содержать хотя бы одну цифру"
	MsgPasswordNoSymbol     = "Пароль должен содержать хотя бы один специальный символ"
	MsgPasswordMismatch     = "Пароли не совпадают"

	MsgDeckNameRequired   = "Введите название колоды"
	MsgDeckNameTooLong    = "Название колоды не должно превышать 90 символов"
	MsgDeckDescriptionLen = "Описание не должно превышать 200 символов"

	MsgQuestionRequired = "Введите вопрос"
	MsgQuestionTooLong  = "Вопрос не должен превышать 200 символов"
	MsgAnswerRequired   = "Введите ответ"
	MsgAnswerTooLong    = "Ответ не должен превышать 200 символов"
)

var (
	emailRe = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$")
	loginRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
)

func length(s string) int { return utf8.RuneCountInString(s) }

// Email checks a non-empty, well-formed address of at most 254 characters.
func Email(s string) Result {
	v := strings.TrimSpace(s)
	switch {
	case v == "":
		return fail(MsgEmailRequired)
	case length(v) > EmailMaxLength:
		return fail(MsgEmailTooLong)
	case !emailRe.MatchString(v):
		return fail(MsgEmailInvalid)
	}
	return ok()
}

// Login checks a 3..64 character login made of [A-Za-z0-9._-].
func Login(s string) Result {
	switch n := length(s); {
	case strings.TrimSpace(s) == "":
		return fail(MsgLoginRequired)
	case n < LoginMinLength:
		return fail(MsgLoginTooShort)
	case n > LoginMaxLength:
		return fail(MsgLoginTooLong)
	case !loginRe.MatchString(s):
		return fail(MsgLoginCharset)
	}
	return ok()
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isSymbol(r rune) bool { return strings.ContainsRune(PasswordSymbols, r) }

// Password checks length and character classes. Anything outside ASCII
// letters, digits and PasswordSymbols is rejected with a generic message
// before any other rule is evaluated.
func Password(s string) Result {
	if s == "" {
		return fail(MsgPasswordRequired)
	}

	var upper, lower, digit, symbol bool
	for _, r := range s {
		switch {
		case isUpper(r):
			upper = true
		case isLower(r):
			lower = true
		case isDigit(r):
			digit = true
		case isSymbol(r):
			symbol = true
		default:
			return fail(MsgPasswordInvalidChars)
		}
	}

	switch n := length(s); {
	case n < PasswordMinLength:
		return fail(MsgPasswordTooShort)
	case n > PasswordMaxLength:
		return fail(MsgPasswordTooLong)
	case !upper:
		return fail(MsgPasswordNoUpper)
	case !lower:
		return fail(MsgPasswordNoLower)
	case !digit:
		return fail(MsgPasswordNoDigit)
	case !symbol:
		return fail(MsgPasswordNoSymbol)
	}
	return ok()
}

// PasswordConfirmation checks that the repeated password matches.
func PasswordConfirmation(password, confirmation string) Result {
	if password != confirmation {
		return fail(MsgPasswordMismatch)
	}
	return ok()
}

// DeckName checks a 1..90 character name; surrounding whitespace does not count.
func DeckName(s string) Result {
	v := strings.TrimSpace(s)
	switch {
	case v == "":
		return fail(MsgDeckNameRequired)
	case length(v) > DeckNameMaxLength:
		return fail(MsgDeckNameTooLong)
	}
	return ok()
}

// DeckDescription allows up to 200 characters. The raw value is measured.
func DeckDescription(s string) Result {
	if length(s) > DeckDescriptionMaxLength {
		return fail(MsgDeckDescriptionLen)
	}
	return ok()
}

func cardText(s, required, tooLong string) Result {
	switch {
	case strings.TrimSpace(s) == "":
		return fail(required)
	case length(s) > CardTextMaxLength:
		return fail(tooLong)
	}
	return ok()
}

// CardQuestion rejects blank questions and questions over 200 characters.
func CardQuestion(s string) Result {
	return cardText(s, MsgQuestionRequired, MsgQuestionTooLong)
}

// CardAnswer rejects blank answers and answers over 200 characters.
func CardAnswer(s string) Result {
	return cardText(s, MsgAnswerRequired, MsgAnswerTooLong)
}
