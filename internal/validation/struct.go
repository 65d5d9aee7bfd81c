package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var predicates = map[string]func(string) Result{
	"fd_email":            Email,
	"fd_login":            Login,
	"fd_password":         Password,
	"fd_deck_name":        DeckName,
	"fd_deck_description": DeckDescription,
	"fd_card_question":    CardQuestion,
	"fd_card_answer":      CardAnswer,
}

// Validator runs struct-tag validation with the flashdeck predicates
// registered as fd_* tags.
var Validator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	for tag, fn := range predicates {
		fn := fn
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String()).IsValid
		}); err != nil {
			panic(err)
		}
	}
	return v
}

// Struct validates s and returns field → message, or nil when s is valid.
func Struct(s any) map[string]string {
	err := Validator.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = messageFor(fe)
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	if fn, ok := predicates[fe.Tag()]; ok {
		if s, isString := fe.Value().(string); isString {
			if r := fn(s); !r.IsValid {
				return r.Error
			}
		}
	}
	switch fe.Tag() {
	case "required":
		return "Поле обязательно для заполнения"
	case "gt", "gte", "min":
		return "Значение должно быть не меньше " + fe.Param()
	case "eqfield":
		return MsgPasswordMismatch
	}
	return "Некорректное значение"
}
