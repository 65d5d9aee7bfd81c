package validation

// Form gathers field results for a submit-time check. It keeps the first
// failure per field.
type Form struct {
	errs map[string]string
}

func NewForm() *Form {
	return &Form{errs: map[string]string{}}
}

// Check records r under field when it is a failure.
func (f *Form) Check(field string, r Result) *Form {
	if !r.IsValid {
		if _, seen := f.errs[field]; !seen {
			f.errs[field] = r.Error
		}
	}
	return f
}

func (f *Form) Valid() bool { return len(f.errs) == 0 }

// Errors returns a copy of the collected field messages, or nil when valid.
func (f *Form) Errors() map[string]string {
	if f.Valid() {
		return nil
	}
	out := make(map[string]string, len(f.errs))
	for k, v := range f.errs {
		out[k] = v
	}
	return out
}

// ValidateRegistration re-runs every registration predicate.
func ValidateRegistration(login, email, password, confirmation string) *Form {
	return NewForm().
		Check("login", Login(login)).
		Check("email", Email(email)).
		Check("password", Password(password)).
		Check("confirmPassword", PasswordConfirmation(password, confirmation))
}

func ValidateDeck(name, description string) *Form {
	return NewForm().
		Check("name", DeckName(name)).
		Check("description", DeckDescription(description))
}

func ValidateCard(question, answer string) *Form {
	return NewForm().
		Check("question", CardQuestion(question)).
		Check("answer", CardAnswer(answer))
}
