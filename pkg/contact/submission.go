package contact

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Field names shared by the HTML form, the JSON API and provider templates.
const (
	FieldSenderName  = "from_name"
	FieldSenderEmail = "from_email"
	FieldSubject     = "subject"
	FieldMessage     = "message"
)

// Submission is the set of values collected from the contact form.
type Submission struct {
	SenderName  string `json:"from_name"`
	SenderEmail string `json:"from_email"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
}

// Params returns the submission keyed by field name.
// Values are returned as entered.
func (s Submission) Params() map[string]string {
	return map[string]string{
		FieldSenderName:  s.SenderName,
		FieldSenderEmail: s.SenderEmail,
		FieldSubject:     s.Subject,
		FieldMessage:     s.Message,
	}
}

// IsZero reports whether all fields are empty.
func (s Submission) IsZero() bool {
	return s == Submission{}
}

// Validate checks that every field is present.
// Whitespace-only values count as empty. No format checks are applied,
// the email field is not inspected beyond presence.
func (s Submission) Validate() error {
	return validation.Errors{
		FieldSenderName:  validation.Validate(strings.TrimSpace(s.SenderName), validation.Required.Error("Name is required")),
		FieldSenderEmail: validation.Validate(strings.TrimSpace(s.SenderEmail), validation.Required.Error("Email is required")),
		FieldSubject:     validation.Validate(strings.TrimSpace(s.Subject), validation.Required.Error("Subject is required")),
		FieldMessage:     validation.Validate(strings.TrimSpace(s.Message), validation.Required.Error("Message is required")),
	}.Filter()
}

// FieldErrors flattens a Validate error into a field -> message map.
// Returns nil when err is nil or not a validation error.
func FieldErrors(err error) map[string]string {
	errs, ok := err.(validation.Errors)
	if !ok || len(errs) == 0 {
		return nil
	}
	out := make(map[string]string, len(errs))
	for field, fe := range errs {
		out[field] = fe.Error()
	}
	return out
}

// Form is a rendered contact form instance.
type Form struct {
	ID         string
	Submission Submission
}

// Reset clears all fields of the form.
func (f *Form) Reset() {
	f.Submission = Submission{}
}
