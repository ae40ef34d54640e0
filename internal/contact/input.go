package contact

import (
	"bytes"
	"encoding/json"
)

// Field names, as they appear in JSON bodies and error details
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldSubject = "subject"
	FieldMessage = "message"
)

// Fields lists the form fields in display order
var Fields = []string{FieldName, FieldEmail, FieldSubject, FieldMessage}

// Value is one raw field of a submission candidate. It remembers whether the
// key was present and whether it held a JSON string, so a wrong type becomes
// a field error instead of a decode failure.
type Value struct {
	Text    string
	Present bool
	NotText bool
}

// String builds a present text value
func String(s string) Value {
	return Value{Text: s, Present: true}
}

// UnmarshalJSON accepts any JSON value; only strings are kept
func (v *Value) UnmarshalJSON(data []byte) error {
	v.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		v.Present = false
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		v.NotText = true
		return nil
	}
	v.Text = s
	return nil
}

// MarshalJSON writes the text value
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Text)
}

// Input is an unvalidated contact form candidate
type Input struct {
	Name    Value `json:"name"`
	Email   Value `json:"email"`
	Subject Value `json:"subject"`
	Message Value `json:"message"`
}

// NewInput builds an Input from plain strings, as a form collects them
func NewInput(name, email, subject, message string) Input {
	return Input{
		Name:    String(name),
		Email:   String(email),
		Subject: String(subject),
		Message: String(message),
	}
}

// Get returns the named field
func (in Input) Get(field string) (Value, bool) {
	switch field {
	case FieldName:
		return in.Name, true
	case FieldEmail:
		return in.Email, true
	case FieldSubject:
		return in.Subject, true
	case FieldMessage:
		return in.Message, true
	}
	return Value{}, false
}

// Submission is a validated contact message. Only Schema.Validate produces
// one, so holding a Submission means every field passed validation.
type Submission struct {
	name    string
	email   string
	subject string
	message string
}

func (s Submission) Name() string    { return s.name }
func (s Submission) Email() string   { return s.email }
func (s Submission) Subject() string { return s.subject }
func (s Submission) Message() string { return s.message }

// IsZero reports whether s is the zero value returned alongside an error
func (s Submission) IsZero() bool {
	return s == Submission{}
}

// Input converts a submission back into a candidate, for re-validation
func (s Submission) Input() Input {
	return NewInput(s.name, s.email, s.subject, s.message)
}
