package contact

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/robertozapata/portfolio/internal/i18n"
	"github.com/stretchr/testify/require"
)

func newTestSchema() *Schema {
	return NewSchema(i18n.MustLoad())
}

func validInput() Input {
	return NewInput("Ana", "ana@example.com", "Hello there", "This is a long enough message.")
}

func TestValidateAcceptsAndNormalizes(t *testing.T) {
	req := require.New(t)
	in := NewInput("  Ana  ", " Ana@Example.COM ", "  Hello there ", "  This is a long enough message.  ")

	sub, err := newTestSchema().Validate(in, i18n.English)
	req.NoError(err)
	req.Equal("Ana", sub.Name())
	req.Equal("ana@example.com", sub.Email())
	req.Equal("Hello there", sub.Subject())
	req.Equal("This is a long enough message.", sub.Message())
	req.False(sub.IsZero())
}

func TestValidateIsIdempotent(t *testing.T) {
	req := require.New(t)
	schema := newTestSchema()

	first, err := schema.Validate(NewInput(" Ana ", "ANA@example.com", "Hello there", "This is a long enough message."), i18n.Spanish)
	req.NoError(err)
	second, err := schema.Validate(first.Input(), i18n.Spanish)
	req.NoError(err)
	req.Equal(first, second)
}

func TestValidateBounds(t *testing.T) {
	tests := []struct {
		name      string
		field     string
		value     string
		wantValid bool
	}{
		{"name 1 char", FieldName, "A", false},
		{"name 2 chars", FieldName, "Al", true},
		{"name 100 chars", FieldName, strings.Repeat("a", 100), true},
		{"name 101 chars", FieldName, strings.Repeat("a", 101), false},
		{"name counted in runes", FieldName, "Ñá", true},
		{"name only spaces", FieldName, "     ", false},
		{"subject 4 chars", FieldSubject, "abcd", false},
		{"subject 5 chars", FieldSubject, "abcde", true},
		{"subject 200 chars", FieldSubject, strings.Repeat("s", 200), true},
		{"subject 201 chars", FieldSubject, strings.Repeat("s", 201), false},
		{"message 9 chars", FieldMessage, "123456789", false},
		{"message 10 chars", FieldMessage, "1234567890", true},
		{"message 1000 chars", FieldMessage, strings.Repeat("m", 1000), true},
		{"message 1001 chars", FieldMessage, strings.Repeat("m", 1001), false},
		{"message padded to 10", FieldMessage, "   123456789   ", false},
		{"email valid", FieldEmail, "someone@example.com", true},
		{"email no at", FieldEmail, "someone.example.com", false},
		{"email empty", FieldEmail, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			in := validInput()
			switch tt.field {
			case FieldName:
				in.Name = String(tt.value)
			case FieldEmail:
				in.Email = String(tt.value)
			case FieldSubject:
				in.Subject = String(tt.value)
			case FieldMessage:
				in.Message = String(tt.value)
			}

			_, err := newTestSchema().Validate(in, i18n.English)
			if tt.wantValid {
				req.NoError(err)
				return
			}
			var verr *ValidationError
			req.ErrorAs(err, &verr)
			req.Len(verr.Fields, 1)
			req.Equal(tt.field, verr.Fields[0].Field)
		})
	}
}

func TestValidateReportsEveryFieldInOrder(t *testing.T) {
	req := require.New(t)

	_, err := newTestSchema().Validate(NewInput("A", "nope", "abc", "short"), i18n.English)
	var verr *ValidationError
	req.ErrorAs(err, &verr)
	req.ErrorIs(err, ErrValidation)
	req.Equal([]FieldError{
		{Field: FieldName, Message: "Name must be at least 2 characters"},
		{Field: FieldEmail, Message: "Please enter a valid email"},
		{Field: FieldSubject, Message: "Subject must be at least 5 characters"},
		{Field: FieldMessage, Message: "Message must be at least 10 characters"},
	}, verr.Fields)
}

func TestValidateLocalizesMessages(t *testing.T) {
	req := require.New(t)
	in := validInput()
	in.Name = String("A")

	_, err := newTestSchema().Validate(in, i18n.Spanish)
	var verr *ValidationError
	req.ErrorAs(err, &verr)
	fe, ok := verr.Field(FieldName)
	req.True(ok)
	req.Equal("El nombre debe tener al menos 2 caracteres", fe.Message)
}

func TestValidateDecodedBodies(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		fields map[string]string
	}{
		{
			name:   "missing fields",
			body:   `{"name":"Ana"}`,
			fields: map[string]string{FieldEmail: "Email is required", FieldSubject: "Subject is required", FieldMessage: "Message is required"},
		},
		{
			name:   "null counts as missing",
			body:   `{"name":null,"email":"a@b.com","subject":"Hello there","message":"Long enough message"}`,
			fields: map[string]string{FieldName: "Name is required"},
		},
		{
			name:   "wrong types",
			body:   `{"name":42,"email":["a@b.com"],"subject":"Hello there","message":{"text":"x"}}`,
			fields: map[string]string{FieldName: "Name must be text", FieldEmail: "Email must be text", FieldMessage: "Message must be text"},
		},
		{
			name:   "all good",
			body:   `{"name":"Ana","email":"a@b.com","subject":"Hello there","message":"Long enough message","extra":true}`,
			fields: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			var in Input
			req.NoError(json.Unmarshal([]byte(tt.body), &in))

			_, err := newTestSchema().Validate(in, i18n.English)
			if tt.fields == nil {
				req.NoError(err)
				return
			}
			var verr *ValidationError
			req.ErrorAs(err, &verr)
			req.Len(verr.Fields, len(tt.fields))
			for field, msg := range tt.fields {
				fe, ok := verr.Field(field)
				req.True(ok, field)
				req.Equal(msg, fe.Message)
			}
		})
	}
}

func TestValidateField(t *testing.T) {
	req := require.New(t)
	schema := newTestSchema()

	req.Nil(schema.ValidateField(FieldName, "Ana", i18n.English))
	req.Nil(schema.ValidateField("website", "anything", i18n.English))

	fe := schema.ValidateField(FieldEmail, "bad", i18n.English)
	req.NotNil(fe)
	req.Equal(FieldEmail, fe.Field)
	req.Equal("Please enter a valid email", fe.Message)

	fe = schema.ValidateField(FieldMessage, strings.Repeat("x", 1001), i18n.Spanish)
	req.NotNil(fe)
	req.Equal("El mensaje no puede exceder 1000 caracteres", fe.Message)
}
