package contact

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robertozapata/portfolio/internal/i18n"
)

// candidate holds normalized field values and the constraints they must meet
type candidate struct {
	Name    string `json:"name" validate:"min=2,max=100"`
	Email   string `json:"email" validate:"email"`
	Subject string `json:"subject" validate:"min=5,max=200"`
	Message string `json:"message" validate:"min=10,max=1000"`
}

// Schema validates contact form candidates. The same schema serves the
// server pipeline and the form client.
type Schema struct {
	validate *validator.Validate
	catalog  *i18n.Catalog
}

// NewSchema creates a schema whose messages come from catalog
func NewSchema(catalog *i18n.Catalog) *Schema {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Schema{
		validate: v,
		catalog:  catalog,
	}
}

// Validate normalizes in and checks every field independently. On success
// it returns the Submission; otherwise a *ValidationError listing one
// message per invalid field.
func (s *Schema) Validate(in Input, lang i18n.Language) (Submission, error) {
	c := normalize(in)
	failed := make(map[string]string)
	var skip []string

	for _, field := range Fields {
		v, _ := in.Get(field)
		switch {
		case v.NotText:
			failed[field] = "type"
		case !v.Present:
			failed[field] = "required"
		default:
			continue
		}
		skip = append(skip, structField(field))
	}

	if err := s.validate.StructExcept(c, skip...); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Submission{}, err
		}
		for _, fe := range verrs {
			failed[fe.Field()] = fe.Tag()
		}
	}

	if len(failed) > 0 {
		return Submission{}, s.buildError(failed, lang)
	}

	return Submission{
		name:    c.Name,
		email:   c.Email,
		subject: c.Subject,
		message: c.Message,
	}, nil
}

// ValidateField checks a single field, as a form does when the user leaves
// it. It returns nil when the value is acceptable.
func (s *Schema) ValidateField(field, value string, lang i18n.Language) *FieldError {
	sf := structField(field)
	if sf == "" {
		return nil
	}

	in := Input{}
	switch field {
	case FieldName:
		in.Name = String(value)
	case FieldEmail:
		in.Email = String(value)
	case FieldSubject:
		in.Subject = String(value)
	case FieldMessage:
		in.Message = String(value)
	}

	err := s.validate.StructPartial(normalize(in), sf)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return nil
	}
	fe := FieldError{
		Field:   field,
		Message: s.message(field, verrs[0].Tag(), lang),
	}
	return &fe
}

func (s *Schema) buildError(failed map[string]string, lang i18n.Language) *ValidationError {
	verr := &ValidationError{}
	for _, field := range Fields {
		rule, ok := failed[field]
		if !ok {
			continue
		}
		verr.Fields = append(verr.Fields, FieldError{
			Field:   field,
			Message: s.message(field, rule, lang),
		})
	}
	return verr
}

func (s *Schema) message(field, rule string, lang i18n.Language) string {
	return s.catalog.T(lang, "validation."+field+"."+rule)
}

func normalize(in Input) candidate {
	return candidate{
		Name:    strings.TrimSpace(in.Name.Text),
		Email:   strings.ToLower(strings.TrimSpace(in.Email.Text)),
		Subject: strings.TrimSpace(in.Subject.Text),
		Message: strings.TrimSpace(in.Message.Text),
	}
}

// structField maps a JSON field name to the candidate's Go field name
func structField(field string) string {
	switch field {
	case FieldName:
		return "Name"
	case FieldEmail:
		return "Email"
	case FieldSubject:
		return "Subject"
	case FieldMessage:
		return "Message"
	}
	return ""
}
