package validation

import (
	"errors"
	"strings"
	"sync"

	"github.com/robertozapata/portfolio/internal/i18n"
	"github.com/robertozapata/portfolio/internal/preference"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Tags registered by RegisterValidators
const (
	TagLanguage = "language"
	TagTheme    = "theme"
)

var registerOnce sync.Once

// RegisterValidators registers the preference tags on v
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation(TagLanguage, validateLanguage); err != nil {
		return err
	}
	return v.RegisterValidation(TagTheme, validateTheme)
}

// RegisterBinding registers the custom tags on gin's default validator.
// Later calls are no-ops.
func RegisterBinding() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("validation: gin binding engine is not validator/v10")
			return
		}
		err = RegisterValidators(v)
	})
	return err
}

// validateLanguage accepts any tag that resolves to a supported language
func validateLanguage(fl validator.FieldLevel) bool {
	_, err := i18n.ParseLanguage(fl.Field().String())
	return err == nil
}

func validateTheme(fl validator.FieldLevel) bool {
	_, err := preference.ParseTheme(fl.Field().String())
	return err == nil
}

// FieldError is one failed rule on one request field
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
}

// FormatValidationError flattens validator errors. Any other error yields
// nil.
func FormatValidationError(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, FieldError{
			Field: strings.ToLower(e.Field()),
			Tag:   e.Tag(),
		})
	}
	return out
}
