package i18n

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/language"
)

// Language is a supported site language code
type Language string

const (
	Spanish Language = "es"
	English Language = "en"

	// DefaultLanguage is used when nothing else is known about the visitor
	DefaultLanguage = Spanish
)

var supported = []Language{Spanish, English}

// matcher negotiates Accept-Language headers against the supported set.
// The order of tags follows supported, so the matched index maps back to it.
var matcher = language.NewMatcher([]language.Tag{
	language.Spanish,
	language.English,
})

// Supported returns all supported languages, default first
func Supported() []Language {
	return append([]Language(nil), supported...)
}

// IsSupported reports whether l is one of the supported languages
func (l Language) IsSupported() bool {
	return lo.Contains(supported, l)
}

func (l Language) String() string {
	return string(l)
}

// Other returns the language a toggle switches to
func (l Language) Other() Language {
	if l == Spanish {
		return English
	}
	return Spanish
}

// ParseLanguage parses a language code such as "en", "EN" or "es-CO"
func ParseLanguage(s string) (Language, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty language code")
	}

	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid language code %q: %w", s, err)
	}

	base, _ := tag.Base()
	l := Language(base.String())
	if !l.IsSupported() {
		return "", fmt.Errorf("unsupported language %q", s)
	}
	return l, nil
}

// Negotiate picks the best supported language for an Accept-Language header.
// It returns false when the header names nothing we can serve.
func Negotiate(acceptLanguage string) (Language, bool) {
	if strings.TrimSpace(acceptLanguage) == "" {
		return DefaultLanguage, false
	}

	_, index, confidence := matcher.Match(parseAccept(acceptLanguage)...)
	if confidence == language.No {
		return DefaultLanguage, false
	}
	return supported[index], true
}

func parseAccept(header string) []language.Tag {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return nil
	}
	return tags
}
