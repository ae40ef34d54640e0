package preference

import "github.com/robertozapata/portfolio/internal/i18n"

// Document receives the active preferences, the way a page's root element
// carries its lang attribute and theme class
type Document interface {
	SetLanguage(lang i18n.Language)
	SetTheme(theme Theme)
}

// NopDocument ignores every update
type NopDocument struct{}

func (NopDocument) SetLanguage(i18n.Language) {}
func (NopDocument) SetTheme(Theme)            {}
