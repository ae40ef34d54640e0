package preference

import (
	"context"

	"github.com/robertozapata/portfolio/internal/i18n"
)

// Preferences bundles the contexts a provider attaches to a request
type Preferences struct {
	Language *LanguageContext
	Theme    *ThemeContext
}

// New builds both contexts over one store and document
func New(store Store, doc Document, def i18n.Language) *Preferences {
	return &Preferences{
		Language: NewLanguageContext(store, doc, def),
		Theme:    NewThemeContext(store, doc),
	}
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying p
func NewContext(ctx context.Context, p *Preferences) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the preferences attached by a provider
func FromContext(ctx context.Context) (*Preferences, bool) {
	p, ok := ctx.Value(contextKey{}).(*Preferences)
	return p, ok && p != nil
}

// MustLanguage returns the language context attached to ctx. It panics when
// no provider ran; code reading preferences must sit behind one.
func MustLanguage(ctx context.Context) *LanguageContext {
	p, ok := FromContext(ctx)
	if !ok || p.Language == nil {
		panic("preference: MustLanguage called without a preferences provider")
	}
	return p.Language
}

// MustTheme is MustLanguage for the theme context
func MustTheme(ctx context.Context) *ThemeContext {
	p, ok := FromContext(ctx)
	if !ok || p.Theme == nil {
		panic("preference: MustTheme called without a preferences provider")
	}
	return p.Theme
}

// LanguageOr returns the language attached to ctx, or def without a provider
func LanguageOr(ctx context.Context, def i18n.Language) i18n.Language {
	if p, ok := FromContext(ctx); ok && p.Language != nil {
		return p.Language.Language()
	}
	return def
}
