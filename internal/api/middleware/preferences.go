package middleware

import (
	"github.com/robertozapata/portfolio/internal/api/constants"
	"github.com/robertozapata/portfolio/internal/i18n"
	"github.com/robertozapata/portfolio/internal/preference"

	"github.com/gin-gonic/gin"
)

// PreferencesConfig controls how the per-request preferences are built
type PreferencesConfig struct {
	DefaultLanguage i18n.Language
	// Negotiate picks the default from Accept-Language when the client has
	// no stored language
	Negotiate bool
	Cookie    preference.CookieOptions
}

// Preferences mounts a language and theme context for each request, backed
// by the preference cookies, and attaches it to the request context
func Preferences(config PreferencesConfig) gin.HandlerFunc {
	if !config.DefaultLanguage.IsSupported() {
		config.DefaultLanguage = i18n.DefaultLanguage
	}

	return func(c *gin.Context) {
		store := preference.NewCookieStore(c, config.Cookie)

		def := config.DefaultLanguage
		if config.Negotiate {
			if _, stored := store.Get(preference.LanguageKey); !stored {
				if lang, ok := i18n.Negotiate(c.GetHeader("Accept-Language")); ok {
					def = lang
				}
			}
		}

		prefs := preference.New(store, preference.NewHeaderDocument(c), def)
		c.Request = c.Request.WithContext(preference.NewContext(c.Request.Context(), prefs))
		c.Set(constants.ContextKeyLanguage, prefs.Language.Language().String())

		c.Next()
	}
}
