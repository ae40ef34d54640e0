package constants

import "github.com/robertozapata/portfolio/internal/preference"

// Cookie names used in the application
const (
	// Preference cookies, readable by page scripts
	CookieLanguage = preference.LanguageKey
	CookieTheme    = preference.ThemeKey

	// Cookie paths
	CookiePathRoot = "/" // Root path for cookies available throughout the site

	// Cookie duration in seconds
	CookieDurationYear = preference.DefaultCookieMaxAge
)
