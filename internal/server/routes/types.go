package routes

import (
	"github.com/robertozapata/portfolio/internal/api/handlers"
	"github.com/robertozapata/portfolio/internal/api/middleware"
	"github.com/robertozapata/portfolio/internal/i18n"
	"github.com/robertozapata/portfolio/internal/logging"
)

// Handlers contains all the route handlers
type Handlers struct {
	Health     *handlers.HealthHandler
	Contact    *handlers.ContactHandler
	Preference *handlers.PreferenceHandler
	I18n       *handlers.I18nHandler
}

// Middleware contains what the middleware chain is built from
type Middleware struct {
	Logger          *logging.Logger
	Catalog         *i18n.Catalog
	DefaultLanguage i18n.Language
	ServiceName     string
	CORS            middleware.CORSConfig
	Security        middleware.SecurityConfig
	Preferences     middleware.PreferencesConfig
	// ContactLimiter guards the contact submission route per client IP
	ContactLimiter *middleware.IPRateLimiter
}
