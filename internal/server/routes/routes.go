package routes

import (
	"net/http"

	"github.com/robertozapata/portfolio/internal/api/dto/common"
	"github.com/robertozapata/portfolio/internal/api/middleware"
	"github.com/robertozapata/portfolio/internal/preference"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Setup configures all route groups
func Setup(router *gin.Engine, h *Handlers, m *Middleware) {
	// Health check endpoint
	SetupHealthRoutes(router, h.Health)

	api := router.Group("/api")

	// Contact routes (public)
	SetupContactRoutes(api, h.Contact, m)

	// Language and theme
	SetupPreferenceRoutes(api, h.Preference)
	SetupI18nRoutes(api, h.I18n)

	router.NoRoute(func(c *gin.Context) {
		lang := preference.LanguageOr(c.Request.Context(), m.DefaultLanguage)
		c.JSON(http.StatusNotFound, common.NewErrorResponse(common.ErrTitleNotFound, m.Catalog.T(lang, "api.notFound"), nil))
	})

	m.Logger.Info("All routes have been set up successfully")
}

// SetupGlobalMiddleware configures middleware that applies to all routes
func SetupGlobalMiddleware(router *gin.Engine, m *Middleware) {
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(m.Logger, m.Catalog, m.DefaultLanguage))
	router.Use(otelgin.Middleware(m.ServiceName))
	router.Use(middleware.RequestLogger(m.Logger))
	router.Use(middleware.CORS(m.CORS))
	router.Use(middleware.SecurityHeaders(m.Security))
	router.Use(middleware.Preferences(m.Preferences))
}
