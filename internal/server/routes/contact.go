package routes

import (
	"github.com/robertozapata/portfolio/internal/api/handlers"
	"github.com/robertozapata/portfolio/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// SetupContactRoutes configures contact form routes
func SetupContactRoutes(router *gin.RouterGroup, contact *handlers.ContactHandler, m *Middleware) {
	public := router.Group("/contact")
	{
		// The per-IP guard runs before the per-email cooldown
		if m.ContactLimiter != nil {
			public.POST("",
				middleware.RateLimitMiddleware(m.ContactLimiter, m.Catalog, m.DefaultLanguage),
				contact.Submit,
			)
		} else {
			public.POST("", contact.Submit)
		}
		public.GET("", contact.Info)
	}
}
