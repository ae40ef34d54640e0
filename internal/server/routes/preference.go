package routes

import (
	"github.com/robertozapata/portfolio/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// SetupPreferenceRoutes configures the language and theme preference routes
func SetupPreferenceRoutes(router *gin.RouterGroup, prefs *handlers.PreferenceHandler) {
	group := router.Group("/preferences")
	{
		group.GET("", prefs.Get)
		group.PUT("/language", prefs.SetLanguage)
		group.POST("/language/toggle", prefs.ToggleLanguage)
		group.PUT("/theme", prefs.SetTheme)
		group.POST("/theme/toggle", prefs.ToggleTheme)
	}
}

// SetupI18nRoutes serves translation bundles
func SetupI18nRoutes(router *gin.RouterGroup, i18n *handlers.I18nHandler) {
	router.GET("/i18n/:lang", i18n.Bundle)
}
