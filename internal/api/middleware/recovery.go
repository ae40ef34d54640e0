package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/robertozapata/portfolio/internal/api/constants"
	"github.com/robertozapata/portfolio/internal/api/dto/common"
	"github.com/robertozapata/portfolio/internal/i18n"
	"github.com/robertozapata/portfolio/internal/logging"
	"github.com/robertozapata/portfolio/internal/preference"
	"github.com/robertozapata/portfolio/internal/utils"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into a 500 with the generic body and logs the
// stack trace
func Recovery(logger *logging.Logger, catalog *i18n.Catalog, defaultLang i18n.Language) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("[PANIC] %s | %s | %s | %s | %v\n%s",
					c.Request.Method,
					c.Request.URL.Path,
					utils.GetRealIP(c),
					c.GetString(constants.ContextKeyRequestID),
					err,
					debug.Stack(),
				)

				lang := preference.LanguageOr(c.Request.Context(), defaultLang)
				c.AbortWithStatusJSON(http.StatusInternalServerError, common.NewErrorResponse(
					common.ErrTitleInternalServer,
					catalog.T(lang, "contact.unexpected"),
					nil,
				))
			}
		}()

		c.Next()
	}
}
