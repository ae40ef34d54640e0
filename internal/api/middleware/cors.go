package middleware

import (
	"net/http"
	"strings"

	"github.com/robertozapata/portfolio/internal/api/dto/common"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// CORSConfig controls which origins may call the API
type CORSConfig struct {
	// Development accepts any origin
	Development bool
	// AllowedOrigins is the production allow-list. "*" allows every origin.
	AllowedOrigins []string
}

// CORS middleware
func CORS(config CORSConfig) gin.HandlerFunc {
	allowed := lo.Compact(lo.Map(config.AllowedOrigins, func(o string, _ int) string {
		return strings.TrimSpace(o)
	}))
	wildcard := lo.Contains(allowed, "*")

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		switch {
		case config.Development || len(allowed) == 0:
			// Permissive: echo the origin, or * when none is sent
			if origin != "" {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			} else {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			}
		case origin == "":
			// Same-origin and non-browser requests carry no Origin header
		case wildcard || lo.Contains(allowed, origin):
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, common.NewErrorResponse(common.ErrTitleForbidden, "Origin not allowed", nil))
			return
		}

		c.Writer.Header().Add("Vary", "Origin")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Accept-Language, Accept-Encoding, Origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Language, Retry-After, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		// Handle preflight requests
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
