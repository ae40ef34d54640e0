package middleware

import (
	"time"

	"github.com/robertozapata/portfolio/internal/api/constants"
	"github.com/robertozapata/portfolio/internal/logging"
	"github.com/robertozapata/portfolio/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request. The logger decides whether
// request lines are written at all (LOG_REQUESTS).
func RequestLogger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Start timer
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		// Process request
		c.Next()

		logger.LogHTTPRequest(
			c.Request.Method,
			path,
			utils.GetRealIP(c),
			c.GetString(constants.ContextKeyRequestID),
			c.Writer.Status(),
			c.Writer.Size(),
			time.Since(start).String(),
		)
	}
}
