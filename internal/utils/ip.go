package utils

import (
	"github.com/gin-gonic/gin"
)

// GetRealIP returns the client address. X-Forwarded-For and X-Real-IP are
// honored only when the request came through one of the engine's trusted
// proxies; otherwise the socket address is used.
func GetRealIP(c *gin.Context) string {
	return c.ClientIP()
}
