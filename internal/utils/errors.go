package utils

import (
	"github.com/robertozapata/portfolio/internal/api/dto/common"
	"github.com/robertozapata/portfolio/internal/logging"

	"github.com/gin-gonic/gin"
)

// HandleAPIError logs err together with the request it failed and replies
// with a generic body. err itself is never sent to the client.
func HandleAPIError(c *gin.Context, logger *logging.Logger, err error, status int, title common.ErrorTitle, message string) {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	logger.LogHTTPError(
		c.Request.Method,
		c.Request.URL.Path,
		GetRealIP(c),
		status,
		string(title),
		err,
	)

	c.AbortWithStatusJSON(status, common.NewErrorResponse(title, message, nil))
}
