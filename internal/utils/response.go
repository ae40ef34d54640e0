package utils

import (
	"net/http"

	"github.com/robertozapata/portfolio/internal/api/dto/common"

	"github.com/gin-gonic/gin"
)

// HandleSuccess sends a success response with data
func HandleSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// HandleError sends an error response without logging
func HandleError(c *gin.Context, status int, title common.ErrorTitle, message string, details interface{}) {
	c.AbortWithStatusJSON(status, common.NewErrorResponse(title, message, details))
}
