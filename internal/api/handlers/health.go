package handlers

import (
	"net/http"

	"github.com/robertozapata/portfolio/internal/api/dto/common"
	"github.com/robertozapata/portfolio/internal/version"

	"github.com/gin-gonic/gin"
)

// Checker reports whether a dependency is usable
type Checker interface {
	Check() error
}

type HealthHandler struct {
	mailer Checker
}

// NewHealthHandler reports "degraded" when mailer cannot send. mailer may
// be nil.
func NewHealthHandler(mailer Checker) *HealthHandler {
	return &HealthHandler{mailer: mailer}
}

func (h *HealthHandler) Check(c *gin.Context) {
	status := "ok"
	if h.mailer != nil && h.mailer.Check() != nil {
		status = "degraded"
	}

	c.JSON(http.StatusOK, common.HealthResponse{
		Status: status,
		Build:  version.GetBuildInfo(),
	})
}
