package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/smarttutor-backend/internal/learning/api"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Root answers GET /api/.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, api.Message{Message: "SmartTutor API is running"})
}
