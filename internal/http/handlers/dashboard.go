package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/smarttutor-backend/internal/http/response"
	"github.com/yungbote/smarttutor-backend/internal/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GET /api/dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	d, err := h.dashboardService.Get(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, "load_dashboard_failed", err)
		return
	}
	response.RespondOK(c, d)
}
