package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/smarttutor-backend/internal/http/response"
	"github.com/yungbote/smarttutor-backend/internal/learning/api"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
	"github.com/yungbote/smarttutor-backend/internal/services"
)

type ProgressHandler struct {
	log             *logger.Logger
	progressService services.ProgressService
}

func NewProgressHandler(log *logger.Logger, progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{log: log.With("handler", "ProgressHandler"), progressService: progressService}
}

// POST /api/progress
func (h *ProgressHandler) Save(c *gin.Context) {
	var payload api.ProgressPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	applied, err := h.progressService.Save(c.Request.Context(), payload)
	if err != nil {
		response.RespondServiceError(c, "save_progress_failed", err)
		return
	}
	msg := "Progress updated successfully"
	if !applied {
		msg = "Progress unchanged: a newer push from this session is stored"
	}
	response.RespondOK(c, api.Message{Message: msg})
}

// GET /api/progress
func (h *ProgressHandler) List(c *gin.Context) {
	records, err := h.progressService.List(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, "load_progress_failed", err)
		return
	}
	response.RespondOK(c, records)
}

// GET /api/progress/:course_id
func (h *ProgressHandler) ForCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	record, err := h.progressService.ForCourse(c.Request.Context(), courseID)
	if err != nil {
		response.RespondServiceError(c, "load_progress_failed", err)
		return
	}
	response.RespondOK(c, record)
}
