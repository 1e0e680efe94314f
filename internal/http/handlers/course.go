package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/smarttutor-backend/internal/http/response"
	"github.com/yungbote/smarttutor-backend/internal/learning/api"
	"github.com/yungbote/smarttutor-backend/internal/platform/ctxutil"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
	"github.com/yungbote/smarttutor-backend/internal/services"
)

type CourseHandler struct {
	log           *logger.Logger
	courseService services.CourseService
}

func NewCourseHandler(log *logger.Logger, courseService services.CourseService) *CourseHandler {
	return &CourseHandler{
		log:           log.With("handler", "CourseHandler"),
		courseService: courseService,
	}
}

// POST /api/create-course
func (h *CourseHandler) Create(c *gin.Context) {
	var req api.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	course, err := h.courseService.Create(c.Request.Context(), req)
	if err != nil {
		h.log.Warn("CreateCourse failed", "error", err, "user_id", ctxutil.UserID(c.Request.Context()), "topic", req.Topic)
		response.RespondServiceError(c, "create_course_failed", err)
		return
	}
	response.RespondOK(c, course)
}

// GET /api/my-courses
func (h *CourseHandler) ListMine(c *gin.Context) {
	courses, err := h.courseService.ListMine(c.Request.Context())
	if err != nil {
		h.log.Error("ListMine failed", "error", err, "user_id", ctxutil.UserID(c.Request.Context()))
		response.RespondServiceError(c, "load_courses_failed", err)
		return
	}
	response.RespondOK(c, courses)
}
