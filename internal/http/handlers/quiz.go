package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/smarttutor-backend/internal/http/response"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
	"github.com/yungbote/smarttutor-backend/internal/services"
)

type QuizHandler struct {
	log         *logger.Logger
	quizService services.QuizService
}

func NewQuizHandler(log *logger.Logger, quizService services.QuizService) *QuizHandler {
	return &QuizHandler{log: log.With("handler", "QuizHandler"), quizService: quizService}
}

// GET /api/quiz/:lesson_id
func (h *QuizHandler) ForLesson(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("lesson_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_lesson_id", err)
		return
	}
	quiz, err := h.quizService.ForLesson(c.Request.Context(), lessonID)
	if err != nil {
		response.RespondServiceError(c, "load_quiz_failed", err)
		return
	}
	response.RespondOK(c, quiz)
}
