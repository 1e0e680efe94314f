package progress

import (
	"github.com/google/uuid"

	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

// Notifier surfaces transient, non-blocking messages to the learner.
type Notifier interface {
	Success(msg string)
	Error(msg string, err error)
	Score(lessonID uuid.UUID, score int)
}

type logNotifier struct {
	log *logger.Logger
}

// LogNotifier writes notifications to log.
func LogNotifier(log *logger.Logger) Notifier {
	return &logNotifier{log: log.With("component", "Notifier")}
}

func (n *logNotifier) Success(msg string)          { n.log.Info(msg) }
func (n *logNotifier) Error(msg string, err error) { n.log.Warn(msg, "error", err) }

func (n *logNotifier) Score(lessonID uuid.UUID, score int) {
	n.log.Info("Quiz completed", "lesson_id", lessonID, "score", score)
}
