package progress

import (
	"github.com/google/uuid"

	"github.com/yungbote/smarttutor-backend/internal/learning/api"
)

// Record is the learner's progress in one course. Completed keeps the order
// in which lessons were finished.
type Record struct {
	CourseID  uuid.UUID
	Topic     string
	Language  string
	Mode      string
	Completed []uuid.UUID
	Notes     map[uuid.UUID]string
	Scores    map[uuid.UUID]int
}

// RecordFromProgress converts a stored backend record.
func RecordFromProgress(p api.Progress) Record {
	return Record{
		CourseID:  p.CourseID,
		Topic:     p.Topic,
		Language:  p.Language,
		Mode:      p.Mode,
		Completed: p.LessonsCompleted,
		Notes:     p.Notes,
		Scores:    p.QuizScores,
	}
}

func (r Record) clone() Record {
	out := r
	out.Completed = append([]uuid.UUID(nil), r.Completed...)
	out.Notes = make(map[uuid.UUID]string, len(r.Notes))
	for k, v := range r.Notes {
		out.Notes[k] = v
	}
	out.Scores = make(map[uuid.UUID]int, len(r.Scores))
	for k, v := range r.Scores {
		out.Scores[k] = v
	}
	return out
}

func (r Record) payload(clientID uuid.UUID, revision int64) api.ProgressPayload {
	c := r.clone()
	return api.ProgressPayload{
		CourseID:         c.CourseID,
		Topic:            c.Topic,
		Language:         c.Language,
		Mode:             c.Mode,
		LessonsCompleted: c.Completed,
		Notes:            c.Notes,
		QuizScores:       c.Scores,
		Revision:         revision,
		ClientID:         clientID,
	}
}
