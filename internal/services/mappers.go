package services

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/smarttutor-backend/internal/domain"
	"github.com/yungbote/smarttutor-backend/internal/learning/api"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

func jsonColumn(v any) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// decodeColumn leaves out untouched when the column is empty.
func decodeColumn(col datatypes.JSON, out any) error {
	if len(col) == 0 || string(col) == "null" {
		return nil
	}
	return json.Unmarshal(col, out)
}

// decodeOrWarn keeps the default in out when a stored column does not
// decode, so one corrupt row cannot fail a whole listing.
func decodeOrWarn(log *logger.Logger, col datatypes.JSON, out any, column string, rowID uuid.UUID) {
	if err := decodeColumn(col, out); err != nil {
		log.Warn("Stored JSON column did not decode", "column", column, "row_id", rowID, "error", err)
	}
}

func toAPIUser(log *logger.Logger, u *types.User) api.User {
	out := api.User{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Picture:         u.Picture,
		CreatedAt:       u.CreatedAt,
		CoursesEnrolled: []uuid.UUID{},
		Badges:          []string{},
		StreakCount:     u.StreakCount,
		LastLogin:       u.LastLogin,
	}
	decodeOrWarn(log, u.CoursesEnrolled, &out.CoursesEnrolled, "courses_enrolled", u.ID)
	decodeOrWarn(log, u.Badges, &out.Badges, "badges", u.ID)
	return out
}

func toAPILesson(l *types.Lesson) api.Lesson {
	return api.Lesson{
		ID:      l.ID,
		Title:   l.Title,
		Content: l.Content,
		VideoID: l.VideoID,
		Order:   l.Order,
	}
}

func toAPICourse(log *logger.Logger, c *types.Course) api.Course {
	out := api.Course{
		ID:        c.ID,
		Topic:     c.Topic,
		Language:  c.Language,
		Mode:      c.Mode,
		Lessons:   make([]api.Lesson, 0, len(c.Lessons)),
		Videos:    []api.Video{},
		CreatedAt: c.CreatedAt,
	}
	for _, l := range c.Lessons {
		out.Lessons = append(out.Lessons, toAPILesson(l))
	}
	sort.SliceStable(out.Lessons, func(i, j int) bool { return out.Lessons[i].Order < out.Lessons[j].Order })
	decodeOrWarn(log, c.Videos, &out.Videos, "videos", c.ID)
	return out
}

func toAPICourses(log *logger.Logger, rows []*types.Course) []api.Course {
	out := make([]api.Course, 0, len(rows))
	for _, c := range rows {
		out = append(out, toAPICourse(log, c))
	}
	return out
}

func toAPIProgress(log *logger.Logger, p *types.UserProgress) api.Progress {
	out := api.Progress{
		ProgressPayload: api.ProgressPayload{
			CourseID:         p.CourseID,
			Topic:            p.Topic,
			Language:         p.Language,
			Mode:             p.Mode,
			LessonsCompleted: []uuid.UUID{},
			Notes:            map[uuid.UUID]string{},
			QuizScores:       map[uuid.UUID]int{},
			Revision:         p.Revision,
			ClientID:         p.ClientID,
		},
		ID:        p.ID,
		UserID:    p.UserID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	decodeOrWarn(log, p.LessonsCompleted, &out.LessonsCompleted, "lessons_completed", p.ID)
	decodeOrWarn(log, p.Notes, &out.Notes, "notes", p.ID)
	decodeOrWarn(log, p.QuizScores, &out.QuizScores, "quiz_scores", p.ID)
	return out
}

func toAPIProgressList(log *logger.Logger, rows []*types.UserProgress) []api.Progress {
	out := make([]api.Progress, 0, len(rows))
	for _, p := range rows {
		out = append(out, toAPIProgress(log, p))
	}
	return out
}

func toAPISession(u *types.User, token string) *api.Session {
	return &api.Session{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Picture:      u.Picture,
		SessionToken: token,
	}
}
