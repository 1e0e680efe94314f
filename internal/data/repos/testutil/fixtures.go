package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/smarttutor-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:              uuid.New(),
		Email:           email,
		Name:            "Ada",
		CoursesEnrolled: datatypes.JSON([]byte("[]")),
		Badges:          datatypes.JSON([]byte("[]")),
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedCourse creates a course with n lessons ordered 1..n.
func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, n int) *types.Course {
	tb.Helper()
	c := &types.Course{
		ID:       uuid.New(),
		UserID:   userID,
		Topic:    "Photosynthesis",
		Language: "English",
		Mode:     "Quick",
		Videos:   datatypes.JSON([]byte("[]")),
	}
	for i := 1; i <= n; i++ {
		c.Lessons = append(c.Lessons, &types.Lesson{
			ID:       uuid.New(),
			CourseID: c.ID,
			Order:    i,
			Title:    fmt.Sprintf("Lesson %d", i),
			Content:  "content",
		})
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}
