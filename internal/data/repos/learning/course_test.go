package learning

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/smarttutor-backend/internal/data/repos/testutil"
	types "github.com/yungbote/smarttutor-backend/internal/domain"
)

func TestCourseRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewCourseRepo(db, testutil.Logger(t))
	lessons := NewLessonRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "courserepo@example.com")

	c := &types.Course{
		UserID:   u.ID,
		Topic:    "Go",
		Language: "English",
		Mode:     "Quick",
		Videos:   datatypes.JSON([]byte("[]")),
	}
	// Inserted out of order; reads must come back sorted by order.
	for _, order := range []int{3, 1, 2} {
		c.Lessons = append(c.Lessons, &types.Lesson{Order: order, Title: fmt.Sprintf("L%d", order)})
	}
	if _, err := repo.Create(ctx, tx, []*types.Course{c}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{c.ID})
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	if len(rows[0].Lessons) != 3 {
		t.Fatalf("lessons=%d want 3", len(rows[0].Lessons))
	}
	for i, l := range rows[0].Lessons {
		if l.Order != i+1 {
			t.Fatalf("lesson %d has order %d", i, l.Order)
		}
	}

	second := testutil.SeedCourse(t, ctx, tx, u.ID, 2)

	if rows, err := repo.GetByUserIDs(ctx, tx, []uuid.UUID{u.ID}); err != nil || len(rows) != 2 {
		t.Fatalf("GetByUserIDs: err=%v len=%d", err, len(rows))
	}
	recent, err := repo.GetRecentByUserID(ctx, tx, u.ID, 1)
	if err != nil || len(recent) != 1 {
		t.Fatalf("GetRecentByUserID: err=%v len=%d", err, len(recent))
	}
	if recent[0].ID != second.ID {
		t.Fatalf("GetRecentByUserID returned %s want newest %s", recent[0].ID, second.ID)
	}
	if n, err := repo.CountByUserID(ctx, tx, u.ID); err != nil || n != 2 {
		t.Fatalf("CountByUserID: n=%d err=%v", n, err)
	}

	if rows, err := lessons.GetByIDs(ctx, tx, []uuid.UUID{c.Lessons[1].ID}); err != nil || len(rows) != 1 {
		t.Fatalf("Lesson GetByIDs: err=%v len=%d", err, len(rows))
	}
}
