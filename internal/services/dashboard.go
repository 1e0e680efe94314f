package services

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/smarttutor-backend/internal/data/repos"
	types "github.com/yungbote/smarttutor-backend/internal/domain"
	"github.com/yungbote/smarttutor-backend/internal/learning/api"
	"github.com/yungbote/smarttutor-backend/internal/platform/apierr"
	"github.com/yungbote/smarttutor-backend/internal/platform/ctxutil"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

const recentCourses = 5

type DashboardService interface {
	Get(ctx context.Context) (*api.Dashboard, error)
}

type dashboardService struct {
	log          *logger.Logger
	userRepo     repos.UserRepo
	courseRepo   repos.CourseRepo
	progressRepo repos.UserProgressRepo
}

func NewDashboardService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	courseRepo repos.CourseRepo,
	progressRepo repos.UserProgressRepo,
) DashboardService {
	return &dashboardService{
		log:          log.With("service", "DashboardService"),
		userRepo:     userRepo,
		courseRepo:   courseRepo,
		progressRepo: progressRepo,
	}
}

func (ds *dashboardService) Get(ctx context.Context) (*api.Dashboard, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", ErrUnauthenticated)
	}

	var (
		users    []*types.User
		total    int64
		recent   []*types.Course
		progress []*types.UserProgress
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := ds.userRepo.GetByIDs(gctx, nil, []uuid.UUID{userID})
		users = rows
		return err
	})
	g.Go(func() error {
		n, err := ds.courseRepo.CountByUserID(gctx, nil, userID)
		total = n
		return err
	})
	g.Go(func() error {
		rows, err := ds.courseRepo.GetRecentByUserID(gctx, nil, userID, recentCourses)
		recent = rows
		return err
	})
	g.Go(func() error {
		rows, err := ds.progressRepo.GetByUserID(gctx, nil, userID)
		progress = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load dashboard: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.Unauthorized("unauthorized", ErrUnauthenticated)
	}

	user := toAPIUser(ds.log, users[0])
	records := toAPIProgressList(ds.log, progress)
	return &api.Dashboard{
		User:          user,
		Stats:         ComputeStats(int(total), user.StreakCount, records),
		RecentCourses: toAPICourses(ds.log, recent),
		Progress:      records,
	}, nil
}

// ComputeStats totals completed lessons across records and averages every
// stored quiz score, rounded to one decimal.
func ComputeStats(totalCourses, streak int, records []api.Progress) api.Stats {
	stats := api.Stats{TotalCourses: totalCourses, StreakCount: streak}
	var sum, n int
	for _, p := range records {
		stats.LessonsCompleted += len(p.LessonsCompleted)
		for _, s := range p.QuizScores {
			sum += s
			n++
		}
	}
	if n > 0 {
		stats.AverageQuizScore = math.Round(float64(sum)/float64(n)*10) / 10
	}
	return stats
}
