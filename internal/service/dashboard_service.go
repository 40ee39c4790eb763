package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campushq/backoffice-api/internal/models"
	appErrors "github.com/campushq/backoffice-api/pkg/errors"
)

type dashboardStudentRepository interface {
	Count(ctx context.Context) (int, error)
	FindByStudentNumber(ctx context.Context, studentNumber string) (*models.Student, error)
}

type dashboardCourseRepository interface {
	Count(ctx context.Context) (int, error)
}

type dashboardNewsRepository interface {
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, limit int) ([]models.News, error)
}

type dashboardScheduleRepository interface {
	ListSchedules(ctx context.Context, lecturerID string) ([]models.ScheduleDetail, error)
}

// DashboardService composes the landing page payload: entity counts, the
// latest news and the viewer's schedule slice.
type DashboardService struct {
	students  dashboardStudentRepository
	courses   dashboardCourseRepository
	news      dashboardNewsRepository
	schedules dashboardScheduleRepository
	cache     *CacheService
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(students dashboardStudentRepository, courses dashboardCourseRepository, news dashboardNewsRepository, schedules dashboardScheduleRepository, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &DashboardService{students: students, courses: courses, news: news, schedules: schedules, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

const dashboardLatestNewsLimit = 3

// Summary builds the dashboard for the caller. Schedules are scoped to the
// viewer: lecturers see their own courses and students see their class.
func (s *DashboardService) Summary(ctx context.Context, claims *models.JWTClaims) (*models.DashboardSummary, error) {
	cacheKey := fmt.Sprintf("dashboard:%s:%s", claims.Role, claims.Username)
	if s.cache.Enabled() {
		var cached models.DashboardSummary
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	studentCount, err := s.students.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	courseCount, err := s.courses.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count courses")
	}
	newsCount, err := s.news.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count news")
	}

	latest, err := s.news.List(ctx, dashboardLatestNewsLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load latest news")
	}
	if latest == nil {
		latest = []models.News{}
	}

	schedules, err := s.scopedSchedules(ctx, claims)
	if err != nil {
		return nil, err
	}

	summary := &models.DashboardSummary{
		Role:     claims.Role,
		Username: claims.Username,
		Stats: models.DashboardStats{
			Students: studentCount,
			Courses:  courseCount,
			News:     newsCount,
		},
		LatestNews: latest,
		Schedules:  schedules,
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, cacheKey, summary, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache dashboard summary", zap.Error(err))
		}
	}

	return summary, nil
}

// Invalidate clears cached dashboards after a mutation touching the counts
// or news.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}

func (s *DashboardService) scopedSchedules(ctx context.Context, claims *models.JWTClaims) ([]models.ScheduleDetail, error) {
	scope := ""
	if claims.Role == models.RoleLecturer {
		scope = claims.UserID
	}

	schedules, err := s.schedules.ListSchedules(ctx, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedules")
	}

	if claims.Role == models.RoleStudent {
		student, err := s.students.FindByStudentNumber(ctx, claims.Username)
		if err != nil {
			// An account without a student record sees an empty slice.
			return []models.ScheduleDetail{}, nil
		}
		if student.ClassID == nil {
			return []models.ScheduleDetail{}, nil
		}
		filtered := make([]models.ScheduleDetail, 0, len(schedules))
		for _, slot := range schedules {
			if slot.ClassID == *student.ClassID {
				filtered = append(filtered, slot)
			}
		}
		return filtered, nil
	}

	if schedules == nil {
		schedules = []models.ScheduleDetail{}
	}
	return schedules, nil
}
