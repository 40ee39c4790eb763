package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/backoffice-api/internal/dto"
	"github.com/campushq/backoffice-api/internal/models"
	appErrors "github.com/campushq/backoffice-api/pkg/errors"
)

type scheduleRepository interface {
	CreateSchedule(ctx context.Context, schedule *models.Schedule) error
	ExistsSlot(ctx context.Context, classID, courseID, semester string) (bool, error)
	ListSchedules(ctx context.Context, lecturerID string) ([]models.ScheduleDetail, error)
	CreateExam(ctx context.Context, exam *models.Exam) error
	ExistsExamSlot(ctx context.Context, classID, courseID, semester string, examType models.ExamType) (bool, error)
	ListExams(ctx context.Context) ([]models.Exam, error)
}

type scheduleClassRepository interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

type scheduleCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.CourseDetail, error)
}

// ScheduleService manages weekly teaching slots and exam sittings.
type ScheduleService struct {
	schedules scheduleRepository
	classes   scheduleClassRepository
	courses   scheduleCourseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(schedules scheduleRepository, classes scheduleClassRepository, courses scheduleCourseRepository, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ScheduleService{schedules: schedules, classes: classes, courses: courses, validator: validate, logger: logger}
}

// CreateSchedule adds a weekly slot. Each class takes a course at most once
// per semester.
func (s *ScheduleService) CreateSchedule(ctx context.Context, req dto.CreateScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if req.EndTime <= req.StartTime {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end time must come after start time")
	}

	if err := s.checkRefs(ctx, req.ClassID, req.CourseID); err != nil {
		return nil, err
	}

	exists, err := s.schedules.ExistsSlot(ctx, req.ClassID, req.CourseID, req.Semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check schedule slot")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "class already has a slot for this course in the semester")
	}

	schedule := &models.Schedule{
		CourseID:  req.CourseID,
		ClassID:   req.ClassID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Room:      req.Room,
		Semester:  req.Semester,
		Active:    true,
	}
	if err := s.schedules.CreateSchedule(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
	}
	return schedule, nil
}

// ListSchedules returns slots scoped by role: lecturers see only their own
// courses, other roles see everything. Ordering is day of week then start
// time.
func (s *ScheduleService) ListSchedules(ctx context.Context, claims *models.JWTClaims) ([]models.ScheduleDetail, error) {
	scope := ""
	if claims != nil && claims.Role == models.RoleLecturer {
		scope = claims.UserID
	}

	schedules, err := s.schedules.ListSchedules(ctx, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	if schedules == nil {
		schedules = []models.ScheduleDetail{}
	}
	return schedules, nil
}

// CreateExam schedules an exam sitting. Each class has at most one sitting
// per course, semester and exam type.
func (s *ScheduleService) CreateExam(ctx context.Context, req dto.CreateExamRequest) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload")
	}
	if !req.ExamType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown exam type")
	}

	examDate, err := time.Parse("2006-01-02", req.ExamDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid exam date %q", req.ExamDate))
	}

	if err := s.checkRefs(ctx, req.ClassID, req.CourseID); err != nil {
		return nil, err
	}

	exists, err := s.schedules.ExistsExamSlot(ctx, req.ClassID, req.CourseID, req.Semester, req.ExamType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check exam slot")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "class already has this exam sitting in the semester")
	}

	exam := &models.Exam{
		CourseID:  req.CourseID,
		ClassID:   req.ClassID,
		ExamDate:  examDate,
		StartTime: req.StartTime,
		Duration:  req.Duration,
		Room:      req.Room,
		Semester:  req.Semester,
		ExamType:  req.ExamType,
	}
	if err := s.schedules.CreateExam(ctx, exam); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create exam")
	}
	return exam, nil
}

// ListExams returns every exam sitting ordered by date.
func (s *ScheduleService) ListExams(ctx context.Context) ([]models.Exam, error) {
	exams, err := s.schedules.ListExams(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list exams")
	}
	if exams == nil {
		exams = []models.Exam{}
	}
	return exams, nil
}

func (s *ScheduleService) checkRefs(ctx context.Context, classID, courseID string) error {
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return nil
}
