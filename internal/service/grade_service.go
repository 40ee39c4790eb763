package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/backoffice-api/internal/dto"
	"github.com/campushq/backoffice-api/internal/models"
	appErrors "github.com/campushq/backoffice-api/pkg/errors"
)

type gradeRepository interface {
	Create(ctx context.Context, grade *models.Grade) error
	FindByID(ctx context.Context, id string) (*models.Grade, error)
	Confirm(ctx context.Context, id, confirmedBy string, confirmedAt time.Time) error
	List(ctx context.Context, filter models.GradeFilter) ([]models.GradeDetail, error)
}

type gradeStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	FindByStudentNumber(ctx context.Context, studentNumber string) (*models.Student, error)
}

type gradeCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.CourseDetail, error)
}

type gradeAuditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// GradeService implements the two-stage grade workflow: lecturers submit
// pending grades, admins confirm them.
type GradeService struct {
	grades    gradeRepository
	students  gradeStudentRepository
	courses   gradeCourseRepository
	audits    gradeAuditWriter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeService constructs a GradeService.
func NewGradeService(grades gradeRepository, students gradeStudentRepository, courses gradeCourseRepository, audits gradeAuditWriter, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GradeService{grades: grades, students: students, courses: courses, audits: audits, validator: validate, logger: logger}
}

// Submit records a new pending grade. Lecturers may only grade their own
// courses; admins may grade any. History is append-only, so resubmitting for
// the same pair adds a row rather than replacing one.
func (s *GradeService) Submit(ctx context.Context, claims *models.JWTClaims, req dto.SubmitGradeRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}

	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if claims.Role == models.RoleLecturer {
		if course.LecturerID == nil || *course.LecturerID != claims.UserID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "course is assigned to another lecturer")
		}
	}

	grade := &models.Grade{
		StudentID:   req.StudentID,
		CourseID:    req.CourseID,
		Value:       req.Value,
		Status:      models.GradeStatusPending,
		SubmittedBy: claims.UserID,
		SubmittedAt: time.Now().UTC(),
		Note:        req.Note,
	}

	if err := s.grades.Create(ctx, grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create grade")
	}

	if err := s.audits.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &claims.UserID,
		Action:     models.AuditActionCreate,
		Resource:   "grades",
		ResourceID: &grade.ID,
	}); err != nil {
		s.logger.Warn("failed to record grade audit log", zap.Error(err))
	}

	return grade, nil
}

// Confirm finalises a pending grade. Confirming an already confirmed grade
// is an invalid state transition, not an idempotent no-op.
func (s *GradeService) Confirm(ctx context.Context, claims *models.JWTClaims, gradeID string) (*models.Grade, error) {
	if _, err := s.grades.FindByID(ctx, gradeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grade not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade")
	}

	if err := s.grades.Confirm(ctx, gradeID, claims.UserID, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidState, "grade is not pending")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to confirm grade")
	}

	if err := s.audits.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &claims.UserID,
		Action:     models.AuditActionConfirm,
		Resource:   "grades",
		ResourceID: &gradeID,
	}); err != nil {
		s.logger.Warn("failed to record grade confirm audit log", zap.Error(err))
	}

	return s.loadGrade(ctx, gradeID)
}

// List returns grades scoped by the caller's role. Students see only their
// own confirmed grades, lecturers see every grade for their courses and
// admins see everything. The status filter applies on top of the scope for
// admins and lecturers.
func (s *GradeService) List(ctx context.Context, claims *models.JWTClaims, status models.GradeStatus) ([]models.GradeDetail, error) {
	filter := models.GradeFilter{}

	switch claims.Role {
	case models.RoleStudent:
		student, err := s.students.FindByStudentNumber(ctx, claims.Username)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "student record not found for account")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student record")
		}
		filter.StudentID = student.ID
		filter.Status = models.GradeStatusConfirmed
	case models.RoleLecturer:
		filter.LecturerID = claims.UserID
		filter.Status = status
	default:
		filter.Status = status
	}

	if filter.Status != "" && !filter.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown grade status")
	}

	grades, err := s.grades.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	if grades == nil {
		grades = []models.GradeDetail{}
	}
	return grades, nil
}

func (s *GradeService) loadGrade(ctx context.Context, id string) (*models.Grade, error) {
	grade, err := s.grades.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade")
	}
	return grade, nil
}
