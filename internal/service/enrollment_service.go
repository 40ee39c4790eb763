package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/backoffice-api/internal/dto"
	"github.com/campushq/backoffice-api/internal/models"
	appErrors "github.com/campushq/backoffice-api/pkg/errors"
)

type enrollmentRepository interface {
	Enroll(ctx context.Context, studentID, courseID string) (*models.Enrollment, error)
	Drop(ctx context.Context, studentID, courseID string) error
	ListDetailsByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error)
}

type enrollmentStudentRepository interface {
	FindByStudentNumber(ctx context.Context, studentNumber string) (*models.Student, error)
}

type enrollmentCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.CourseDetail, error)
}

// EnrollmentService implements course join and drop flows for students.
type EnrollmentService struct {
	enrollments enrollmentRepository
	students    enrollmentStudentRepository
	courses     enrollmentCourseRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEnrollmentService constructs an EnrollmentService.
func NewEnrollmentService(enrollments enrollmentRepository, students enrollmentStudentRepository, courses enrollmentCourseRepository, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EnrollmentService{enrollments: enrollments, students: students, courses: courses, validator: validate, logger: logger}
}

// Enroll joins the calling student to a course. A dropped enrollment is
// reactivated; an active one is rejected as a duplicate.
func (s *EnrollmentService) Enroll(ctx context.Context, claims *models.JWTClaims, req dto.EnrollRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	student, err := s.resolveStudent(ctx, claims)
	if err != nil {
		return nil, err
	}

	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	enrollment, err := s.enrollments.Enroll(ctx, student.ID, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateEnrollment, "already enrolled in this course")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll")
	}

	s.logger.Info("student enrolled",
		zap.String("student_id", student.ID),
		zap.String("course_id", req.CourseID))

	return enrollment, nil
}

// Drop leaves a course. The enrollment row is kept and marked dropped so a
// later enroll reactivates it.
func (s *EnrollmentService) Drop(ctx context.Context, claims *models.JWTClaims, req dto.EnrollRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	student, err := s.resolveStudent(ctx, claims)
	if err != nil {
		return err
	}

	if err := s.enrollments.Drop(ctx, student.ID, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotEnrolled, "no active enrollment for this course")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to drop enrollment")
	}

	s.logger.Info("student dropped course",
		zap.String("student_id", student.ID),
		zap.String("course_id", req.CourseID))

	return nil
}

// MyCourses returns the calling student's enrollments with course info.
func (s *EnrollmentService) MyCourses(ctx context.Context, claims *models.JWTClaims) ([]models.EnrollmentDetail, error) {
	student, err := s.resolveStudent(ctx, claims)
	if err != nil {
		return nil, err
	}

	details, err := s.enrollments.ListDetailsByStudent(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	if details == nil {
		details = []models.EnrollmentDetail{}
	}
	return details, nil
}

// resolveStudent maps the account behind the claims to its student record.
// Student usernames are their institutional card number.
func (s *EnrollmentService) resolveStudent(ctx context.Context, claims *models.JWTClaims) (*models.Student, error) {
	if claims == nil || claims.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only students can manage enrollments")
	}
	student, err := s.students.FindByStudentNumber(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student record not found for account")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student record")
	}
	return student, nil
}
