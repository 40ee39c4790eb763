package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/backoffice-api/internal/dto"
	"github.com/campushq/backoffice-api/internal/models"
	appErrors "github.com/campushq/backoffice-api/pkg/errors"
)

type courseRepository interface {
	ListDetails(ctx context.Context) ([]models.CourseDetail, error)
	FindByID(ctx context.Context, id string) (*models.CourseDetail, error)
	ExistsCode(ctx context.Context, code, excludeID string) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

type courseUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type courseStudentRepository interface {
	FindByStudentNumber(ctx context.Context, studentNumber string) (*models.Student, error)
}

type courseEnrollmentRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error)
}

// CourseService manages the course catalog.
type CourseService struct {
	courses     courseRepository
	users       courseUserRepository
	students    courseStudentRepository
	enrollments courseEnrollmentRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(courses courseRepository, users courseUserRepository, students courseStudentRepository, enrollments courseEnrollmentRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CourseService{courses: courses, users: users, students: students, enrollments: enrollments, validator: validate, logger: logger}
}

// Catalog builds the course listing partitioned by the lecturer selection.
// An empty selection keeps every course in the matching bucket. For student
// callers each entry is annotated with their enrollment against it.
func (s *CourseService) Catalog(ctx context.Context, claims *models.JWTClaims, filter dto.CatalogFilter) (*models.CourseCatalog, error) {
	courses, err := s.courses.ListDetails(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}

	enrollmentByCourse := map[string]models.EnrollmentStatus{}
	if claims != nil && claims.Role == models.RoleStudent {
		student, err := s.students.FindByStudentNumber(ctx, claims.Username)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student record")
		}
		if student != nil {
			enrollments, err := s.enrollments.ListByStudent(ctx, student.ID)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
			}
			for _, e := range enrollments {
				enrollmentByCourse[e.CourseID] = e.Status
			}
		}
	}

	selected := map[string]bool{}
	for _, name := range filter.Lecturers {
		if name != "" {
			selected[name] = true
		}
	}

	lecturerSet := map[string]bool{}
	catalog := &models.CourseCatalog{
		SelectedLecturers: filter.Lecturers,
		Matching:          []models.CourseCatalogEntry{},
		Others:            []models.CourseCatalogEntry{},
	}
	if catalog.SelectedLecturers == nil {
		catalog.SelectedLecturers = []string{}
	}

	for _, course := range courses {
		if course.LecturerName != nil {
			lecturerSet[*course.LecturerName] = true
		}

		entry := models.CourseCatalogEntry{CourseDetail: course}
		if status, ok := enrollmentByCourse[course.ID]; ok {
			st := status
			entry.Enrolled = status == models.EnrollmentStatusActive
			entry.EnrollmentStatus = &st
		}

		match := len(selected) == 0
		if !match && course.LecturerName != nil {
			match = selected[*course.LecturerName]
		}
		if match {
			catalog.Matching = append(catalog.Matching, entry)
		} else {
			catalog.Others = append(catalog.Others, entry)
		}
	}

	catalog.Lecturers = make([]string, 0, len(lecturerSet))
	for name := range lecturerSet {
		catalog.Lecturers = append(catalog.Lecturers, name)
	}
	sort.Strings(catalog.Lecturers)

	return catalog, nil
}

// Get returns a single course with lecturer info.
func (s *CourseService) Get(ctx context.Context, id string) (*models.CourseDetail, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create adds a course to the catalog. Course codes are unique.
func (s *CourseService) Create(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	exists, err := s.courses.ExistsCode(ctx, req.Code, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateCode, "course code already exists")
	}

	if err := s.validateLecturer(ctx, req.LecturerID); err != nil {
		return nil, err
	}

	course := &models.Course{
		Code:       req.Code,
		Name:       req.Name,
		Credits:    req.Credits,
		LecturerID: req.LecturerID,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// Update edits an existing course. The code stays unique across the catalog.
func (s *CourseService) Update(ctx context.Context, id string, req dto.UpdateCourseRequest) (*models.CourseDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	existing, err := s.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if req.Code != existing.Code {
		exists, err := s.courses.ExistsCode(ctx, req.Code, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course code")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrDuplicateCode, "course code already exists")
		}
	}

	if err := s.validateLecturer(ctx, req.LecturerID); err != nil {
		return nil, err
	}

	course := &models.Course{
		ID:         id,
		Code:       req.Code,
		Name:       req.Name,
		Credits:    req.Credits,
		LecturerID: req.LecturerID,
	}
	if err := s.courses.Update(ctx, course); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}

	return s.Get(ctx, id)
}

// Delete removes a course from the catalog.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	return nil
}

// validateLecturer ensures the referenced account exists and carries the
// lecturer role.
func (s *CourseService) validateLecturer(ctx context.Context, lecturerID *string) error {
	if lecturerID == nil || *lecturerID == "" {
		return nil
	}
	user, err := s.users.FindByID(ctx, *lecturerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "lecturer account not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecturer account")
	}
	if user.Role != models.RoleLecturer {
		return appErrors.Clone(appErrors.ErrValidation, "account is not a lecturer")
	}
	return nil
}
