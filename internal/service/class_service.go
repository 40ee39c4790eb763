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

type classRepository interface {
	List(ctx context.Context) ([]models.Class, error)
	FindByID(ctx context.Context, id string) (*models.Class, error)
	ExistsCode(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, class *models.Class) error
	AssignCourse(ctx context.Context, link *models.ClassCourse) error
	ExistsCourseLink(ctx context.Context, classID, courseID, semester string) (bool, error)
	ListCourseLinks(ctx context.Context, classID string) ([]models.ClassCourse, error)
}

type classCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.CourseDetail, error)
}

// ClassService manages administrative classes and their course links.
type ClassService struct {
	classes   classRepository
	courses   classCourseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs a ClassService.
func NewClassService(classes classRepository, courses classCourseRepository, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ClassService{classes: classes, courses: courses, validator: validate, logger: logger}
}

// List returns all classes.
func (s *ClassService) List(ctx context.Context) ([]models.Class, error) {
	classes, err := s.classes.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	if classes == nil {
		classes = []models.Class{}
	}
	return classes, nil
}

// Get returns a single class.
func (s *ClassService) Get(ctx context.Context, id string) (*models.Class, error) {
	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

// Create adds a class. Class codes are unique.
func (s *ClassService) Create(ctx context.Context, req dto.CreateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	exists, err := s.classes.ExistsCode(ctx, req.Code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check class code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateCode, "class code already exists")
	}

	class := &models.Class{
		Code:       req.Code,
		Name:       req.Name,
		LecturerID: req.LecturerID,
	}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	return class, nil
}

// AssignCourse links a course to the class for a semester. A class takes a
// course at most once per semester.
func (s *ClassService) AssignCourse(ctx context.Context, classID string, req dto.AssignCourseRequest) (*models.ClassCourse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	if _, err := s.Get(ctx, classID); err != nil {
		return nil, err
	}
	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	exists, err := s.classes.ExistsCourseLink(ctx, classID, req.CourseID, req.Semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course link")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "class already takes this course in the semester")
	}

	link := &models.ClassCourse{
		ClassID:  classID,
		CourseID: req.CourseID,
		Semester: req.Semester,
	}
	if err := s.classes.AssignCourse(ctx, link); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign course")
	}
	return link, nil
}

// CourseLinks returns the course assignments for a class.
func (s *ClassService) CourseLinks(ctx context.Context, classID string) ([]models.ClassCourse, error) {
	if _, err := s.Get(ctx, classID); err != nil {
		return nil, err
	}
	links, err := s.classes.ListCourseLinks(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list course links")
	}
	if links == nil {
		links = []models.ClassCourse{}
	}
	return links, nil
}
