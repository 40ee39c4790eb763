package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushq/backoffice-api/internal/models"
)

// ClassRepository handles persistence of classes and their course links.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs the repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns all classes in code order.
func (r *ClassRepository) List(ctx context.Context) ([]models.Class, error) {
	const query = `SELECT id, code, name, lecturer_id, created_at FROM classes ORDER BY code`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindByID returns a class by id.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	const query = `SELECT id, code, name, lecturer_id, created_at FROM classes WHERE id = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// ExistsCode checks whether a class code is already taken.
func (r *ClassRepository) ExistsCode(ctx context.Context, code string) (bool, error) {
	const query = `SELECT 1 FROM classes WHERE code = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, code); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check class code: %w", err)
	}
	return true, nil
}

// Create persists a new class.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	if class.CreatedAt.IsZero() {
		class.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO classes (id, code, name, lecturer_id, created_at)
        VALUES (:id, :code, :name, :lecturer_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// AssignCourse links a course to the class for a semester.
func (r *ClassRepository) AssignCourse(ctx context.Context, link *models.ClassCourse) error {
	if link.ID == "" {
		link.ID = uuid.NewString()
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO class_courses (id, class_id, course_id, semester, created_at)
        VALUES (:id, :class_id, :course_id, :semester, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, link); err != nil {
		return fmt.Errorf("assign course to class: %w", err)
	}
	return nil
}

// ExistsCourseLink reports whether the class already takes the course in the
// semester.
func (r *ClassRepository) ExistsCourseLink(ctx context.Context, classID, courseID, semester string) (bool, error) {
	const query = `SELECT 1 FROM class_courses WHERE class_id = $1 AND course_id = $2 AND semester = $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, classID, courseID, semester); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check class course link: %w", err)
	}
	return true, nil
}

// ListCourseLinks returns the course links for a class.
func (r *ClassRepository) ListCourseLinks(ctx context.Context, classID string) ([]models.ClassCourse, error) {
	const query = `SELECT id, class_id, course_id, semester, created_at FROM class_courses WHERE class_id = $1 ORDER BY semester, created_at`
	var links []models.ClassCourse
	if err := r.db.SelectContext(ctx, &links, query, classID); err != nil {
		return nil, fmt.Errorf("list class course links: %w", err)
	}
	return links, nil
}
