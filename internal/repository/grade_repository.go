package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushq/backoffice-api/internal/models"
)

// GradeRepository handles persistence of the append-only grade history.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs the repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// Create inserts a new grade row.
func (r *GradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	if grade.ID == "" {
		grade.ID = uuid.NewString()
	}
	if grade.SubmittedAt.IsZero() {
		grade.SubmittedAt = time.Now().UTC()
	}
	if grade.Status == "" {
		grade.Status = models.GradeStatusPending
	}
	const query = `INSERT INTO grades (id, student_id, course_id, value, status, submitted_by, confirmed_by, submitted_at, confirmed_at, note)
        VALUES (:id, :student_id, :course_id, :value, :status, :submitted_by, :confirmed_by, :submitted_at, :confirmed_at, :note)`
	if _, err := r.db.NamedExecContext(ctx, query, grade); err != nil {
		return fmt.Errorf("create grade: %w", err)
	}
	return nil
}

// FindByID returns a grade by id.
func (r *GradeRepository) FindByID(ctx context.Context, id string) (*models.Grade, error) {
	const query = `SELECT id, student_id, course_id, value, status, submitted_by, confirmed_by, submitted_at, confirmed_at, note FROM grades WHERE id = $1`
	var grade models.Grade
	if err := r.db.GetContext(ctx, &grade, query, id); err != nil {
		return nil, err
	}
	return &grade, nil
}

// Confirm flips a PENDING row to CONFIRMED. The status guard lives in the
// statement so concurrent confirms cannot both succeed; sql.ErrNoRows is
// returned when the row was not pending.
func (r *GradeRepository) Confirm(ctx context.Context, id, confirmedBy string, confirmedAt time.Time) error {
	const query = `UPDATE grades SET status = $2, confirmed_by = $3, confirmed_at = $4 WHERE id = $1 AND status = $5`
	res, err := r.db.ExecContext(ctx, query, id, models.GradeStatusConfirmed, confirmedBy, confirmedAt, models.GradeStatusPending)
	if err != nil {
		return fmt.Errorf("confirm grade: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns grade rows with student and course info, scoped by the
// provided filter.
func (r *GradeRepository) List(ctx context.Context, filter models.GradeFilter) ([]models.GradeDetail, error) {
	base := `SELECT g.id, g.student_id, g.course_id, g.value, g.status, g.submitted_by, g.confirmed_by, g.submitted_at, g.confirmed_at, g.note,
        s.full_name AS student_name, s.student_id AS student_number,
        c.code AS course_code, c.name AS course_name
        FROM grades g
        JOIN students s ON s.id = g.student_id
        JOIN courses c ON c.id = g.course_id`
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("g.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("g.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.LecturerID != "" {
		conditions = append(conditions, fmt.Sprintf("c.lecturer_id = $%d", len(args)+1))
		args = append(args, filter.LecturerID)
	}
	if len(filter.CourseIDs) > 0 {
		placeholders := make([]string, len(filter.CourseIDs))
		for i, id := range filter.CourseIDs {
			placeholders[i] = fmt.Sprintf("$%d", len(args)+1)
			args = append(args, id)
		}
		conditions = append(conditions, fmt.Sprintf("g.course_id IN (%s)", strings.Join(placeholders, ",")))
	}

	query := base
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY g.submitted_at DESC"

	var grades []models.GradeDetail
	if err := r.db.SelectContext(ctx, &grades, query, args...); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	return grades, nil
}
