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

// EnrollmentRepository handles persistence of course enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Enroll activates an enrollment for the (student, course) pair in a single
// statement. The unique index on (student_id, course_id) makes the operation
// race-free: a fresh row is inserted, a DROPPED row is reactivated, and an
// existing ACTIVE row yields sql.ErrNoRows.
func (r *EnrollmentRepository) Enroll(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	const query = `INSERT INTO enrollments (id, student_id, course_id, status, enrolled_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (student_id, course_id)
        DO UPDATE SET status = $4, enrolled_at = EXCLUDED.enrolled_at
        WHERE enrollments.status = $6
        RETURNING id, student_id, course_id, status, enrolled_at`
	var enrollment models.Enrollment
	err := r.db.GetContext(ctx, &enrollment, query,
		uuid.NewString(), studentID, courseID,
		models.EnrollmentStatusActive, time.Now().UTC(), models.EnrollmentStatusDropped)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("enroll: %w", err)
	}
	return &enrollment, nil
}

// Drop soft-drops the active enrollment for the pair. sql.ErrNoRows is
// returned when no active row exists.
func (r *EnrollmentRepository) Drop(ctx context.Context, studentID, courseID string) error {
	const query = `UPDATE enrollments SET status = $3 WHERE student_id = $1 AND course_id = $2 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, studentID, courseID, models.EnrollmentStatusDropped, models.EnrollmentStatusActive)
	if err != nil {
		return fmt.Errorf("drop enrollment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByStudent returns all enrollment rows for the student, any status.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	const query = `SELECT id, student_id, course_id, status, enrolled_at FROM enrollments WHERE student_id = $1 ORDER BY enrolled_at`
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID); err != nil {
		return nil, fmt.Errorf("list student enrollments: %w", err)
	}
	return enrollments, nil
}

// ListDetailsByStudent returns the student's enrollments with course info.
func (r *EnrollmentRepository) ListDetailsByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.student_id, e.course_id, e.status, e.enrolled_at,
        s.full_name AS student_name, s.student_id AS student_number,
        c.code AS course_code, c.name AS course_name
        FROM enrollments e
        JOIN students s ON s.id = e.student_id
        JOIN courses c ON c.id = e.course_id
        WHERE e.student_id = $1
        ORDER BY e.enrolled_at`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID); err != nil {
		return nil, fmt.Errorf("list student enrollment details: %w", err)
	}
	return enrollments, nil
}
