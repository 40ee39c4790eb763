package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushq/backoffice-api/internal/models"
)

// ScheduleRepository handles persistence of weekly schedules and exams.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// CreateSchedule inserts a weekly slot.
func (r *ScheduleRepository) CreateSchedule(ctx context.Context, schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	const query = `INSERT INTO schedules (id, course_id, class_id, day_of_week, start_time, end_time, room, semester, active, created_at)
        VALUES (:id, :course_id, :class_id, :day_of_week, :start_time, :end_time, :room, :semester, :active, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// ExistsSlot reports whether a class already has a schedule for the course
// and semester.
func (r *ScheduleRepository) ExistsSlot(ctx context.Context, classID, courseID, semester string) (bool, error) {
	const query = `SELECT 1 FROM schedules WHERE class_id = $1 AND course_id = $2 AND semester = $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, classID, courseID, semester); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check schedule slot: %w", err)
	}
	return true, nil
}

// ListSchedules returns schedule entries with course and class labels,
// sorted by day then start time. lecturerID scopes to that lecturer's
// courses when non-empty.
func (r *ScheduleRepository) ListSchedules(ctx context.Context, lecturerID string) ([]models.ScheduleDetail, error) {
	query := `SELECT sc.id, sc.course_id, sc.class_id, sc.day_of_week, sc.start_time, sc.end_time, sc.room, sc.semester, sc.active, sc.created_at,
        c.code AS course_code, c.name AS course_name, cl.code AS class_code
        FROM schedules sc
        JOIN courses c ON c.id = sc.course_id
        JOIN classes cl ON cl.id = sc.class_id`
	var args []interface{}
	if lecturerID != "" {
		query += " WHERE c.lecturer_id = $1"
		args = append(args, lecturerID)
	}
	query += " ORDER BY sc.day_of_week, sc.start_time"

	var schedules []models.ScheduleDetail
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

// CreateExam inserts an exam sitting.
func (r *ScheduleRepository) CreateExam(ctx context.Context, exam *models.Exam) error {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	const query = `INSERT INTO exams (id, course_id, class_id, exam_date, start_time, duration, room, semester, exam_type, created_at)
        VALUES (:id, :course_id, :class_id, :exam_date, :start_time, :duration, :room, :semester, :exam_type, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return fmt.Errorf("create exam: %w", err)
	}
	return nil
}

// ExistsExamSlot reports whether a class already has a sitting of the given
// type for the course and semester.
func (r *ScheduleRepository) ExistsExamSlot(ctx context.Context, classID, courseID, semester string, examType models.ExamType) (bool, error) {
	const query = `SELECT 1 FROM exams WHERE class_id = $1 AND course_id = $2 AND semester = $3 AND exam_type = $4 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, classID, courseID, semester, examType); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check exam slot: %w", err)
	}
	return true, nil
}

// ListExams returns all exam sittings ordered by date.
func (r *ScheduleRepository) ListExams(ctx context.Context) ([]models.Exam, error) {
	const query = `SELECT id, course_id, class_id, exam_date, start_time, duration, room, semester, exam_type, created_at FROM exams ORDER BY exam_date, start_time`
	var exams []models.Exam
	if err := r.db.SelectContext(ctx, &exams, query); err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return exams, nil
}
