package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/campushq/backoffice-api/internal/models"
)

func newEnrollmentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEnrollmentRepositoryEnroll(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "course_id", "status", "enrolled_at"}).
		AddRow("enr-1", "stu-1", "course-1", models.EnrollmentStatusActive, time.Now())
	mock.ExpectQuery("INSERT INTO enrollments").
		WithArgs(sqlmock.AnyArg(), "stu-1", "course-1", models.EnrollmentStatusActive, sqlmock.AnyArg(), models.EnrollmentStatusDropped).
		WillReturnRows(rows)

	enrollment, err := repo.Enroll(context.Background(), "stu-1", "course-1")
	require.NoError(t, err)
	require.Equal(t, models.EnrollmentStatusActive, enrollment.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryEnrollAlreadyActive(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery("INSERT INTO enrollments").
		WithArgs(sqlmock.AnyArg(), "stu-1", "course-1", models.EnrollmentStatusActive, sqlmock.AnyArg(), models.EnrollmentStatusDropped).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Enroll(context.Background(), "stu-1", "course-1")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryDrop(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("UPDATE enrollments SET status").
		WithArgs("stu-1", "course-1", models.EnrollmentStatusDropped, models.EnrollmentStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Drop(context.Background(), "stu-1", "course-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryDropNotActive(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("UPDATE enrollments SET status").
		WithArgs("stu-1", "course-1", models.EnrollmentStatusDropped, models.EnrollmentStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Drop(context.Background(), "stu-1", "course-1")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListDetailsByStudent(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "course_id", "status", "enrolled_at", "student_name", "student_number", "course_code", "course_name"}).
		AddRow("enr-1", "stu-1", "course-1", models.EnrollmentStatusActive, time.Now(), "Nguyễn Văn A", "20230001", "CSE101", "Lập trình cơ bản")
	mock.ExpectQuery("SELECT e.id, e.student_id").
		WithArgs("stu-1").
		WillReturnRows(rows)

	details, err := repo.ListDetailsByStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.Equal(t, "CSE101", details[0].CourseCode)
	require.NoError(t, mock.ExpectationsWereMet())
}
