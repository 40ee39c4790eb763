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

func newGradeRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestGradeRepositoryCreateDefaults(t *testing.T) {
	db, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	mock.ExpectExec("INSERT INTO grades").
		WillReturnResult(sqlmock.NewResult(0, 1))

	grade := &models.Grade{StudentID: "stu-1", CourseID: "course-1", Value: 8.5, SubmittedBy: "user-gv"}
	require.NoError(t, repo.Create(context.Background(), grade))
	require.NotEmpty(t, grade.ID)
	require.Equal(t, models.GradeStatusPending, grade.Status)
	require.False(t, grade.SubmittedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryConfirm(t *testing.T) {
	db, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	confirmedAt := time.Now().UTC()
	mock.ExpectExec("UPDATE grades SET status").
		WithArgs("grade-1", models.GradeStatusConfirmed, "user-admin", confirmedAt, models.GradeStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Confirm(context.Background(), "grade-1", "user-admin", confirmedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryConfirmNotPending(t *testing.T) {
	db, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	confirmedAt := time.Now().UTC()
	mock.ExpectExec("UPDATE grades SET status").
		WithArgs("grade-1", models.GradeStatusConfirmed, "user-admin", confirmedAt, models.GradeStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Confirm(context.Background(), "grade-1", "user-admin", confirmedAt)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryListByStudentAndStatus(t *testing.T) {
	db, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "course_id", "value", "status", "submitted_by", "submitted_at", "student_name", "student_number", "course_code", "course_name"}).
		AddRow("grade-1", "stu-1", "course-1", 7.5, models.GradeStatusConfirmed, "user-gv", time.Now(), "Nguyễn Văn A", "20230001", "CSE101", "Lập trình cơ bản")
	mock.ExpectQuery("SELECT g.id, g.student_id").
		WithArgs("stu-1", models.GradeStatusConfirmed).
		WillReturnRows(rows)

	grades, err := repo.List(context.Background(), models.GradeFilter{
		StudentID: "stu-1",
		Status:    models.GradeStatusConfirmed,
	})
	require.NoError(t, err)
	require.Len(t, grades, 1)
	require.Equal(t, models.GradeStatusConfirmed, grades[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryListByCourseIDs(t *testing.T) {
	db, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "course_id", "value", "status", "submitted_by", "submitted_at", "student_name", "student_number", "course_code", "course_name"}).
		AddRow("grade-1", "stu-1", "course-1", 8.0, models.GradeStatusPending, "user-gv", time.Now(), "Trần Thị B", "20230002", "MTH101", "Toán rời rạc").
		AddRow("grade-2", "stu-2", "course-2", 9.0, models.GradeStatusPending, "user-gv", time.Now(), "Nguyễn Văn A", "20230001", "CSE101", "Lập trình cơ bản")
	mock.ExpectQuery("g.course_id IN").
		WithArgs("course-1", "course-2").
		WillReturnRows(rows)

	grades, err := repo.List(context.Background(), models.GradeFilter{CourseIDs: []string{"course-1", "course-2"}})
	require.NoError(t, err)
	require.Len(t, grades, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}
