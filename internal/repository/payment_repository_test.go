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

func newPaymentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestPaymentRepositoryMarkPaid(t *testing.T) {
	db, mock, cleanup := newPaymentRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	paidAt := time.Now().UTC()
	mock.ExpectExec("UPDATE payments SET status").
		WithArgs("pay-1", models.PaymentStatusPaid, paidAt, models.PaymentStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkPaid(context.Background(), "pay-1", paidAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryMarkPaidNotPending(t *testing.T) {
	db, mock, cleanup := newPaymentRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	paidAt := time.Now().UTC()
	mock.ExpectExec("UPDATE payments SET status").
		WithArgs("pay-1", models.PaymentStatusPaid, paidAt, models.PaymentStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkPaid(context.Background(), "pay-1", paidAt)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryListScopedByStudent(t *testing.T) {
	db, mock, cleanup := newPaymentRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "amount", "status", "student_name", "student_number"}).
		AddRow("pay-1", "stu-1", 80000.0, models.PaymentStatusPending, "Nguyễn Văn A", "20230001")
	mock.ExpectQuery("SELECT p.id, p.student_id").
		WithArgs("stu-1").
		WillReturnRows(rows)

	payments, err := repo.List(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Len(t, payments, 1)
	require.Equal(t, models.PaymentStatusPending, payments[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositorySummary(t *testing.T) {
	db, mock, cleanup := newPaymentRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	rows := sqlmock.NewRows([]string{"total_pending", "total_paid", "total_withdrawn", "total_free"}).
		AddRow(160000.0, 80000.0, 20000.0, 0.0)
	mock.ExpectQuery("FROM payments").
		WithArgs(models.PaymentStatusPending, models.PaymentStatusPaid, models.PaymentStatusWithdrawn, models.PaymentStatusFree).
		WillReturnRows(rows)

	summary, err := repo.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 80000.0, summary.NetDebt)
	require.Equal(t, 60000.0, summary.NetBalance)
	require.NoError(t, mock.ExpectationsWereMet())
}
