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

// PaymentRepository handles persistence of tuition payment slips.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs the repository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a new payment slip.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	const query = `INSERT INTO payments (id, student_id, amount, status, payment_date, note)
        VALUES (:id, :student_id, :amount, :status, :payment_date, :note)`
	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// FindByID returns a payment slip by id.
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	const query = `SELECT id, student_id, amount, status, payment_date, note FROM payments WHERE id = $1`
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		return nil, err
	}
	return &payment, nil
}

// MarkPaid flips a PENDING slip to PAID. The status guard lives in the
// statement; sql.ErrNoRows is returned when the slip was not pending.
func (r *PaymentRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	const query = `UPDATE payments SET status = $2, payment_date = $3 WHERE id = $1 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, id, models.PaymentStatusPaid, paidAt, models.PaymentStatusPending)
	if err != nil {
		return fmt.Errorf("mark payment paid: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns payment slips with student info; studentID scopes the result
// when non-empty.
func (r *PaymentRepository) List(ctx context.Context, studentID string) ([]models.PaymentDetail, error) {
	query := `SELECT p.id, p.student_id, p.amount, p.status, p.payment_date, p.note,
        s.full_name AS student_name, s.student_id AS student_number
        FROM payments p
        JOIN students s ON s.id = p.student_id`
	var args []interface{}
	if studentID != "" {
		query += " WHERE p.student_id = $1"
		args = append(args, studentID)
	}
	query += " ORDER BY p.id"

	var payments []models.PaymentDetail
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// Summary aggregates slip amounts by status across all students. COALESCE
// keeps the empty table at zero totals.
func (r *PaymentRepository) Summary(ctx context.Context) (*models.PaymentSummary, error) {
	const query = `SELECT
        COALESCE(SUM(amount) FILTER (WHERE status = $1), 0) AS total_pending,
        COALESCE(SUM(amount) FILTER (WHERE status = $2), 0) AS total_paid,
        COALESCE(SUM(amount) FILTER (WHERE status = $3), 0) AS total_withdrawn,
        COALESCE(SUM(amount) FILTER (WHERE status = $4), 0) AS total_free
        FROM payments`
	var summary models.PaymentSummary
	err := r.db.GetContext(ctx, &summary, query,
		models.PaymentStatusPending, models.PaymentStatusPaid,
		models.PaymentStatusWithdrawn, models.PaymentStatusFree)
	if err != nil {
		return nil, fmt.Errorf("payment summary: %w", err)
	}
	summary.NetDebt = summary.TotalPending - summary.TotalPaid
	summary.NetBalance = summary.TotalPaid - summary.TotalWithdrawn
	return &summary, nil
}
