package models

import "time"

// PaymentStatus represents the lifecycle of a tuition payment slip.
// Students may only transition PENDING to PAID; admins create slips in any
// status directly.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusWithdrawn PaymentStatus = "WITHDRAWN"
	PaymentStatusFree      PaymentStatus = "FREE"
)

// Valid reports whether the status is one of the closed set.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusWithdrawn, PaymentStatusFree:
		return true
	}
	return false
}

// Payment represents a tuition payment slip.
type Payment struct {
	ID          string        `db:"id" json:"id"`
	StudentID   string        `db:"student_id" json:"student_id"`
	Amount      float64       `db:"amount" json:"amount"`
	Status      PaymentStatus `db:"status" json:"status"`
	PaymentDate *time.Time    `db:"payment_date" json:"payment_date,omitempty"`
	Note        *string       `db:"note" json:"note,omitempty"`
}

// PaymentDetail enriches Payment with student info.
type PaymentDetail struct {
	Payment
	StudentName   string `db:"student_name" json:"student_name"`
	StudentNumber string `db:"student_number" json:"student_number"`
}

// PaymentSummary aggregates slip amounts by status across students.
// NetDebt is pending minus paid; NetBalance is paid minus withdrawn.
type PaymentSummary struct {
	TotalPending   float64 `db:"total_pending" json:"total_pending"`
	TotalPaid      float64 `db:"total_paid" json:"total_paid"`
	TotalWithdrawn float64 `db:"total_withdrawn" json:"total_withdrawn"`
	TotalFree      float64 `db:"total_free" json:"total_free"`
	NetDebt        float64 `json:"net_debt"`
	NetBalance     float64 `json:"net_balance"`
}
