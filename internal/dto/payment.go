package dto

import "github.com/campushq/backoffice-api/internal/models"

// CreatePaymentRequest is the admin payload for issuing a tuition slip.
type CreatePaymentRequest struct {
	StudentID string               `json:"student_id" validate:"required"`
	Amount    float64              `json:"amount"`
	Status    models.PaymentStatus `json:"status" validate:"required"`
	Note      *string              `json:"note"`
}
