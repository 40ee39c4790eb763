package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/backoffice-api/internal/dto"
	"github.com/campushq/backoffice-api/internal/models"
	appErrors "github.com/campushq/backoffice-api/pkg/errors"
	"github.com/campushq/backoffice-api/pkg/export"
)

type paymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id string) (*models.Payment, error)
	MarkPaid(ctx context.Context, id string, paidAt time.Time) error
	List(ctx context.Context, studentID string) ([]models.PaymentDetail, error)
	Summary(ctx context.Context) (*models.PaymentSummary, error)
}

type paymentStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	FindByStudentNumber(ctx context.Context, studentNumber string) (*models.Student, error)
}

type paymentAuditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// ExportFormat selects the rendering for tuition downloads.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult carries rendered bytes plus HTTP metadata.
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
}

// PaymentService implements the tuition slip workflow: admins issue slips,
// students confirm pending ones as paid.
type PaymentService struct {
	payments       paymentRepository
	students       paymentStudentRepository
	audits         paymentAuditWriter
	csv            *export.CSVExporter
	pdf            *export.PDFExporter
	exportsEnabled bool
	validator      *validator.Validate
	logger         *zap.Logger
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(payments paymentRepository, students paymentStudentRepository, audits paymentAuditWriter, exportsEnabled bool, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PaymentService{
		payments:       payments,
		students:       students,
		audits:         audits,
		csv:            export.NewCSVExporter(),
		pdf:            export.NewPDFExporter(),
		exportsEnabled: exportsEnabled,
		validator:      validate,
		logger:         logger,
	}
}

// Create issues a tuition slip. Admins may set any valid status directly,
// including PAID or FREE for out-of-band settlements.
func (s *PaymentService) Create(ctx context.Context, claims *models.JWTClaims, req dto.CreatePaymentRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown payment status")
	}

	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	payment := &models.Payment{
		StudentID: req.StudentID,
		Amount:    req.Amount,
		Status:    req.Status,
		Note:      req.Note,
	}
	if req.Status == models.PaymentStatusPaid {
		now := time.Now().UTC()
		payment.PaymentDate = &now
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create payment")
	}

	if err := s.audits.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &claims.UserID,
		Action:     models.AuditActionCreate,
		Resource:   "payments",
		ResourceID: &payment.ID,
	}); err != nil {
		s.logger.Warn("failed to record payment audit log", zap.Error(err))
	}

	return payment, nil
}

// Confirm lets the owning student settle a pending slip. Slips belonging to
// other students are rejected, and non-pending slips are an invalid state.
func (s *PaymentService) Confirm(ctx context.Context, claims *models.JWTClaims, paymentID string) (*models.Payment, error) {
	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}

	if claims.Role == models.RoleStudent {
		student, err := s.students.FindByStudentNumber(ctx, claims.Username)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "student record not found for account")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student record")
		}
		if payment.StudentID != student.ID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "payment belongs to another student")
		}
	}

	if err := s.payments.MarkPaid(ctx, paymentID, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidState, "payment is not pending")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to confirm payment")
	}

	if err := s.audits.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &claims.UserID,
		Action:     models.AuditActionConfirm,
		Resource:   "payments",
		ResourceID: &paymentID,
	}); err != nil {
		s.logger.Warn("failed to record payment confirm audit log", zap.Error(err))
	}

	confirmed, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	return confirmed, nil
}

// List returns tuition slips scoped by role: students see their own slips,
// admins see everything.
func (s *PaymentService) List(ctx context.Context, claims *models.JWTClaims) ([]models.PaymentDetail, error) {
	scope := ""
	if claims.Role == models.RoleStudent {
		student, err := s.students.FindByStudentNumber(ctx, claims.Username)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "student record not found for account")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student record")
		}
		scope = student.ID
	}

	payments, err := s.payments.List(ctx, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	if payments == nil {
		payments = []models.PaymentDetail{}
	}
	return payments, nil
}

// Summary aggregates amounts by status across all students.
func (s *PaymentService) Summary(ctx context.Context) (*models.PaymentSummary, error) {
	summary, err := s.payments.Summary(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build payment summary")
	}
	return summary, nil
}

// Export renders the full slip listing as CSV or PDF.
func (s *PaymentService) Export(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	if !s.exportsEnabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled")
	}

	payments, err := s.payments.List(ctx, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}

	table := export.Table{
		Headers: []string{"Student", "Student No", "Amount", "Status", "Paid At", "Note"},
	}
	for _, p := range payments {
		paidAt := ""
		if p.PaymentDate != nil {
			paidAt = p.PaymentDate.Format("2006-01-02")
		}
		note := ""
		if p.Note != nil {
			note = *p.Note
		}
		table.Rows = append(table.Rows, []string{
			p.StudentName,
			p.StudentNumber,
			fmt.Sprintf("%.2f", p.Amount),
			string(p.Status),
			paidAt,
			note,
		})
	}

	stamp := time.Now().UTC().Format("20060102")
	switch format {
	case ExportFormatCSV:
		data, err := s.csv.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			FileName:    fmt.Sprintf("tuition-%s.csv", stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case ExportFormatPDF:
		data, err := s.pdf.Render(table, "Tuition Payments")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			FileName:    fmt.Sprintf("tuition-%s.pdf", stamp),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	}
	return nil, appErrors.Clone(appErrors.ErrValidation, "unknown export format")
}
