package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/backoffice-api/internal/dto"
	"github.com/campushq/backoffice-api/internal/models"
	appErrors "github.com/campushq/backoffice-api/pkg/errors"
)

type mockPaymentRepo struct {
	payments   map[string]models.Payment
	listCalls  []string
	listResult []models.PaymentDetail
	summary    *models.PaymentSummary
}

func (m *mockPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	if m.payments == nil {
		m.payments = make(map[string]models.Payment)
	}
	if payment.ID == "" {
		payment.ID = "pay-new"
	}
	m.payments[payment.ID] = *payment
	return nil
}

func (m *mockPaymentRepo) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	if p, ok := m.payments[id]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockPaymentRepo) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	p, ok := m.payments[id]
	if !ok || p.Status != models.PaymentStatusPending {
		return sql.ErrNoRows
	}
	p.Status = models.PaymentStatusPaid
	p.PaymentDate = &paidAt
	m.payments[id] = p
	return nil
}

func (m *mockPaymentRepo) List(ctx context.Context, studentID string) ([]models.PaymentDetail, error) {
	m.listCalls = append(m.listCalls, studentID)
	return m.listResult, nil
}

func (m *mockPaymentRepo) Summary(ctx context.Context) (*models.PaymentSummary, error) {
	return m.summary, nil
}

type mockPaymentStudentRepo struct {
	byID     map[string]*models.StudentDetail
	byNumber map[string]*models.Student
}

func (m *mockPaymentStudentRepo) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	if s, ok := m.byID[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockPaymentStudentRepo) FindByStudentNumber(ctx context.Context, studentNumber string) (*models.Student, error) {
	if s, ok := m.byNumber[studentNumber]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func newPaymentFixture() (*PaymentService, *mockPaymentRepo) {
	payments := &mockPaymentRepo{}
	students := &mockPaymentStudentRepo{
		byID: map[string]*models.StudentDetail{
			"stu-1": {Student: models.Student{ID: "stu-1", StudentID: "20230001"}},
		},
		byNumber: map[string]*models.Student{
			"20230001": {ID: "stu-1", StudentID: "20230001"},
			"20230002": {ID: "stu-2", StudentID: "20230002"},
		},
	}
	return NewPaymentService(payments, students, &mockAuditWriter{}, true, nil, nil), payments
}

func TestPaymentServiceCreateAnyStatus(t *testing.T) {
	svc, _ := newPaymentFixture()

	payment, err := svc.Create(context.Background(), adminClaims(), dto.CreatePaymentRequest{
		StudentID: "stu-1",
		Amount:    80000,
		Status:    models.PaymentStatusFree,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFree, payment.Status)
	assert.Nil(t, payment.PaymentDate)
}

func TestPaymentServiceCreateZeroAmountFreeSlip(t *testing.T) {
	svc, _ := newPaymentFixture()

	payment, err := svc.Create(context.Background(), adminClaims(), dto.CreatePaymentRequest{
		StudentID: "stu-1",
		Amount:    0,
		Status:    models.PaymentStatusFree,
	})
	require.NoError(t, err)
	assert.Zero(t, payment.Amount)
	assert.Equal(t, models.PaymentStatusFree, payment.Status)
}

func TestPaymentServiceCreatePaidSetsDate(t *testing.T) {
	svc, _ := newPaymentFixture()

	payment, err := svc.Create(context.Background(), adminClaims(), dto.CreatePaymentRequest{
		StudentID: "stu-1",
		Amount:    80000,
		Status:    models.PaymentStatusPaid,
	})
	require.NoError(t, err)
	assert.NotNil(t, payment.PaymentDate)
}

func TestPaymentServiceCreateUnknownStatus(t *testing.T) {
	svc, _ := newPaymentFixture()

	_, err := svc.Create(context.Background(), adminClaims(), dto.CreatePaymentRequest{
		StudentID: "stu-1",
		Amount:    80000,
		Status:    "SETTLED",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPaymentServiceConfirmOwnSlip(t *testing.T) {
	svc, payments := newPaymentFixture()
	payments.payments = map[string]models.Payment{
		"pay-1": {ID: "pay-1", StudentID: "stu-1", Amount: 80000, Status: models.PaymentStatusPending},
	}
	claims := &models.JWTClaims{UserID: "user-stu", Username: "20230001", Role: models.RoleStudent}

	payment, err := svc.Confirm(context.Background(), claims, "pay-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, payment.Status)
	assert.NotNil(t, payment.PaymentDate)
}

func TestPaymentServiceConfirmForeignSlip(t *testing.T) {
	svc, payments := newPaymentFixture()
	payments.payments = map[string]models.Payment{
		"pay-1": {ID: "pay-1", StudentID: "stu-1", Status: models.PaymentStatusPending},
	}
	claims := &models.JWTClaims{UserID: "user-stu2", Username: "20230002", Role: models.RoleStudent}

	_, err := svc.Confirm(context.Background(), claims, "pay-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestPaymentServiceConfirmNotPending(t *testing.T) {
	svc, payments := newPaymentFixture()
	payments.payments = map[string]models.Payment{
		"pay-1": {ID: "pay-1", StudentID: "stu-1", Status: models.PaymentStatusPaid},
	}
	claims := &models.JWTClaims{UserID: "user-stu", Username: "20230001", Role: models.RoleStudent}

	_, err := svc.Confirm(context.Background(), claims, "pay-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
}

func TestPaymentServiceListStudentScope(t *testing.T) {
	svc, payments := newPaymentFixture()
	claims := &models.JWTClaims{UserID: "user-stu", Username: "20230001", Role: models.RoleStudent}

	_, err := svc.List(context.Background(), claims)
	require.NoError(t, err)
	require.Len(t, payments.listCalls, 1)
	assert.Equal(t, "stu-1", payments.listCalls[0])
}

func TestPaymentServiceExportCSV(t *testing.T) {
	svc, payments := newPaymentFixture()
	note := "Học phí học kỳ 1"
	payments.listResult = []models.PaymentDetail{
		{
			Payment:       models.Payment{ID: "pay-1", StudentID: "stu-1", Amount: 80000, Status: models.PaymentStatusPending, Note: &note},
			StudentName:   "Nguyễn Văn A",
			StudentNumber: "20230001",
		},
	}

	result, err := svc.Export(context.Background(), ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Contains(t, string(result.Data), "20230001")
	assert.Contains(t, string(result.Data), "80000.00")
}

func TestPaymentServiceExportDisabled(t *testing.T) {
	payments := &mockPaymentRepo{}
	students := &mockPaymentStudentRepo{}
	svc := NewPaymentService(payments, students, &mockAuditWriter{}, false, nil, nil)

	_, err := svc.Export(context.Background(), ExportFormatPDF)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
