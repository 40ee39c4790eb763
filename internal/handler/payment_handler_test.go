package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/backoffice-api/internal/middleware"
	"github.com/campushq/backoffice-api/internal/models"
	"github.com/campushq/backoffice-api/internal/service"
	"github.com/campushq/backoffice-api/pkg/response"
)

type paymentRepoStub struct{}

func (paymentRepoStub) Create(ctx context.Context, payment *models.Payment) error { return nil }

func (paymentRepoStub) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	return nil, sql.ErrNoRows
}

func (paymentRepoStub) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	return sql.ErrNoRows
}

func (paymentRepoStub) List(ctx context.Context, studentID string) ([]models.PaymentDetail, error) {
	return []models.PaymentDetail{}, nil
}

func (paymentRepoStub) Summary(ctx context.Context) (*models.PaymentSummary, error) {
	return &models.PaymentSummary{TotalPending: 80000, TotalPaid: 80000, NetDebt: 0, NetBalance: 80000}, nil
}

type paymentStudentStub struct{}

func (paymentStudentStub) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	return nil, sql.ErrNoRows
}

func (paymentStudentStub) FindByStudentNumber(ctx context.Context, studentNumber string) (*models.Student, error) {
	if studentNumber == "20230001" {
		return &models.Student{ID: "stu-1", StudentID: "20230001"}, nil
	}
	return nil, sql.ErrNoRows
}

type paymentAuditStub struct{}

func (paymentAuditStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error { return nil }

func newPaymentHandler() *PaymentHandler {
	svc := service.NewPaymentService(paymentRepoStub{}, paymentStudentStub{}, paymentAuditStub{}, true, nil, nil)
	return NewPaymentHandler(svc)
}

func TestPaymentHandlerSummaryForStudent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newPaymentHandler()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, "/payments/summary", nil)
	require.NoError(t, err)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-stu", Username: "20230001", Role: models.RoleStudent})

	handler.Summary(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Nil(t, envelope.Error)

	var summary models.PaymentSummary
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &summary))
	assert.Equal(t, 80000.0, summary.TotalPending)
	assert.Equal(t, 80000.0, summary.NetBalance)
}
