package handler

import (
	"bytes"
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

	"github.com/campushq/backoffice-api/internal/dto"
	"github.com/campushq/backoffice-api/internal/middleware"
	"github.com/campushq/backoffice-api/internal/models"
	"github.com/campushq/backoffice-api/internal/service"
	"github.com/campushq/backoffice-api/pkg/response"
)

type enrollmentRepoStub struct {
	active map[string]bool
}

func (s *enrollmentRepoStub) Enroll(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	key := studentID + "/" + courseID
	if s.active == nil {
		s.active = make(map[string]bool)
	}
	if s.active[key] {
		return nil, sql.ErrNoRows
	}
	s.active[key] = true
	return &models.Enrollment{ID: "enr-1", StudentID: studentID, CourseID: courseID, Status: models.EnrollmentStatusActive, EnrolledAt: time.Now()}, nil
}

func (s *enrollmentRepoStub) Drop(ctx context.Context, studentID, courseID string) error {
	key := studentID + "/" + courseID
	if !s.active[key] {
		return sql.ErrNoRows
	}
	s.active[key] = false
	return nil
}

func (s *enrollmentRepoStub) ListDetailsByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error) {
	return []models.EnrollmentDetail{}, nil
}

type studentRepoStub struct{}

func (studentRepoStub) FindByStudentNumber(ctx context.Context, studentNumber string) (*models.Student, error) {
	if studentNumber == "20230001" {
		return &models.Student{ID: "stu-1", StudentID: "20230001"}, nil
	}
	return nil, sql.ErrNoRows
}

type courseRepoStub struct{}

func (courseRepoStub) FindByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	if id == "course-1" {
		return &models.CourseDetail{Course: models.Course{ID: "course-1", Code: "CSE101"}}, nil
	}
	return nil, sql.ErrNoRows
}

func newEnrollmentHandler() *EnrollmentHandler {
	svc := service.NewEnrollmentService(&enrollmentRepoStub{}, studentRepoStub{}, courseRepoStub{}, nil, nil)
	return NewEnrollmentHandler(svc)
}

func enrollContext(t *testing.T, w *httptest.ResponseRecorder, courseID string) *gin.Context {
	t.Helper()
	c, _ := gin.CreateTestContext(w)
	body, err := json.Marshal(dto.EnrollRequest{CourseID: courseID})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, "/enrollments", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-stu", Username: "20230001", Role: models.RoleStudent})
	return c
}

func TestEnrollmentHandlerEnroll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newEnrollmentHandler()
	w := httptest.NewRecorder()

	handler.Enroll(enrollContext(t, w, "course-1"))
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Nil(t, envelope.Error)
}

func TestEnrollmentHandlerEnrollDuplicate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newEnrollmentHandler()

	first := httptest.NewRecorder()
	handler.Enroll(enrollContext(t, first, "course-1"))
	require.Equal(t, http.StatusCreated, first.Code)

	second := httptest.NewRecorder()
	handler.Enroll(enrollContext(t, second, "course-1"))
	require.Equal(t, http.StatusConflict, second.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "DUPLICATE_ENROLLMENT", envelope.Error.Code)
}

func TestEnrollmentHandlerEnrollUnknownCourse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newEnrollmentHandler()
	w := httptest.NewRecorder()

	handler.Enroll(enrollContext(t, w, "missing"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEnrollmentHandlerDropWithoutEnrollment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newEnrollmentHandler()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/enrollments/course-1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "courseId", Value: "course-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-stu", Username: "20230001", Role: models.RoleStudent})

	handler.Drop(c)
	require.Equal(t, http.StatusNotFound, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "NOT_ENROLLED", envelope.Error.Code)
}
