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

type mockGradeRepo struct {
	grades     map[string]models.Grade
	listCalls  []models.GradeFilter
	listResult []models.GradeDetail
}

func (m *mockGradeRepo) Create(ctx context.Context, grade *models.Grade) error {
	if m.grades == nil {
		m.grades = make(map[string]models.Grade)
	}
	if grade.ID == "" {
		grade.ID = "grade-new"
	}
	m.grades[grade.ID] = *grade
	return nil
}

func (m *mockGradeRepo) FindByID(ctx context.Context, id string) (*models.Grade, error) {
	if g, ok := m.grades[id]; ok {
		return &g, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockGradeRepo) Confirm(ctx context.Context, id, confirmedBy string, confirmedAt time.Time) error {
	g, ok := m.grades[id]
	if !ok || g.Status != models.GradeStatusPending {
		return sql.ErrNoRows
	}
	g.Status = models.GradeStatusConfirmed
	g.ConfirmedBy = &confirmedBy
	g.ConfirmedAt = &confirmedAt
	m.grades[id] = g
	return nil
}

func (m *mockGradeRepo) List(ctx context.Context, filter models.GradeFilter) ([]models.GradeDetail, error) {
	m.listCalls = append(m.listCalls, filter)
	return m.listResult, nil
}

type mockGradeStudentRepo struct {
	byID     map[string]*models.StudentDetail
	byNumber map[string]*models.Student
}

func (m *mockGradeStudentRepo) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	if s, ok := m.byID[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockGradeStudentRepo) FindByStudentNumber(ctx context.Context, studentNumber string) (*models.Student, error) {
	if s, ok := m.byNumber[studentNumber]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type mockAuditWriter struct {
	logs []models.AuditLog
}

func (m *mockAuditWriter) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.logs = append(m.logs, *log)
	return nil
}

func newGradeFixture() (*GradeService, *mockGradeRepo, *mockAuditWriter) {
	lecturer := "user-gv"
	grades := &mockGradeRepo{}
	students := &mockGradeStudentRepo{
		byID: map[string]*models.StudentDetail{
			"stu-1": {Student: models.Student{ID: "stu-1", StudentID: "20230001"}},
		},
		byNumber: map[string]*models.Student{
			"20230001": {ID: "stu-1", StudentID: "20230001"},
		},
	}
	courses := &mockCourseReader{courses: map[string]*models.CourseDetail{
		"course-1": {Course: models.Course{ID: "course-1", Code: "CSE101", LecturerID: &lecturer}},
	}}
	audits := &mockAuditWriter{}
	return NewGradeService(grades, students, courses, audits, nil, nil), grades, audits
}

func lecturerClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "user-gv", Username: "GV001", Role: models.RoleLecturer}
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "user-admin", Username: "@admin", Role: models.RoleAdmin}
}

func TestGradeServiceSubmit(t *testing.T) {
	svc, _, audits := newGradeFixture()

	grade, err := svc.Submit(context.Background(), lecturerClaims(), dto.SubmitGradeRequest{
		StudentID: "stu-1",
		CourseID:  "course-1",
		Value:     8.5,
	})
	require.NoError(t, err)
	assert.Equal(t, models.GradeStatusPending, grade.Status)
	assert.Equal(t, "user-gv", grade.SubmittedBy)
	assert.Len(t, audits.logs, 1)
}

func TestGradeServiceSubmitForeignCourse(t *testing.T) {
	svc, _, _ := newGradeFixture()
	claims := &models.JWTClaims{UserID: "user-other", Username: "GV002", Role: models.RoleLecturer}

	_, err := svc.Submit(context.Background(), claims, dto.SubmitGradeRequest{
		StudentID: "stu-1",
		CourseID:  "course-1",
		Value:     7.0,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestGradeServiceSubmitOutOfRange(t *testing.T) {
	svc, _, _ := newGradeFixture()

	_, err := svc.Submit(context.Background(), lecturerClaims(), dto.SubmitGradeRequest{
		StudentID: "stu-1",
		CourseID:  "course-1",
		Value:     11,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGradeServiceConfirm(t *testing.T) {
	svc, grades, _ := newGradeFixture()
	grades.grades = map[string]models.Grade{
		"grade-1": {ID: "grade-1", StudentID: "stu-1", CourseID: "course-1", Value: 8.5, Status: models.GradeStatusPending},
	}

	grade, err := svc.Confirm(context.Background(), adminClaims(), "grade-1")
	require.NoError(t, err)
	assert.Equal(t, models.GradeStatusConfirmed, grade.Status)
	require.NotNil(t, grade.ConfirmedBy)
	assert.Equal(t, "user-admin", *grade.ConfirmedBy)
}

func TestGradeServiceConfirmTwice(t *testing.T) {
	svc, grades, _ := newGradeFixture()
	grades.grades = map[string]models.Grade{
		"grade-1": {ID: "grade-1", Status: models.GradeStatusPending},
	}

	_, err := svc.Confirm(context.Background(), adminClaims(), "grade-1")
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), adminClaims(), "grade-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
}

func TestGradeServiceListStudentScope(t *testing.T) {
	svc, grades, _ := newGradeFixture()
	claims := &models.JWTClaims{UserID: "user-stu", Username: "20230001", Role: models.RoleStudent}

	_, err := svc.List(context.Background(), claims, models.GradeStatusPending)
	require.NoError(t, err)

	require.Len(t, grades.listCalls, 1)
	filter := grades.listCalls[0]
	assert.Equal(t, "stu-1", filter.StudentID)
	assert.Equal(t, models.GradeStatusConfirmed, filter.Status)
}

func TestGradeServiceListLecturerScope(t *testing.T) {
	svc, grades, _ := newGradeFixture()

	_, err := svc.List(context.Background(), lecturerClaims(), "")
	require.NoError(t, err)

	require.Len(t, grades.listCalls, 1)
	assert.Equal(t, "user-gv", grades.listCalls[0].LecturerID)
	assert.Empty(t, grades.listCalls[0].Status)
}
