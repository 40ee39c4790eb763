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

type mockEnrollmentRepo struct {
	active  map[string]bool
	dropped []string
	details []models.EnrollmentDetail
}

func (m *mockEnrollmentRepo) key(studentID, courseID string) string {
	return studentID + "/" + courseID
}

func (m *mockEnrollmentRepo) Enroll(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	if m.active == nil {
		m.active = make(map[string]bool)
	}
	key := m.key(studentID, courseID)
	if m.active[key] {
		return nil, sql.ErrNoRows
	}
	m.active[key] = true
	return &models.Enrollment{
		ID:         "enr-1",
		StudentID:  studentID,
		CourseID:   courseID,
		Status:     models.EnrollmentStatusActive,
		EnrolledAt: time.Now().UTC(),
	}, nil
}

func (m *mockEnrollmentRepo) Drop(ctx context.Context, studentID, courseID string) error {
	key := m.key(studentID, courseID)
	if !m.active[key] {
		return sql.ErrNoRows
	}
	m.active[key] = false
	m.dropped = append(m.dropped, key)
	return nil
}

func (m *mockEnrollmentRepo) ListDetailsByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error) {
	return m.details, nil
}

type mockStudentReader struct {
	byNumber map[string]*models.Student
}

func (m *mockStudentReader) FindByStudentNumber(ctx context.Context, studentNumber string) (*models.Student, error) {
	if s, ok := m.byNumber[studentNumber]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type mockCourseReader struct {
	courses map[string]*models.CourseDetail
}

func (m *mockCourseReader) FindByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func studentClaims(username string) *models.JWTClaims {
	return &models.JWTClaims{UserID: "user-" + username, Username: username, Role: models.RoleStudent}
}

func newEnrollmentFixture() (*EnrollmentService, *mockEnrollmentRepo) {
	repo := &mockEnrollmentRepo{}
	students := &mockStudentReader{byNumber: map[string]*models.Student{
		"20230001": {ID: "stu-1", StudentID: "20230001", FullName: "Nguyễn Văn A"},
	}}
	courses := &mockCourseReader{courses: map[string]*models.CourseDetail{
		"course-1": {Course: models.Course{ID: "course-1", Code: "CSE101"}},
	}}
	return NewEnrollmentService(repo, students, courses, nil, nil), repo
}

func TestEnrollmentServiceEnroll(t *testing.T) {
	svc, _ := newEnrollmentFixture()

	enrollment, err := svc.Enroll(context.Background(), studentClaims("20230001"), dto.EnrollRequest{CourseID: "course-1"})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusActive, enrollment.Status)
	assert.Equal(t, "stu-1", enrollment.StudentID)
}

func TestEnrollmentServiceEnrollDuplicate(t *testing.T) {
	svc, _ := newEnrollmentFixture()
	claims := studentClaims("20230001")

	_, err := svc.Enroll(context.Background(), claims, dto.EnrollRequest{CourseID: "course-1"})
	require.NoError(t, err)

	_, err = svc.Enroll(context.Background(), claims, dto.EnrollRequest{CourseID: "course-1"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateEnrollment.Code, appErr.Code)
}

func TestEnrollmentServiceEnrollUnknownCourse(t *testing.T) {
	svc, _ := newEnrollmentFixture()

	_, err := svc.Enroll(context.Background(), studentClaims("20230001"), dto.EnrollRequest{CourseID: "missing"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceDropThenReenroll(t *testing.T) {
	svc, repo := newEnrollmentFixture()
	claims := studentClaims("20230001")

	_, err := svc.Enroll(context.Background(), claims, dto.EnrollRequest{CourseID: "course-1"})
	require.NoError(t, err)

	require.NoError(t, svc.Drop(context.Background(), claims, dto.EnrollRequest{CourseID: "course-1"}))
	assert.Len(t, repo.dropped, 1)

	_, err = svc.Enroll(context.Background(), claims, dto.EnrollRequest{CourseID: "course-1"})
	require.NoError(t, err)
}

func TestEnrollmentServiceDropWithoutEnrollment(t *testing.T) {
	svc, _ := newEnrollmentFixture()

	err := svc.Drop(context.Background(), studentClaims("20230001"), dto.EnrollRequest{CourseID: "course-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotEnrolled.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceRejectsNonStudents(t *testing.T) {
	svc, _ := newEnrollmentFixture()
	claims := &models.JWTClaims{UserID: "user-admin", Username: "@admin", Role: models.RoleAdmin}

	_, err := svc.Enroll(context.Background(), claims, dto.EnrollRequest{CourseID: "course-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
