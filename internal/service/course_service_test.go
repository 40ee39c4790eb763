package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/backoffice-api/internal/dto"
	"github.com/campushq/backoffice-api/internal/models"
	appErrors "github.com/campushq/backoffice-api/pkg/errors"
)

type mockCourseRepo struct {
	courses map[string]*models.CourseDetail
	codes   map[string]bool
	created *models.Course
}

func (m *mockCourseRepo) ListDetails(ctx context.Context) ([]models.CourseDetail, error) {
	var list []models.CourseDetail
	for _, c := range m.courses {
		list = append(list, *c)
	}
	return list, nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) ExistsCode(ctx context.Context, code, excludeID string) (bool, error) {
	return m.codes[code], nil
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	course.ID = "course-new"
	m.created = course
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error { return nil }

func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.courses[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.courses, id)
	return nil
}

type mockUserReader struct {
	users map[string]*models.User
}

func (m *mockUserReader) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

type mockStudentEnrollments struct {
	byStudent map[string][]models.Enrollment
}

func (m *mockStudentEnrollments) ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	return m.byStudent[studentID], nil
}

func lecturerName(name string) *string { return &name }

func newCourseFixture() (*CourseService, *mockCourseRepo) {
	gv1 := "user-gv1"
	gv2 := "user-gv2"
	repo := &mockCourseRepo{
		courses: map[string]*models.CourseDetail{
			"course-1": {Course: models.Course{ID: "course-1", Code: "CSE101", Name: "Lập trình cơ bản", Credits: 3, LecturerID: &gv1}, LecturerName: lecturerName("GV001")},
			"course-2": {Course: models.Course{ID: "course-2", Code: "MTH101", Name: "Toán rời rạc", Credits: 3, LecturerID: &gv2}, LecturerName: lecturerName("GV002")},
		},
		codes: map[string]bool{"CSE101": true, "MTH101": true},
	}
	users := &mockUserReader{users: map[string]*models.User{
		"user-gv1": {ID: "user-gv1", Username: "GV001", Role: models.RoleLecturer},
		"user-stu": {ID: "user-stu", Username: "20230001", Role: models.RoleStudent},
	}}
	students := &mockStudentReader{byNumber: map[string]*models.Student{
		"20230001": {ID: "stu-1", StudentID: "20230001"},
	}}
	enrollments := &mockStudentEnrollments{byStudent: map[string][]models.Enrollment{
		"stu-1": {{ID: "enr-1", StudentID: "stu-1", CourseID: "course-1", Status: models.EnrollmentStatusActive}},
	}}
	return NewCourseService(repo, users, students, enrollments, nil, nil), repo
}

func TestCourseServiceCatalogNoSelection(t *testing.T) {
	svc, _ := newCourseFixture()

	catalog, err := svc.Catalog(context.Background(), adminClaims(), dto.CatalogFilter{})
	require.NoError(t, err)
	assert.Len(t, catalog.Matching, 2)
	assert.Empty(t, catalog.Others)
	assert.Equal(t, []string{"GV001", "GV002"}, catalog.Lecturers)
}

func TestCourseServiceCatalogPartition(t *testing.T) {
	svc, _ := newCourseFixture()

	catalog, err := svc.Catalog(context.Background(), adminClaims(), dto.CatalogFilter{Lecturers: []string{"GV001"}})
	require.NoError(t, err)
	require.Len(t, catalog.Matching, 1)
	require.Len(t, catalog.Others, 1)
	assert.Equal(t, "CSE101", catalog.Matching[0].Code)
	assert.Equal(t, "MTH101", catalog.Others[0].Code)
}

func TestCourseServiceCatalogStudentAnnotations(t *testing.T) {
	svc, _ := newCourseFixture()
	claims := &models.JWTClaims{UserID: "user-stu", Username: "20230001", Role: models.RoleStudent}

	catalog, err := svc.Catalog(context.Background(), claims, dto.CatalogFilter{})
	require.NoError(t, err)

	byCode := map[string]models.CourseCatalogEntry{}
	for _, entry := range catalog.Matching {
		byCode[entry.Code] = entry
	}
	assert.True(t, byCode["CSE101"].Enrolled)
	require.NotNil(t, byCode["CSE101"].EnrollmentStatus)
	assert.Equal(t, models.EnrollmentStatusActive, *byCode["CSE101"].EnrollmentStatus)
	assert.False(t, byCode["MTH101"].Enrolled)
	assert.Nil(t, byCode["MTH101"].EnrollmentStatus)
}

func TestCourseServiceCreateDuplicateCode(t *testing.T) {
	svc, _ := newCourseFixture()

	_, err := svc.Create(context.Background(), dto.CreateCourseRequest{Code: "CSE101", Name: "Nhập môn", Credits: 3})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateCode.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceCreateRejectsNonLecturer(t *testing.T) {
	svc, _ := newCourseFixture()
	stu := "user-stu"

	_, err := svc.Create(context.Background(), dto.CreateCourseRequest{Code: "PHY101", Name: "Vật lý", Credits: 2, LecturerID: &stu})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceCreate(t *testing.T) {
	svc, repo := newCourseFixture()
	gv := "user-gv1"

	course, err := svc.Create(context.Background(), dto.CreateCourseRequest{Code: "PHY101", Name: "Vật lý", Credits: 2, LecturerID: &gv})
	require.NoError(t, err)
	assert.Equal(t, "PHY101", course.Code)
	assert.Equal(t, repo.created, course)
}
