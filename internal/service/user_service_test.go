package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushq/backoffice-api/internal/dto"
	"github.com/campushq/backoffice-api/internal/models"
	appErrors "github.com/campushq/backoffice-api/pkg/errors"
)

type mockAccountRepo struct {
	byUsername map[string]*models.User
	listResult []models.User
	listTotal  int
	listFilter models.UserFilter
	created    []*models.User
}

func (m *mockAccountRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	m.listFilter = filter
	return m.listResult, m.listTotal, nil
}

func (m *mockAccountRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if user, ok := m.byUsername[username]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccountRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = "user-new"
	m.created = append(m.created, user)
	return nil
}

func newUserFixture() (*UserService, *mockAccountRepo) {
	repo := &mockAccountRepo{
		byUsername: map[string]*models.User{
			"GV001": {ID: "user-gv", Username: "GV001", Role: models.RoleLecturer},
		},
	}
	return NewUserService(repo, nil, nil), repo
}

func TestUserServiceCreateDerivesRole(t *testing.T) {
	svc, repo := newUserFixture()

	cases := map[string]models.UserRole{
		"@ops":     models.RoleAdmin,
		"GV002":    models.RoleLecturer,
		"20240001": models.RoleStudent,
	}
	for username, role := range cases {
		user, err := svc.Create(context.Background(), dto.CreateUserRequest{Username: username, Password: "123456"})
		require.NoError(t, err, username)
		assert.Equal(t, role, user.Role, username)
		assert.True(t, user.Active)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("123456")))
	}
	assert.Len(t, repo.created, 3)
}

func TestUserServiceCreateDuplicateUsername(t *testing.T) {
	svc, repo := newUserFixture()

	_, err := svc.Create(context.Background(), dto.CreateUserRequest{Username: "GV001", Password: "123456"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateCode.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created)
}

func TestUserServiceCreateUnmappableUsername(t *testing.T) {
	svc, repo := newUserFixture()

	_, err := svc.Create(context.Background(), dto.CreateUserRequest{Username: "not-a-shape", Password: "123456"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created)
}

func TestUserServiceListDefaults(t *testing.T) {
	svc, repo := newUserFixture()
	repo.listResult = []models.User{{ID: "user-1", Username: "@admin"}}
	repo.listTotal = 1

	users, pagination, err := svc.List(context.Background(), models.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 1, pagination.TotalCount)
	assert.Equal(t, 1, repo.listFilter.Page)
	assert.Equal(t, 20, repo.listFilter.PageSize)
}
