package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/fleetcheck/internal/domain"
	"github.com/mamadbah2/fleetcheck/internal/domain/models"
)

const testSecret = "test-secret-at-least-32-chars-long-for-hs256"

type userRepoMock struct {
	listFunc func(ctx context.Context) ([]models.User, error)
	saveFunc func(ctx context.Context, user models.User) error
	saved    []models.User
}

func (m *userRepoMock) ListUsers(ctx context.Context) ([]models.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *userRepoMock) SaveUser(ctx context.Context, user models.User) error {
	m.saved = append(m.saved, user)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, user)
	}
	return nil
}

func newBootstrapped(t *testing.T, repo *userRepoMock) *Service {
	t.Helper()
	svc := NewService(repo, NewTokenManager(testSecret, "fleetcheck-test", time.Hour), nil)
	require.NoError(t, svc.Bootstrap(context.Background(), 2, "vom2024"))
	return svc
}

func TestBootstrapSeedsWhenEmpty(t *testing.T) {
	repo := &userRepoMock{}
	svc := newBootstrapped(t, repo)

	users := svc.Users()
	require.Len(t, users, 6)
	assert.Len(t, repo.saved, 6)

	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
	}
	assert.Equal(t, []string{"admin", "almacen", "Movil-1", "CONDMOVIL-1", "Movil-2", "CONDMOVIL-2"}, names)

	driver, ok := svc.User(DriverID(2))
	require.True(t, ok)
	assert.Equal(t, models.UnitDriver, driver.Kind)
	assert.Equal(t, 2, driver.UnitNumber)
	assert.Len(t, svc.MobileUsers(), 4)
}

func TestBootstrapKeepsStoredUsers(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	repo := &userRepoMock{listFunc: func(context.Context) ([]models.User, error) {
		return []models.User{
			{ID: CrewID(1), Username: "Movil-1", Role: models.RoleMobile, Kind: models.UnitCrew, UnitNumber: 1, PasswordHash: hash},
			{ID: AdminID, Username: "admin", Role: models.RoleAdmin, PasswordHash: hash},
		}, nil
	}}
	svc := NewService(repo, NewTokenManager(testSecret, "fleetcheck-test", time.Hour), nil)

	require.NoError(t, svc.Bootstrap(context.Background(), 30, "ignored"))

	assert.Empty(t, repo.saved)
	users := svc.Users()
	require.Len(t, users, 2)
	assert.Equal(t, AdminID, users[0].ID)
}

func TestBootstrapListError(t *testing.T) {
	repo := &userRepoMock{listFunc: func(context.Context) ([]models.User, error) {
		return nil, errors.New("mongo unreachable")
	}}
	svc := NewService(repo, NewTokenManager(testSecret, "fleetcheck-test", time.Hour), nil)

	assert.Error(t, svc.Bootstrap(context.Background(), 1, "x"))
}

func TestLoginIsCaseInsensitive(t *testing.T) {
	svc := newBootstrapped(t, &userRepoMock{})

	res, err := svc.Login(context.Background(), "  movil-1 ", "vom2024")
	require.NoError(t, err)
	assert.Equal(t, CrewID(1), res.User.ID)
	assert.NotEmpty(t, res.Token)

	user, err := svc.Authenticate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "Movil-1", user.Username)
}

func TestLoginFailures(t *testing.T) {
	svc := newBootstrapped(t, &userRepoMock{})

	cases := map[string][2]string{
		"unknown user":   {"movil-99", "vom2024"},
		"wrong password": {"admin", "nope"},
		"empty username": {"", "vom2024"},
		"empty password": {"admin", ""},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), c[0], c[1])
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	svc := newBootstrapped(t, &userRepoMock{})

	_, err := svc.Authenticate("garbage")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	other := NewTokenManager(testSecret, "someone-else", time.Hour)
	token, err := other.Generate(models.User{ID: AdminID, Role: models.RoleAdmin})
	require.NoError(t, err)
	_, err = svc.Authenticate(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	token, err = svc.tokens.Generate(models.User{ID: "ghost", Role: models.RoleAdmin})
	require.NoError(t, err)
	_, err = svc.Authenticate(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	repo := &userRepoMock{}
	svc := newBootstrapped(t, repo)
	admin, _ := svc.User(AdminID)
	crew, _ := svc.User(CrewID(1))

	assert.ErrorIs(t, svc.ChangePassword(ctx, crew, CrewID(1), "new"), domain.ErrForbidden)
	assert.ErrorIs(t, svc.ChangePassword(ctx, admin, "missing", "new"), domain.ErrNotFound)
	assert.ErrorIs(t, svc.ChangePassword(ctx, admin, CrewID(1), " "), domain.ErrValidation)

	require.NoError(t, svc.ChangePassword(ctx, admin, CrewID(1), "n3w-pass"))

	updated, _ := svc.User(CrewID(1))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("n3w-pass")))
	assert.Equal(t, CrewID(1), repo.saved[len(repo.saved)-1].ID)

	_, err := svc.Login(ctx, "Movil-1", "vom2024")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.Login(ctx, "Movil-1", "n3w-pass")
	assert.NoError(t, err)
}

func TestPasswordChangeRevokesSessions(t *testing.T) {
	ctx := context.Background()
	repo := &userRepoMock{}
	svc := newBootstrapped(t, repo)
	admin, _ := svc.User(AdminID)

	old, err := svc.Login(ctx, "Movil-1", "vom2024")
	require.NoError(t, err)
	_, err = svc.Authenticate(old.Token)
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, admin, CrewID(1), "n3w-pass"))

	_, err = svc.Authenticate(old.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	fresh, err := svc.Login(ctx, "Movil-1", "n3w-pass")
	require.NoError(t, err)
	user, err := svc.Authenticate(fresh.Token)
	require.NoError(t, err)
	assert.Equal(t, 1, user.CredentialVersion)
	assert.Equal(t, 1, repo.saved[len(repo.saved)-1].CredentialVersion)

	adminSession, err := svc.Login(ctx, "admin", "vom2024")
	require.NoError(t, err)
	_, err = svc.Authenticate(adminSession.Token)
	assert.NoError(t, err)
}

func TestTokenExpiry(t *testing.T) {
	m := NewTokenManager(testSecret, "fleetcheck-test", time.Minute)
	issued := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	token, err := m.Generate(models.User{ID: AdminID, Role: models.RoleAdmin, CredentialVersion: 3})
	require.NoError(t, err)

	session, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, Session{UserID: AdminID, Role: models.RoleAdmin, CredentialVersion: 3}, session)

	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = m.Validate(token)
	assert.Error(t, err)
}
