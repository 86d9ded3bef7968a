package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/miftal/academy-api/internal/models"
	appErrors "github.com/miftal/academy-api/pkg/errors"
)

type fakeUserRepo struct {
	usersByEmail  map[string]*models.User
	usersByID     map[string]*models.User
	refreshTokens map[string]*models.RefreshToken
	revokedAll    []string
	lastLoginSet  bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		usersByEmail:  map[string]*models.User{},
		usersByID:     map[string]*models.User{},
		refreshTokens: map[string]*models.RefreshToken{},
	}
}

func (f *fakeUserRepo) addUser(user *models.User) {
	f.usersByEmail[user.Email] = user
	f.usersByID[user.ID] = user
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.usersByEmail[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f.usersByID[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := f.usersByEmail[email]
	return ok, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	f.addUser(user)
	return nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, _ string, _ time.Time) error {
	f.lastLoginSet = true
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash string, _ time.Time) error {
	if u, ok := f.usersByID[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (f *fakeUserRepo) RevokeUserRefreshTokens(_ context.Context, userID string) error {
	f.revokedAll = append(f.revokedAll, userID)
	for _, token := range f.refreshTokens {
		if token.UserID == userID {
			token.Revoked = true
		}
	}
	return nil
}

func (f *fakeUserRepo) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	f.refreshTokens[token.Token] = token
	return nil
}

func (f *fakeUserRepo) FindRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := f.refreshTokens[token]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) RevokeRefreshToken(_ context.Context, id string, revokedAt time.Time) error {
	for _, token := range f.refreshTokens {
		if token.ID == id {
			token.Revoked = true
			token.RevokedAt = &revokedAt
		}
	}
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "academy-api-test",
	}
}

func seedUser(t *testing.T, repo *fakeUserRepo, role models.UserRole, active bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		ID:           "user-1",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		DisplayName:  "Site Admin",
		Role:         role,
		Active:       active,
	}
	repo.addUser(user)
	return user
}

func TestAuthSignup_CreatesStudentAndIssuesSession(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, nil, zap.NewNop(), testAuthConfig())

	resp, err := svc.Signup(context.Background(), models.SignupRequest{
		Email:       "student@example.com",
		Password:    "secret123",
		DisplayName: "New Student",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.RoleStudent, resp.User.Role)
	assert.False(t, resp.User.IsAdmin)

	stored := repo.usersByEmail["student@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
}

func TestAuthSignup_RejectsDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, models.RoleStudent, true)
	svc := NewAuthService(repo, nil, zap.NewNop(), testAuthConfig())

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		Email:       "admin@example.com",
		Password:    "secret123",
		DisplayName: "Dup",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAuthSignup_RejectsShortPassword(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), nil, zap.NewNop(), testAuthConfig())

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		Email:       "student@example.com",
		Password:    "short",
		DisplayName: "New Student",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthLogin_IssuesValidatableToken(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, models.RoleAdmin, true)
	svc := NewAuthService(repo, nil, zap.NewNop(), testAuthConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.True(t, repo.lastLoginSet)
	assert.True(t, resp.User.IsAdmin)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.True(t, claims.IsAdmin())
}

func TestAuthLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, models.RoleAdmin, true)
	svc := NewAuthService(repo, nil, zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong-password",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthLogin_InactiveAccount(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, models.RoleStudent, false)
	svc := NewAuthService(repo, nil, zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@example.com",
		Password: "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthRefreshToken_RotatesSession(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, models.RoleAdmin, true)
	svc := NewAuthService(repo, nil, zap.NewNop(), testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The consumed token is revoked and cannot be replayed.
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthLogout_RevokesOwnTokenOnly(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, models.RoleAdmin, true)
	svc := NewAuthService(repo, nil, zap.NewNop(), testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	err = svc.Logout(context.Background(), login.RefreshToken, "someone-else")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken, "user-1"))
	assert.True(t, repo.refreshTokens[login.RefreshToken].Revoked)
}

func TestAuthChangePassword_RevokesSessions(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, models.RoleAdmin, true)
	svc := NewAuthService(repo, nil, zap.NewNop(), testAuthConfig())

	err := svc.ChangePassword(context.Background(), "user-1", models.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "newsecret",
	})
	require.Error(t, err)

	err = svc.ChangePassword(context.Background(), "user-1", models.ChangePasswordRequest{
		OldPassword: "secret123",
		NewPassword: "newsecret",
	})
	require.NoError(t, err)
	assert.Contains(t, repo.revokedAll, "user-1")

	// Old password no longer works.
	_, err = svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@example.com",
		Password: "secret123",
	})
	require.Error(t, err)
	_, err = svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@example.com",
		Password: "newsecret",
	})
	require.NoError(t, err)
}

func TestAuthValidateToken_RejectsGarbage(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), nil, zap.NewNop(), testAuthConfig())

	_, err := svc.ValidateToken("not-a-jwt")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthMe_ReturnsProfile(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, models.RoleAdmin, true)
	svc := NewAuthService(repo, nil, zap.NewNop(), testAuthConfig())

	info, err := svc.Me(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Site Admin", info.DisplayName)
	assert.True(t, info.IsAdmin)

	_, err = svc.Me(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
