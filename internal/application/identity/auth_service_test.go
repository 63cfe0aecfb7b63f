package identity

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// memUserRepo is an in-memory identity.UserRepository
type memUserRepo struct {
	byID map[uuid.UUID]*identity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: make(map[uuid.UUID]*identity.User)}
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	if u, ok := r.byID[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memUserRepo) FindAll(_ context.Context, _ shared.Filter) ([]identity.User, error) {
	out := make([]identity.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (r *memUserRepo) Save(_ context.Context, u *identity.User) error {
	copied := *u
	r.byID[u.ID] = &copied
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memUserRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.byID)), nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.byID {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func newTestJWT() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-at-least-32-char",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "storefront-test",
	})
}

func authFixture() (*AuthService, *memUserRepo) {
	repo := newMemUserRepo()
	return NewAuthService(repo, newTestJWT(), nil), repo
}

func registerAda(t *testing.T, svc *AuthService) *AuthResponse {
	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "ada@example.com",
		Name:     "Ada Lovelace",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return resp
}

func TestAuthService_Register(t *testing.T) {
	svc, repo := authFixture()

	resp := registerAda(t, svc)

	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.False(t, resp.User.IsAdmin)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)

	stored, err := repo.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.True(t, stored.CheckPassword("correct-horse"))
	assert.NotNil(t, stored.LastLoginAt)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := authFixture()
	registerAda(t, svc)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "ada@example.com",
		Name:     "Another Ada",
		Password: "different-pass",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := authFixture()
	registerAda(t, svc)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ada@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _ := authFixture()
	registerAda(t, svc)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong-password",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestAuthService_Login_UnknownEmailSameError(t *testing.T) {
	svc, _ := authFixture()
	registerAda(t, svc)

	_, wrongPass := svc.Login(context.Background(), LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong-password",
	})
	_, unknown := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	// Both failures read the same so the API does not leak which
	// accounts exist.
	require.Error(t, wrongPass)
	require.Error(t, unknown)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestAuthService_Login_DisabledAccount(t *testing.T) {
	svc, repo := authFixture()
	resp := registerAda(t, svc)

	user := repo.byID[resp.User.ID]
	user.Deactivate()

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ada@example.com",
		Password: "correct-horse",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}

func TestAuthService_Refresh(t *testing.T) {
	svc, _ := authFixture()
	resp := registerAda(t, svc)

	refreshed, err := svc.Refresh(context.Background(), RefreshRequest{
		RefreshToken: resp.Tokens.RefreshToken,
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.Tokens.AccessToken)
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	svc, _ := authFixture()
	resp := registerAda(t, svc)

	_, err := svc.Refresh(context.Background(), RefreshRequest{
		RefreshToken: resp.Tokens.AccessToken,
	})
	require.Error(t, err)
}

func TestAuthService_Refresh_DeletedAccount(t *testing.T) {
	svc, repo := authFixture()
	resp := registerAda(t, svc)

	require.NoError(t, repo.Delete(context.Background(), resp.User.ID))

	_, err := svc.Refresh(context.Background(), RefreshRequest{
		RefreshToken: resp.Tokens.RefreshToken,
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestAuthService_Me(t *testing.T) {
	svc, _ := authFixture()
	resp := registerAda(t, svc)

	me, err := svc.Me(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", me.Email)

	_, err = svc.Me(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, repo := authFixture()
	resp := registerAda(t, svc)

	err := svc.ChangePassword(context.Background(), resp.User.ID, ChangePasswordRequest{
		CurrentPassword: "wrong-password",
		NewPassword:     "new-password-1",
	})
	require.Error(t, err)

	err = svc.ChangePassword(context.Background(), resp.User.ID, ChangePasswordRequest{
		CurrentPassword: "correct-horse",
		NewPassword:     "new-password-1",
	})
	require.NoError(t, err)

	stored, err := repo.FindByID(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.True(t, stored.CheckPassword("new-password-1"))
	assert.False(t, stored.CheckPassword("correct-horse"))
}
