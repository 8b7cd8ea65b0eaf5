package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/adapters/persistence/repositories"
	"somity-ledger/internal/config"
	"somity-ledger/internal/core/domain"
)

var testJWT = config.JWTConfig{
	Secret:           "access-secret",
	RefreshSecret:    "refresh-secret",
	AccessTokenMins:  15,
	RefreshTokenDays: 7,
}

func newAuthFixture(t *testing.T, status string) (*AuthService, *repositories.Store) {
	t.Helper()
	_, repos := newTestStore(t)
	hash, err := fastHash("secret1")
	require.NoError(t, err)
	require.NoError(t, repos.Members.Create(context.Background(), &models.Member{
		ID:           "m1",
		Name:         "Abdul",
		Phone:        "01711223344",
		PasswordHash: hash,
		Role:         string(domain.RoleCashier),
		Status:       status,
	}))
	return NewAuthService(repos.Members, repos.RefreshTokens, testJWT, nopLogger), repos
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthFixture(t, domain.MemberActive)

	resp, err := svc.Login(context.Background(), LoginInput{Phone: " 01711223344 ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "m1", resp.Member.ID)
	assert.Equal(t, 15*60, resp.ExpiresIn)

	claims, err := svc.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "m1", claims.UserID)
	assert.Equal(t, "cashier", claims.Role)
	assert.Equal(t, "Abdul", claims.Name)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		input   LoginInput
		wantErr error
	}{
		{"unknown phone", domain.MemberActive, LoginInput{Phone: "01900000000", Password: "secret1"}, domain.ErrInvalidCredentials},
		{"wrong password", domain.MemberActive, LoginInput{Phone: "01711223344", Password: "nope12"}, domain.ErrInvalidCredentials},
		{"inactive", domain.MemberInactive, LoginInput{Phone: "01711223344", Password: "secret1"}, domain.ErrAccountInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newAuthFixture(t, tt.status)
			_, err := svc.Login(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc, _ := newAuthFixture(t, domain.MemberActive)
	ctx := context.Background()

	first, err := svc.Login(ctx, LoginInput{Phone: "01711223344", Password: "secret1"})
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = svc.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh_DeactivatedAccount(t *testing.T) {
	svc, repos := newAuthFixture(t, domain.MemberActive)
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginInput{Phone: "01711223344", Password: "secret1"})
	require.NoError(t, err)

	inactive := domain.MemberInactive
	require.NoError(t, repos.Members.UpdateProfile(ctx, "m1", repositories.ProfileUpdate{Status: &inactive}))

	_, err = svc.Refresh(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrAccountInactive)
}

func TestLogoutAll(t *testing.T) {
	svc, _ := newAuthFixture(t, domain.MemberActive)
	ctx := context.Background()

	a, err := svc.Login(ctx, LoginInput{Phone: "01711223344", Password: "secret1"})
	require.NoError(t, err)
	b, err := svc.Login(ctx, LoginInput{Phone: "01711223344", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll(ctx, "m1"))

	_, err = svc.Refresh(ctx, a.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	_, err = svc.Refresh(ctx, b.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	svc, _ := newAuthFixture(t, domain.MemberActive)
	_, err := svc.ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
