package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/adapters/persistence/repositories"
	"somity-ledger/internal/config"
	"somity-ledger/internal/core/domain"
	"somity-ledger/internal/pkg/jwt"
	"somity-ledger/internal/pkg/password"
)

// AuthService handles phone + password login and token rotation
type AuthService struct {
	members       repositories.MemberRepository
	refreshTokens repositories.RefreshTokenRepository
	cfg           config.JWTConfig
	log           zerolog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	members repositories.MemberRepository,
	refreshTokens repositories.RefreshTokenRepository,
	cfg config.JWTConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		members:       members,
		refreshTokens: refreshTokens,
		cfg:           cfg,
		log:           log.With().Str("component", "auth").Logger(),
	}
}

// LoginInput represents login input
type LoginInput struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Member       *models.Member `json:"member"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	ExpiresIn    int            `json:"expires_in"`
}

// Login authenticates a member or staff account by phone
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	member, err := s.members.GetByPhone(ctx, strings.TrimSpace(input.Phone))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, member.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	if !member.IsActive() {
		return nil, domain.ErrAccountInactive
	}

	resp, err := s.issue(ctx, member)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("member_id", member.ID).Str("role", member.Role).Msg("✅ logged in")
	return resp, nil
}

// Refresh exchanges a live refresh token for a new pair. The old token is revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	hash := password.HashToken(refreshToken)
	stored, err := s.refreshTokens.GetByTokenHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if stored.IsExpired() {
		return nil, domain.ErrTokenExpired
	}
	if stored.UserID != claims.UserID {
		return nil, domain.ErrTokenInvalid
	}

	member, err := s.members.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	if !member.IsActive() {
		return nil, domain.ErrAccountInactive
	}

	// rotation
	if err := s.refreshTokens.RevokeByTokenHash(ctx, hash); err != nil {
		return nil, err
	}

	resp, err := s.issue(ctx, member)
	if err != nil {
		return nil, err
	}

	s.log.Debug().Str("member_id", member.ID).Msg("token refreshed")
	return resp, nil
}

// Logout revokes one refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.refreshTokens.RevokeByTokenHash(ctx, password.HashToken(refreshToken))
}

// LogoutAll revokes every session of a member
func (s *AuthService) LogoutAll(ctx context.Context, memberID string) error {
	if err := s.refreshTokens.RevokeAllByUserID(ctx, memberID); err != nil {
		return err
	}
	s.log.Info().Str("member_id", memberID).Msg("all sessions revoked")
	return nil
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	claims, err := jwt.ValidateAccessToken(accessToken, s.cfg.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

// CleanupExpiredTokens removes refresh tokens past their expiry
func (s *AuthService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	return s.refreshTokens.DeleteExpired(ctx)
}

func (s *AuthService) issue(ctx context.Context, member *models.Member) (*AuthResponse, error) {
	access, err := jwt.GenerateAccessToken(
		member.ID,
		member.Phone,
		member.Name,
		member.Role,
		s.cfg.Secret,
		s.cfg.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	tokenID := uuid.NewString()
	refresh, err := jwt.GenerateRefreshToken(member.ID, tokenID, s.cfg.RefreshSecret, s.cfg.RefreshTokenDays)
	if err != nil {
		return nil, err
	}

	if err := s.refreshTokens.Create(ctx, &models.RefreshToken{
		ID:        tokenID,
		UserID:    member.ID,
		TokenHash: password.HashToken(refresh),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.RefreshTokenDays),
		CreatedAt: time.Now(),
	}); err != nil {
		return nil, err
	}

	return &AuthResponse{
		Member:       member,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.cfg.AccessTokenMins * 60,
	}, nil
}
