package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	"github.com/zatekoja/teamfeedback/internal/domain/providers"
	"github.com/zatekoja/teamfeedback/internal/domain/repositories"
	apperrors "github.com/zatekoja/teamfeedback/pkg/errors"
)

// TokenResponse is returned by a successful login
type TokenResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresAt   time.Time      `json:"expires_at"`
	User        *entities.User `json:"user"`
}

// AuthService exchanges credentials for bearer tokens and resolves tokens
// back to identities
type AuthService struct {
	users  repositories.UserRepository
	hasher providers.PasswordHasher
	tokens providers.TokenManager
}

// NewAuthService creates a new auth service
func NewAuthService(users repositories.UserRepository, hasher providers.PasswordHasher, tokens providers.TokenManager) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// Login verifies email and password and issues an access token
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, entities.NormalizeEmail(email))
	if apperrors.IsNotFound(err) {
		return nil, apperrors.NewUnauthenticatedError("invalid credentials")
	}
	if err != nil {
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		log.Ctx(ctx).Info().Str("user_id", user.ID).Msg("login rejected")
		return nil, apperrors.NewUnauthenticatedError("invalid credentials")
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue token", err)
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// Resolve verifies token and reloads its user so role and manager
// assignment are current
func (s *AuthService) Resolve(ctx context.Context, token string) (*entities.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.NewUnauthenticatedError("missing bearer token")
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if apperrors.IsNotFound(err) {
		return nil, apperrors.NewUnauthenticatedError("account no longer exists")
	}
	if err != nil {
		return nil, err
	}

	return entities.IdentityFromUser(user), nil
}
