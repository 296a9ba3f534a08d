package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	"github.com/zatekoja/teamfeedback/internal/domain/providers"
	apperrors "github.com/zatekoja/teamfeedback/pkg/errors"
)

type accessClaims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies HS256 access tokens
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

var _ providers.TokenManager = (*JWTManager)(nil)

// NewJWTManager creates a token manager
func NewJWTManager(secret string, ttl time.Duration, issuer string) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}
}

// Issue signs an access token for user
func (m *JWTManager) Issue(user *entities.User) (string, time.Time, error) {
	issuedAt := m.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(m.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Role:  string(user.Role),
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses token and checks signature, issuer and expiry
func (m *JWTManager) Verify(token string) (*providers.TokenClaims, error) {
	var claims accessClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, apperrors.NewUnauthenticatedError("invalid or expired token")
	}
	if claims.Subject == "" {
		return nil, apperrors.NewUnauthenticatedError("token has no subject")
	}

	return &providers.TokenClaims{
		UserID:    claims.Subject,
		Role:      entities.Role(claims.Role),
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
