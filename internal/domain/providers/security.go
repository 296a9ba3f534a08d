package providers

import (
	"time"

	"github.com/zatekoja/teamfeedback/internal/domain/entities"
)

// PasswordHasher hashes and verifies user passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenClaims is the verified content of an access token
type TokenClaims struct {
	UserID    string
	Role      entities.Role
	Email     string
	ExpiresAt time.Time
}

// TokenManager issues and verifies bearer access tokens
type TokenManager interface {
	Issue(user *entities.User) (token string, expiresAt time.Time, err error)
	Verify(token string) (*TokenClaims, error)
}
