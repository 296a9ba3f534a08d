package security

import (
	"errors"
	"fmt"

	"github.com/zatekoja/teamfeedback/internal/domain/providers"
	apperrors "github.com/zatekoja/teamfeedback/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher implements PasswordHasher with bcrypt
type BcryptHasher struct {
	cost int
}

var _ providers.PasswordHasher = (*BcryptHasher)(nil)

// NewBcryptHasher creates a hasher; a cost outside bcrypt's range falls
// back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the bcrypt hash of password
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperrors.NewValidationError("password is too long")
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Compare returns an UNAUTHENTICATED error when password does not match hash
func (h *BcryptHasher) Compare(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return apperrors.NewUnauthenticatedError("invalid credentials")
	}
	return nil
}
