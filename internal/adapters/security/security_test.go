package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	apperrors "github.com/zatekoja/teamfeedback/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, hasher.Compare(hash, "s3cret-pass"))

	err = hasher.Compare(hash, "wrong")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthenticated))
}

func testUser() *entities.User {
	return &entities.User{ID: "u-1", Email: "ada@example.com", Role: entities.RoleManager}
}

func TestJWTManager_IssueAndVerify(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour, "team-feedback")

	token, expiresAt, err := manager.Issue(testUser())
	require.NoError(t, err)

	claims, err := manager.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, entities.RoleManager, claims.Role)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.True(t, claims.ExpiresAt.Equal(expiresAt))
}

func TestJWTManager_RejectsExpiredToken(t *testing.T) {
	manager := NewJWTManager("secret", time.Minute, "team-feedback")
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return issued }

	token, _, err := manager.Issue(testUser())
	require.NoError(t, err)

	manager.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = manager.Verify(token)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthenticated))
}

func TestJWTManager_RejectsForeignTokens(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour, "team-feedback")

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name: "other secret",
			token: func(t *testing.T) string {
				token, _, err := NewJWTManager("other", time.Hour, "team-feedback").Issue(testUser())
				require.NoError(t, err)
				return token
			},
		},
		{
			name: "other issuer",
			token: func(t *testing.T) string {
				token, _, err := NewJWTManager("secret", time.Hour, "someone-else").Issue(testUser())
				require.NoError(t, err)
				return token
			},
		},
		{
			name: "unsigned",
			token: func(t *testing.T) string {
				token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
					"sub": "u-1",
					"iss": "team-feedback",
					"exp": time.Now().Add(time.Hour).Unix(),
				}).SignedString(jwt.UnsafeAllowNoneSignatureType)
				require.NoError(t, err)
				return token
			},
		},
		{
			name:  "garbage",
			token: func(t *testing.T) string { return "not-a-token" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manager.Verify(tt.token(t))
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthenticated))
		})
	}
}
