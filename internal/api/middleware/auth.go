package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	apperrors "github.com/zatekoja/teamfeedback/pkg/errors"
)

type identityKey struct{}

// IdentityResolver turns a bearer token into the caller's identity
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*entities.Identity, error)
}

// WithIdentity returns a copy of ctx carrying identity
func WithIdentity(ctx context.Context, identity *entities.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the authenticated caller, or nil
func IdentityFromContext(ctx context.Context) *entities.Identity {
	identity, _ := ctx.Value(identityKey{}).(*entities.Identity)
	return identity
}

// Authenticate rejects requests without a valid bearer token and stores
// the resolved identity in the request context.
func Authenticate(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}

			identity, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				if !apperrors.IsType(err, apperrors.ErrorTypeUnauthenticated) {
					log.Ctx(r.Context()).Error().Err(err).Msg("failed to resolve identity")
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
					return
				}
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			logger := log.Ctx(ctx).With().Str("user_id", identity.ID).Logger()
			next.ServeHTTP(w, r.WithContext(logger.WithContext(ctx)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
