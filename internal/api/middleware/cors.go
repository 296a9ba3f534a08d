package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSMiddleware returns a CORS handler for origins. A "*" entry allows
// any origin without credentials.
func CORSMiddleware(origins []string) func(http.Handler) http.Handler {
	wildcard := false
	for _, origin := range origins {
		if origin == "*" {
			wildcard = true
		}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	})
}
