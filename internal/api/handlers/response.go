package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/teamfeedback/internal/api/middleware"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	apperrors "github.com/zatekoja/teamfeedback/pkg/errors"
)

const maxBodyBytes = 1 << 20

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps an error's type to its status code. Internal
// messages are logged and replaced.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(apperrors.TypeOf(err))
	if status == http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		respondWithError(w, status, "internal server error")
		return
	}

	message := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	respondWithJSON(w, status, map[string]string{
		"error": message,
		"code":  string(apperrors.TypeOf(err)),
	})
}

func statusFor(t apperrors.ErrorType) int {
	switch t {
	case apperrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorTypeUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.ErrorTypeForbidden:
		return http.StatusForbidden
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeDuplicateEmail:
		return http.StatusConflict
	case apperrors.ErrorTypeNoManagerAssigned:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into dest. An empty body leaves dest
// untouched when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dest interface{}, allowEmpty bool) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dest)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}
	respondWithError(w, http.StatusBadRequest, "invalid request payload")
	return false
}

// caller returns the authenticated identity, answering 401 when absent
func caller(w http.ResponseWriter, r *http.Request) (*entities.Identity, bool) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return identity, true
}

func requireManager(w http.ResponseWriter, identity *entities.Identity) bool {
	if !identity.IsManager() {
		respondWithError(w, http.StatusForbidden, "manager role required")
		return false
	}
	return true
}

func requireEmployee(w http.ResponseWriter, identity *entities.Identity) bool {
	if !identity.IsEmployee() {
		respondWithError(w, http.StatusForbidden, "employee role required")
		return false
	}
	return true
}

func pathInt64(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
