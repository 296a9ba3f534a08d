package handlers

import (
	"context"
	"mime"
	"net/http"

	"github.com/zatekoja/teamfeedback/internal/application/services"
)

// AuthService defines the login operation used by the handler
type AuthService interface {
	Login(ctx context.Context, email, password string) (*services.TokenResponse, error)
}

// AuthHandler issues access tokens
type AuthHandler struct {
	service AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/token. It accepts an OAuth2 password form
// (username, password) or a JSON body (email, password).
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid form payload")
			return
		}
		payload.Email = r.PostFormValue("username")
		payload.Password = r.PostFormValue("password")
	} else if !decodeJSON(w, r, &payload, false) {
		return
	}

	if payload.Email == "" || payload.Password == "" {
		respondWithError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, token)
}
