package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/teamfeedback/internal/api/handlers"
	apperrors "github.com/zatekoja/teamfeedback/pkg/errors"
)

func TestAuthHandler_Login_JSON(t *testing.T) {
	service := &stubAuthService{}
	handler := handlers.NewAuthHandler(service)

	w := httptest.NewRecorder()
	handler.Login(w, newRequest(http.MethodPost, "/api/token", `{"email":"ada@example.com","password":"secret-pass"}`, nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "signed", body["access_token"])
	assert.Equal(t, "bearer", body["token_type"])
	assert.Equal(t, "ada@example.com", service.email)
}

func TestAuthHandler_Login_Form(t *testing.T) {
	service := &stubAuthService{}
	handler := handlers.NewAuthHandler(service)

	form := url.Values{"username": {"ada@example.com"}, "password": {"secret-pass"}}
	req := httptest.NewRequest(http.MethodPost, "/api/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	handler.Login(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ada@example.com", service.email)
	assert.Equal(t, "secret-pass", service.password)
}

func TestAuthHandler_Login_Rejected(t *testing.T) {
	handler := handlers.NewAuthHandler(&stubAuthService{err: apperrors.NewUnauthenticatedError("invalid credentials")})

	w := httptest.NewRecorder()
	handler.Login(w, newRequest(http.MethodPost, "/api/token", `{"email":"ada@example.com","password":"wrong"}`, nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	handler := handlers.NewAuthHandler(&stubAuthService{})

	w := httptest.NewRecorder()
	handler.Login(w, newRequest(http.MethodPost, "/api/token", `{"email":"ada@example.com"}`, nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
