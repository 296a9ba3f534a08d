package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/teamfeedback/internal/application/services"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
)

// UserService defines the identity operations used by the handlers
type UserService interface {
	Create(ctx context.Context, in services.CreateUserInput) (*entities.User, error)
	GetByID(ctx context.Context, id string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	ListTeam(ctx context.Context, managerID string) ([]*entities.User, error)
	ListUnassigned(ctx context.Context) ([]*entities.User, error)
	Assign(ctx context.Context, employeeID, managerID string) (*entities.User, error)
}

// UserHandler handles registration, lookup and manager assignment
type UserHandler struct {
	service UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Register handles POST /api/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in services.CreateUserInput
	if !decodeJSON(w, r, &in, false) {
		return
	}

	user, err := h.service.Create(r.Context(), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, user)
}

// Me handles GET /api/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetByID(r.Context(), identity.ID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

// GetByEmail handles GET /api/users/by-email/{email}
func (h *UserHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r); !ok {
		return
	}

	user, err := h.service.FindByEmail(r.Context(), r.PathValue("email"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if user == nil {
		respondWithError(w, http.StatusNotFound, "user not found")
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

// ListTeam handles GET /api/managers/{id}/team
func (h *UserHandler) ListTeam(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	managerID := r.PathValue("id")
	if !identity.IsManager() || identity.ID != managerID {
		respondWithError(w, http.StatusForbidden, "managers can only list their own team")
		return
	}

	team, err := h.service.ListTeam(r.Context(), managerID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, team)
}

// ListUnassigned handles GET /api/employees/unassigned
func (h *UserHandler) ListUnassigned(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok || !requireManager(w, identity) {
		return
	}

	employees, err := h.service.ListUnassigned(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, employees)
}

// Assign handles POST /api/managers/{id}/employees/{employeeId}
func (h *UserHandler) Assign(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	managerID := r.PathValue("id")
	if !identity.IsManager() || identity.ID != managerID {
		respondWithError(w, http.StatusForbidden, "managers can only assign employees to themselves")
		return
	}

	user, err := h.service.Assign(r.Context(), r.PathValue("employeeId"), managerID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}
