package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/teamfeedback/internal/application/services"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
)

// FeedbackService defines the feedback operations used by the handler
type FeedbackService interface {
	Create(ctx context.Context, managerID string, in services.CreateFeedbackInput) (*entities.Feedback, error)
	Update(ctx context.Context, managerID, feedbackID string, patch entities.FeedbackPatch) (*entities.Feedback, error)
	GetByID(ctx context.Context, feedbackID string) (*entities.Feedback, error)
	ListForEmployee(ctx context.Context, employeeID string) ([]*entities.Feedback, error)
	ListForManager(ctx context.Context, managerID string) ([]*entities.Feedback, error)
}

// AcknowledgmentService defines the acknowledgment operations used by the handler
type AcknowledgmentService interface {
	Acknowledge(ctx context.Context, feedbackID, employeeID string, comment *string) (*entities.Acknowledgment, error)
	GetFor(ctx context.Context, feedbackID, employeeID string) (*entities.Acknowledgment, error)
}

// UserLookup resolves users for access checks
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*entities.User, error)
}

// FeedbackHandler handles feedback and acknowledgment requests
type FeedbackHandler struct {
	feedback FeedbackService
	acks     AcknowledgmentService
	users    UserLookup
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedback FeedbackService, acks AcknowledgmentService, users UserLookup) *FeedbackHandler {
	return &FeedbackHandler{
		feedback: feedback,
		acks:     acks,
		users:    users,
	}
}

type acknowledgeRequest struct {
	Comment *string `json:"comment"`
}

// Create handles POST /api/feedback
func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok || !requireManager(w, identity) {
		return
	}

	var in services.CreateFeedbackInput
	if !decodeJSON(w, r, &in, false) {
		return
	}
	if in.EmployeeID == "" {
		respondWithError(w, http.StatusBadRequest, "employee_id is required")
		return
	}

	feedback, err := h.feedback.Create(r.Context(), identity.ID, in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, feedback)
}

// Get handles GET /api/feedback/{id}
func (h *FeedbackHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	feedback, ok := h.load(w, r, identity)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, feedback)
}

// Update handles PATCH and PUT /api/feedback/{id}
func (h *FeedbackHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok || !requireManager(w, identity) {
		return
	}

	var patch entities.FeedbackPatch
	if !decodeJSON(w, r, &patch, false) {
		return
	}

	feedback, err := h.feedback.Update(r.Context(), identity.ID, r.PathValue("id"), patch)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, feedback)
}

// ListForEmployee handles GET /api/employees/{id}/feedback. The employee and
// their current manager may read it.
func (h *FeedbackHandler) ListForEmployee(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	employeeID := r.PathValue("id")
	if identity.ID != employeeID {
		if !identity.IsManager() {
			respondWithError(w, http.StatusForbidden, "employees can only read their own feedback")
			return
		}
		employee, err := h.users.GetByID(r.Context(), employeeID)
		if err != nil {
			respondWithAppError(w, r, err)
			return
		}
		if !employee.ReportsTo(identity.ID) {
			respondWithError(w, http.StatusForbidden, "employee is not on your team")
			return
		}
	}

	items, err := h.feedback.ListForEmployee(r.Context(), employeeID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, items)
}

// ListForManager handles GET /api/managers/{id}/feedback
func (h *FeedbackHandler) ListForManager(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	managerID := r.PathValue("id")
	if !identity.IsManager() || identity.ID != managerID {
		respondWithError(w, http.StatusForbidden, "managers can only list their own feedback")
		return
	}

	items, err := h.feedback.ListForManager(r.Context(), managerID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, items)
}

// Acknowledge handles POST /api/feedback/{id}/acknowledge
func (h *FeedbackHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok || !requireEmployee(w, identity) {
		return
	}

	var payload acknowledgeRequest
	if !decodeJSON(w, r, &payload, true) {
		return
	}

	ack, err := h.acks.Acknowledge(r.Context(), r.PathValue("id"), identity.ID, payload.Comment)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ack)
}

// GetAcknowledgment handles GET /api/feedback/{id}/acknowledgment
func (h *FeedbackHandler) GetAcknowledgment(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	feedback, ok := h.load(w, r, identity)
	if !ok {
		return
	}

	ack, err := h.acks.GetFor(r.Context(), feedback.ID, feedback.EmployeeID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if ack == nil {
		respondWithError(w, http.StatusNotFound, "feedback has not been acknowledged")
		return
	}

	respondWithJSON(w, http.StatusOK, ack)
}

// load fetches the feedback named in the path, visible to its author and
// recipient only
func (h *FeedbackHandler) load(w http.ResponseWriter, r *http.Request, identity *entities.Identity) (*entities.Feedback, bool) {
	feedback, err := h.feedback.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return nil, false
	}
	if feedback == nil {
		respondWithError(w, http.StatusNotFound, "feedback not found")
		return nil, false
	}
	if feedback.ManagerID != identity.ID && feedback.EmployeeID != identity.ID {
		respondWithError(w, http.StatusForbidden, "feedback belongs to someone else")
		return nil, false
	}
	return feedback, true
}
