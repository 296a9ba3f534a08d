package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/teamfeedback/internal/domain/entities"
)

// FeedbackRequestService defines the feedback request operations used by the handler
type FeedbackRequestService interface {
	Create(ctx context.Context, employeeID string, message *string) (*entities.FeedbackRequest, error)
	GetByID(ctx context.Context, requestID int64) (*entities.FeedbackRequest, error)
	ListOpenForManager(ctx context.Context, managerID string) ([]*entities.FeedbackRequest, error)
	ListForEmployee(ctx context.Context, employeeID string) ([]*entities.FeedbackRequest, error)
	Close(ctx context.Context, requestID int64) (*entities.FeedbackRequest, error)
}

// FeedbackRequestHandler handles employees' requests for feedback
type FeedbackRequestHandler struct {
	service FeedbackRequestService
}

// NewFeedbackRequestHandler creates a new feedback request handler
func NewFeedbackRequestHandler(service FeedbackRequestService) *FeedbackRequestHandler {
	return &FeedbackRequestHandler{service: service}
}

type createFeedbackRequestRequest struct {
	Message *string `json:"message"`
}

// Create handles POST /api/feedback-requests
func (h *FeedbackRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok || !requireEmployee(w, identity) {
		return
	}

	var payload createFeedbackRequestRequest
	if !decodeJSON(w, r, &payload, true) {
		return
	}

	request, err := h.service.Create(r.Context(), identity.ID, payload.Message)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, request)
}

// ListPending handles GET /api/feedback-requests/pending
func (h *FeedbackRequestHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok || !requireManager(w, identity) {
		return
	}

	requests, err := h.service.ListOpenForManager(r.Context(), identity.ID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, requests)
}

// ListMine handles GET /api/feedback-requests/mine
func (h *FeedbackRequestHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok || !requireEmployee(w, identity) {
		return
	}

	requests, err := h.service.ListForEmployee(r.Context(), identity.ID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, requests)
}

// Close handles POST /api/feedback-requests/{id}/close
func (h *FeedbackRequestHandler) Close(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok || !requireManager(w, identity) {
		return
	}
	requestID, ok := pathInt64(w, r, "id")
	if !ok {
		return
	}

	request, err := h.service.GetByID(r.Context(), requestID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if request == nil {
		respondWithError(w, http.StatusNotFound, "feedback request not found")
		return
	}
	if request.ManagerID != identity.ID {
		respondWithError(w, http.StatusForbidden, "feedback request is addressed to another manager")
		return
	}

	closed, err := h.service.Close(r.Context(), requestID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if closed == nil {
		respondWithError(w, http.StatusNotFound, "feedback request not found")
		return
	}

	respondWithJSON(w, http.StatusOK, closed)
}
