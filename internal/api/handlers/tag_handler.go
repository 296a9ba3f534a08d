package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/teamfeedback/internal/domain/entities"
)

// TagService defines the tag catalog operations used by the handler
type TagService interface {
	List(ctx context.Context) ([]entities.Tag, error)
	GetOrCreate(ctx context.Context, names []string) ([]entities.Tag, error)
}

// TagHandler serves the shared tag catalog
type TagHandler struct {
	service TagService
}

// NewTagHandler creates a new tag handler
func NewTagHandler(service TagService) *TagHandler {
	return &TagHandler{service: service}
}

type createTagsRequest struct {
	Names []string `json:"names"`
}

// List handles GET /api/tags
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r); !ok {
		return
	}

	tags, err := h.service.List(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, tags)
}

// Create handles POST /api/tags
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok || !requireManager(w, identity) {
		return
	}

	var payload createTagsRequest
	if !decodeJSON(w, r, &payload, false) {
		return
	}
	if len(payload.Names) == 0 {
		respondWithError(w, http.StatusBadRequest, "names must not be empty")
		return
	}

	tags, err := h.service.GetOrCreate(r.Context(), payload.Names)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, tags)
}
