package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/teamfeedback/internal/api/handlers"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	apperrors "github.com/zatekoja/teamfeedback/pkg/errors"
)

func TestFeedbackRequestHandler_Create(t *testing.T) {
	service := &stubFeedbackRequestService{}
	handler := handlers.NewFeedbackRequestHandler(service)

	w := httptest.NewRecorder()
	handler.Create(w, newRequest(http.MethodPost, "/api/feedback-requests", `{"message":"How am I doing?"}`, employeeIdentity))

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, service.message)
	assert.Equal(t, "How am I doing?", *service.message)
}

func TestFeedbackRequestHandler_Create_NoManager(t *testing.T) {
	handler := handlers.NewFeedbackRequestHandler(&stubFeedbackRequestService{err: apperrors.NewNoManagerAssignedError("e-1")})

	w := httptest.NewRecorder()
	handler.Create(w, newRequest(http.MethodPost, "/api/feedback-requests", "", employeeIdentity))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "NO_MANAGER_ASSIGNED")
}

func TestFeedbackRequestHandler_RoleGating(t *testing.T) {
	handler := handlers.NewFeedbackRequestHandler(&stubFeedbackRequestService{})

	w := httptest.NewRecorder()
	handler.Create(w, newRequest(http.MethodPost, "/api/feedback-requests", "", managerIdentity))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	handler.ListPending(w, newRequest(http.MethodGet, "/api/feedback-requests/pending", "", employeeIdentity))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	handler.ListMine(w, newRequest(http.MethodGet, "/api/feedback-requests/mine", "", managerIdentity))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	handler.ListPending(w, newRequest(http.MethodGet, "/api/feedback-requests/pending", "", managerIdentity))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFeedbackRequestHandler_Close(t *testing.T) {
	tests := []struct {
		name       string
		pathID     string
		wantStatus int
		wantClosed bool
	}{
		{name: "addressed manager", pathID: "3", wantStatus: http.StatusOK, wantClosed: true},
		{name: "another manager's request", pathID: "4", wantStatus: http.StatusForbidden},
		{name: "unknown request", pathID: "404", wantStatus: http.StatusNotFound},
		{name: "malformed id", pathID: "abc", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &stubFeedbackRequestService{requests: map[int64]*entities.FeedbackRequest{
				3: {ID: 3, EmployeeID: "e-1", ManagerID: "m-1", IsOpen: true},
				4: {ID: 4, EmployeeID: "e-2", ManagerID: "m-2", IsOpen: true},
			}}
			handler := handlers.NewFeedbackRequestHandler(service)

			req := newRequest(http.MethodPost, "/api/feedback-requests/"+tt.pathID+"/close", "", managerIdentity)
			req.SetPathValue("id", tt.pathID)
			w := httptest.NewRecorder()
			handler.Close(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantClosed, len(service.closed) == 1)
		})
	}
}
