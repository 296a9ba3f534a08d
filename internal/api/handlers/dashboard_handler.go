package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/teamfeedback/internal/domain/entities"
)

// DashboardService defines the dashboard operations used by the handler
type DashboardService interface {
	ManagerStats(ctx context.Context, managerID string) (*entities.ManagerStats, error)
	EmployeeDashboard(ctx context.Context, employeeID string) (*entities.EmployeeDashboard, error)
}

// DashboardHandler serves the caller's own dashboard
type DashboardHandler struct {
	service DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Manager handles GET /api/dashboard/manager
func (h *DashboardHandler) Manager(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok || !requireManager(w, identity) {
		return
	}

	stats, err := h.service.ManagerStats(r.Context(), identity.ID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// Employee handles GET /api/dashboard/employee
func (h *DashboardHandler) Employee(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok || !requireEmployee(w, identity) {
		return
	}

	dashboard, err := h.service.EmployeeDashboard(r.Context(), identity.ID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, dashboard)
}
