package routes

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/zatekoja/teamfeedback/internal/api/handlers"
	"github.com/zatekoja/teamfeedback/internal/api/middleware"
	"github.com/zatekoja/teamfeedback/internal/infrastructure/observability"
)

// Handlers groups every route handler
type Handlers struct {
	Auth            *handlers.AuthHandler
	Users           *handlers.UserHandler
	Tags            *handlers.TagHandler
	Feedback        *handlers.FeedbackHandler
	FeedbackRequest *handlers.FeedbackRequestHandler
	Dashboard       *handlers.DashboardHandler
	Health          *handlers.HealthHandler
}

// Router holds all route handlers
type Router struct {
	mux            *http.ServeMux
	handlers       Handlers
	resolver       middleware.IdentityResolver
	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(h Handlers, resolver middleware.IdentityResolver, allowedOrigins []string, metrics *observability.Metrics) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		handlers:       h,
		resolver:       resolver,
		allowedOrigins: allowedOrigins,
		metrics:        metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	authenticated := middleware.Authenticate(r.resolver)
	protect := func(pattern string, h http.HandlerFunc) {
		r.mux.Handle(pattern, authenticated(h))
	}

	// Public endpoints
	r.mux.HandleFunc("GET /health", r.handlers.Health.Health)
	r.mux.HandleFunc("POST /api/token", r.handlers.Auth.Login)
	r.mux.HandleFunc("POST /api/users", r.handlers.Users.Register)

	// Identity endpoints
	protect("GET /api/users/me", r.handlers.Users.Me)
	protect("GET /api/users/by-email/{email}", r.handlers.Users.GetByEmail)
	protect("GET /api/managers/{id}/team", r.handlers.Users.ListTeam)
	protect("GET /api/employees/unassigned", r.handlers.Users.ListUnassigned)
	protect("POST /api/managers/{id}/employees/{employeeId}", r.handlers.Users.Assign)

	// Tag catalog endpoints
	protect("GET /api/tags", r.handlers.Tags.List)
	protect("POST /api/tags", r.handlers.Tags.Create)

	// Feedback endpoints
	protect("POST /api/feedback", r.handlers.Feedback.Create)
	protect("GET /api/feedback/{id}", r.handlers.Feedback.Get)
	protect("PATCH /api/feedback/{id}", r.handlers.Feedback.Update)
	protect("PUT /api/feedback/{id}", r.handlers.Feedback.Update)
	protect("GET /api/employees/{id}/feedback", r.handlers.Feedback.ListForEmployee)
	protect("GET /api/managers/{id}/feedback", r.handlers.Feedback.ListForManager)
	protect("POST /api/feedback/{id}/acknowledge", r.handlers.Feedback.Acknowledge)
	protect("GET /api/feedback/{id}/acknowledgment", r.handlers.Feedback.GetAcknowledgment)

	// Feedback request endpoints
	protect("POST /api/feedback-requests", r.handlers.FeedbackRequest.Create)
	protect("GET /api/feedback-requests/pending", r.handlers.FeedbackRequest.ListPending)
	protect("GET /api/feedback-requests/mine", r.handlers.FeedbackRequest.ListMine)
	protect("POST /api/feedback-requests/{id}/close", r.handlers.FeedbackRequest.Close)

	// Dashboard endpoints
	protect("GET /api/dashboard/manager", r.handlers.Dashboard.Manager)
	protect("GET /api/dashboard/employee", r.handlers.Dashboard.Employee)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = chimiddleware.Compress(5, "application/json")(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = chimiddleware.Recoverer(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = chimiddleware.RequestID(handler)

	return handler
}
