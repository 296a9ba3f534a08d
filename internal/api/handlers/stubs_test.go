package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/zatekoja/teamfeedback/internal/api/middleware"
	"github.com/zatekoja/teamfeedback/internal/application/services"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	apperrors "github.com/zatekoja/teamfeedback/pkg/errors"
)

var (
	managerIdentity  = &entities.Identity{ID: "m-1", Role: entities.RoleManager, Email: "m-1@example.com"}
	employeeIdentity = &entities.Identity{ID: "e-1", Role: entities.RoleEmployee, Email: "e-1@example.com"}
)

func newRequest(method, target, body string, identity *entities.Identity) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if identity != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
	}
	return req
}

func strPtr(s string) *string {
	return &s
}

type stubAuthService struct {
	email, password string
	err             error
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*services.TokenResponse, error) {
	s.email, s.password = email, password
	if s.err != nil {
		return nil, s.err
	}
	return &services.TokenResponse{AccessToken: "signed", TokenType: "bearer", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

type stubUserService struct {
	users    map[string]*entities.User
	created  *services.CreateUserInput
	createFn func(in services.CreateUserInput) (*entities.User, error)
	assigned [2]string
}

func newStubUserService(users ...*entities.User) *stubUserService {
	s := &stubUserService{users: make(map[string]*entities.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *stubUserService) Create(ctx context.Context, in services.CreateUserInput) (*entities.User, error) {
	s.created = &in
	if s.createFn != nil {
		return s.createFn(in)
	}
	return &entities.User{ID: "u-new", Name: in.Name, Email: in.Email, Role: in.Role}, nil
}

func (s *stubUserService) GetByID(ctx context.Context, id string) (*entities.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

func (s *stubUserService) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	for _, u := range s.users {
		if u.Email == entities.NormalizeEmail(email) {
			return u, nil
		}
	}
	return nil, nil
}

func (s *stubUserService) ListTeam(ctx context.Context, managerID string) ([]*entities.User, error) {
	team := []*entities.User{}
	for _, u := range s.users {
		if u.ReportsTo(managerID) {
			team = append(team, u)
		}
	}
	return team, nil
}

func (s *stubUserService) ListUnassigned(ctx context.Context) ([]*entities.User, error) {
	return []*entities.User{}, nil
}

func (s *stubUserService) Assign(ctx context.Context, employeeID, managerID string) (*entities.User, error) {
	s.assigned = [2]string{employeeID, managerID}
	u, err := s.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	u.ManagerID = &managerID
	return u, nil
}

type stubFeedbackService struct {
	items     map[string]*entities.Feedback
	createErr error
	createdBy string
	input     services.CreateFeedbackInput
	patch     entities.FeedbackPatch
}

func (s *stubFeedbackService) Create(ctx context.Context, managerID string, in services.CreateFeedbackInput) (*entities.Feedback, error) {
	s.createdBy, s.input = managerID, in
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &entities.Feedback{ID: "fb-new", ManagerID: managerID, EmployeeID: in.EmployeeID, Sentiment: in.Sentiment, Tags: []entities.Tag{}}, nil
}

func (s *stubFeedbackService) Update(ctx context.Context, managerID, feedbackID string, patch entities.FeedbackPatch) (*entities.Feedback, error) {
	s.patch = patch
	f, ok := s.items[feedbackID]
	if !ok {
		return nil, apperrors.NewNotFoundError("feedback not found")
	}
	if f.ManagerID != managerID {
		return nil, apperrors.NewForbiddenError("only the author can edit feedback")
	}
	return f, nil
}

func (s *stubFeedbackService) GetByID(ctx context.Context, feedbackID string) (*entities.Feedback, error) {
	return s.items[feedbackID], nil
}

func (s *stubFeedbackService) ListForEmployee(ctx context.Context, employeeID string) ([]*entities.Feedback, error) {
	return s.filter(func(f *entities.Feedback) bool { return f.EmployeeID == employeeID }), nil
}

func (s *stubFeedbackService) ListForManager(ctx context.Context, managerID string) ([]*entities.Feedback, error) {
	return s.filter(func(f *entities.Feedback) bool { return f.ManagerID == managerID }), nil
}

func (s *stubFeedbackService) filter(keep func(*entities.Feedback) bool) []*entities.Feedback {
	out := []*entities.Feedback{}
	for _, f := range s.items {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

type stubAcknowledgmentService struct {
	acks    map[string]*entities.Acknowledgment
	comment *string
}

func (s *stubAcknowledgmentService) Acknowledge(ctx context.Context, feedbackID, employeeID string, comment *string) (*entities.Acknowledgment, error) {
	s.comment = comment
	if feedbackID == "fb-other" {
		return nil, apperrors.NewForbiddenError("only the recipient can acknowledge feedback")
	}
	ack := &entities.Acknowledgment{ID: 1, FeedbackID: feedbackID, EmployeeID: employeeID, Acknowledged: true, Comment: comment}
	if s.acks == nil {
		s.acks = make(map[string]*entities.Acknowledgment)
	}
	s.acks[feedbackID] = ack
	return ack, nil
}

func (s *stubAcknowledgmentService) GetFor(ctx context.Context, feedbackID, employeeID string) (*entities.Acknowledgment, error) {
	return s.acks[feedbackID], nil
}

type stubFeedbackRequestService struct {
	requests map[int64]*entities.FeedbackRequest
	message  *string
	err      error
	closed   []int64
}

func (s *stubFeedbackRequestService) Create(ctx context.Context, employeeID string, message *string) (*entities.FeedbackRequest, error) {
	s.message = message
	if s.err != nil {
		return nil, s.err
	}
	return &entities.FeedbackRequest{ID: 9, EmployeeID: employeeID, ManagerID: "m-1", Message: message, IsOpen: true}, nil
}

func (s *stubFeedbackRequestService) GetByID(ctx context.Context, requestID int64) (*entities.FeedbackRequest, error) {
	return s.requests[requestID], nil
}

func (s *stubFeedbackRequestService) ListOpenForManager(ctx context.Context, managerID string) ([]*entities.FeedbackRequest, error) {
	return []*entities.FeedbackRequest{}, nil
}

func (s *stubFeedbackRequestService) ListForEmployee(ctx context.Context, employeeID string) ([]*entities.FeedbackRequest, error) {
	return []*entities.FeedbackRequest{}, nil
}

func (s *stubFeedbackRequestService) Close(ctx context.Context, requestID int64) (*entities.FeedbackRequest, error) {
	s.closed = append(s.closed, requestID)
	request := s.requests[requestID]
	if request != nil {
		request.IsOpen = false
	}
	return request, nil
}

type stubDashboardService struct {
	err error
}

func (s *stubDashboardService) ManagerStats(ctx context.Context, managerID string) (*entities.ManagerStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entities.ManagerStats{ManagerID: managerID, SentimentTrends: entities.NewSentimentTrends()}, nil
}

func (s *stubDashboardService) EmployeeDashboard(ctx context.Context, employeeID string) (*entities.EmployeeDashboard, error) {
	return &entities.EmployeeDashboard{EmployeeID: employeeID, Timeline: []*entities.Feedback{}}, nil
}
