package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	"github.com/zatekoja/teamfeedback/internal/domain/repositories"
	apperrors "github.com/zatekoja/teamfeedback/pkg/errors"
)

// FeedbackRequestService manages employees' requests for feedback
type FeedbackRequestService struct {
	clock
	eventPublisher
	requests repositories.FeedbackRequestRepository
	users    repositories.UserRepository
}

// NewFeedbackRequestService creates a new feedback request service
func NewFeedbackRequestService(requests repositories.FeedbackRequestRepository, users repositories.UserRepository) *FeedbackRequestService {
	return &FeedbackRequestService{
		requests: requests,
		users:    users,
	}
}

// Create opens a request addressed to the employee's current manager
func (s *FeedbackRequestService) Create(ctx context.Context, employeeID string, message *string) (*entities.FeedbackRequest, error) {
	employee, err := s.users.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !employee.IsEmployee() {
		return nil, apperrors.NewForbiddenError("only employees can request feedback")
	}
	if employee.ManagerID == nil {
		return nil, apperrors.NewNoManagerAssignedError(employeeID)
	}

	if message != nil {
		trimmed := strings.TrimSpace(*message)
		message = &trimmed
		if trimmed == "" {
			message = nil
		}
	}

	request := &entities.FeedbackRequest{
		EmployeeID: employeeID,
		ManagerID:  *employee.ManagerID,
		Message:    message,
		IsOpen:     true,
		CreatedAt:  s.timestamp(),
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Int64("request_id", request.ID).Str("employee_id", employeeID).Msg("feedback requested")
	s.publish(ctx, entities.NewFeedbackRequestEvent(entities.FeedbackEventRequestCreated, request))

	return request, nil
}

// GetByID returns a request, or nil when unknown
func (s *FeedbackRequestService) GetByID(ctx context.Context, requestID int64) (*entities.FeedbackRequest, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if apperrors.IsNotFound(err) {
		return nil, nil
	}
	return request, err
}

// ListOpenForManager returns open requests addressed to managerID
func (s *FeedbackRequestService) ListOpenForManager(ctx context.Context, managerID string) ([]*entities.FeedbackRequest, error) {
	return s.requests.ListOpenByManager(ctx, managerID)
}

// ListForEmployee returns every request raised by employeeID
func (s *FeedbackRequestService) ListForEmployee(ctx context.Context, employeeID string) ([]*entities.FeedbackRequest, error) {
	return s.requests.ListByEmployee(ctx, employeeID)
}

// Close closes a request once. Unknown ids yield nil without error; a
// closed request is returned as it is.
func (s *FeedbackRequestService) Close(ctx context.Context, requestID int64) (*entities.FeedbackRequest, error) {
	closedAt := s.timestamp()
	request, err := s.requests.Close(ctx, requestID, closedAt)
	if apperrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if request.ClosedAt != nil && request.ClosedAt.Equal(closedAt) {
		s.publish(ctx, entities.NewFeedbackRequestEvent(entities.FeedbackEventRequestClosed, request))
	}
	return request, nil
}
