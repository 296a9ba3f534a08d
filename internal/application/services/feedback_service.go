package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	"github.com/zatekoja/teamfeedback/internal/domain/repositories"
	apperrors "github.com/zatekoja/teamfeedback/pkg/errors"
)

// CreateFeedbackInput carries a new feedback item. TagNames are resolved
// through the catalog and created when missing; TagIDs must already exist.
type CreateFeedbackInput struct {
	EmployeeID   string             `json:"employee_id"`
	Strengths    string             `json:"strengths"`
	Improvements string             `json:"improvements"`
	Sentiment    entities.Sentiment `json:"sentiment"`
	TagIDs       []int64            `json:"tag_ids,omitempty"`
	TagNames     []string           `json:"tags,omitempty"`
	RequestID    *int64             `json:"request_id,omitempty"`
}

// FeedbackService handles feedback business logic
type FeedbackService struct {
	clock
	eventPublisher
	feedback repositories.FeedbackRepository
	users    repositories.UserRepository
	requests repositories.FeedbackRequestRepository
	tags     *TagService
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(
	feedback repositories.FeedbackRepository,
	users repositories.UserRepository,
	requests repositories.FeedbackRequestRepository,
	tags *TagService,
) *FeedbackService {
	return &FeedbackService{
		feedback: feedback,
		users:    users,
		requests: requests,
		tags:     tags,
	}
}

// Create records feedback from managerID about one of their employees.
// When in.RequestID is set the cited request must be open, addressed to
// managerID and raised by the same employee; it is closed with the insert.
func (s *FeedbackService) Create(ctx context.Context, managerID string, in CreateFeedbackInput) (*entities.Feedback, error) {
	manager, err := s.users.GetByID(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if !manager.IsManager() {
		return nil, apperrors.NewForbiddenError("only managers can give feedback")
	}

	employee, err := s.users.GetByID(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if !employee.ReportsTo(managerID) {
		return nil, apperrors.NewForbiddenError("employee is not on your team")
	}

	if !in.Sentiment.Valid() {
		return nil, apperrors.NewValidationError("sentiment must be positive, neutral or negative")
	}

	// Named tags are committed to the catalog on resolution, so every
	// other check runs first.
	if in.RequestID != nil {
		if err := s.checkRequest(ctx, *in.RequestID, managerID, in.EmployeeID); err != nil {
			return nil, err
		}
	}

	tagIDs, err := s.resolveTags(ctx, in.TagIDs, in.TagNames)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	feedback := &entities.Feedback{
		ID:           uuid.New().String(),
		EmployeeID:   in.EmployeeID,
		ManagerID:    managerID,
		Strengths:    strings.TrimSpace(in.Strengths),
		Improvements: strings.TrimSpace(in.Improvements),
		Sentiment:    in.Sentiment,
		RequestID:    in.RequestID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.feedback.Create(ctx, feedback, tagIDs); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("feedback_id", feedback.ID).
		Str("manager_id", managerID).
		Str("employee_id", in.EmployeeID).
		Msg("feedback created")
	s.invalidateDashboards(ctx, managerID, in.EmployeeID)

	s.publish(ctx, entities.NewFeedbackEvent(entities.FeedbackEventCreated, feedback))
	if in.RequestID != nil {
		s.publish(ctx, entities.NewFeedbackRequestEvent(entities.FeedbackEventRequestClosed, &entities.FeedbackRequest{
			ID:         *in.RequestID,
			EmployeeID: in.EmployeeID,
			ManagerID:  managerID,
		}))
	}

	return s.feedback.GetByID(ctx, feedback.ID)
}

func (s *FeedbackService) checkRequest(ctx context.Context, requestID int64, managerID, employeeID string) error {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.ManagerID != managerID {
		return apperrors.NewForbiddenError("feedback request is addressed to another manager")
	}
	if request.EmployeeID != employeeID {
		return apperrors.NewValidationError("feedback request was raised by another employee")
	}
	if !request.IsOpen {
		return apperrors.NewValidationError(fmt.Sprintf("feedback request %d is already closed", requestID))
	}
	return nil
}

func (s *FeedbackService) resolveTags(ctx context.Context, ids []int64, names []string) ([]int64, error) {
	resolved, err := s.tags.Resolve(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return resolved, nil
	}

	named, err := s.tags.GetOrCreate(ctx, names)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool, len(resolved)+len(named))
	for _, id := range resolved {
		seen[id] = true
	}
	for _, tag := range named {
		if !seen[tag.ID] {
			seen[tag.ID] = true
			resolved = append(resolved, tag.ID)
		}
	}
	return resolved, nil
}

// Update applies patch to feedback written by managerID
func (s *FeedbackService) Update(ctx context.Context, managerID, feedbackID string, patch entities.FeedbackPatch) (*entities.Feedback, error) {
	current, err := s.feedback.GetByID(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	if current.ManagerID != managerID {
		return nil, apperrors.NewForbiddenError("only the author can edit feedback")
	}

	if patch.Sentiment != nil && !patch.Sentiment.Valid() {
		return nil, apperrors.NewValidationError("sentiment must be positive, neutral or negative")
	}
	if patch.Strengths != nil {
		trimmed := strings.TrimSpace(*patch.Strengths)
		patch.Strengths = &trimmed
	}
	if patch.Improvements != nil {
		trimmed := strings.TrimSpace(*patch.Improvements)
		patch.Improvements = &trimmed
	}
	if patch.TagIDs != nil {
		if patch.TagIDs, err = s.tags.Resolve(ctx, patch.TagIDs); err != nil {
			return nil, err
		}
	}

	if err := s.feedback.Update(ctx, feedbackID, patch, s.after(current.UpdatedAt)); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Str("feedback_id", feedbackID).Msg("feedback updated")
	s.invalidateDashboards(ctx, current.ManagerID, current.EmployeeID)
	s.publish(ctx, entities.NewFeedbackEvent(entities.FeedbackEventUpdated, current))

	return s.feedback.GetByID(ctx, feedbackID)
}

// GetByID returns feedback with tags and acknowledgment, or nil when unknown
func (s *FeedbackService) GetByID(ctx context.Context, feedbackID string) (*entities.Feedback, error) {
	feedback, err := s.feedback.GetByID(ctx, feedbackID)
	if apperrors.IsNotFound(err) {
		return nil, nil
	}
	return feedback, err
}

// ListForEmployee returns feedback received by employeeID, newest first
func (s *FeedbackService) ListForEmployee(ctx context.Context, employeeID string) ([]*entities.Feedback, error) {
	return s.feedback.ListByEmployee(ctx, employeeID)
}

// ListForManager returns feedback written by managerID, newest first
func (s *FeedbackService) ListForManager(ctx context.Context, managerID string) ([]*entities.Feedback, error) {
	return s.feedback.ListByManager(ctx, managerID)
}
