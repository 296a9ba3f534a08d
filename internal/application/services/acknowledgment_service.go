package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	"github.com/zatekoja/teamfeedback/internal/domain/repositories"
	apperrors "github.com/zatekoja/teamfeedback/pkg/errors"
)

// AcknowledgmentService records that employees have read their feedback
type AcknowledgmentService struct {
	clock
	eventPublisher
	acks     repositories.AcknowledgmentRepository
	feedback repositories.FeedbackRepository
}

// NewAcknowledgmentService creates a new acknowledgment service
func NewAcknowledgmentService(acks repositories.AcknowledgmentRepository, feedback repositories.FeedbackRepository) *AcknowledgmentService {
	return &AcknowledgmentService{
		acks:     acks,
		feedback: feedback,
	}
}

// Acknowledge creates or refreshes the acknowledgment of feedbackID.
// Only the recipient may acknowledge; a blank comment is stored as none.
func (s *AcknowledgmentService) Acknowledge(ctx context.Context, feedbackID, employeeID string, comment *string) (*entities.Acknowledgment, error) {
	feedback, err := s.feedback.GetByID(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	if feedback.EmployeeID != employeeID {
		return nil, apperrors.NewForbiddenError("only the recipient can acknowledge feedback")
	}

	if comment != nil {
		trimmed := strings.TrimSpace(*comment)
		comment = &trimmed
		if trimmed == "" {
			comment = nil
		}
	}

	ack := &entities.Acknowledgment{
		FeedbackID:     feedbackID,
		EmployeeID:     employeeID,
		Acknowledged:   true,
		Comment:        comment,
		AcknowledgedAt: s.timestamp(),
	}
	if err := s.acks.Upsert(ctx, ack); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Str("feedback_id", feedbackID).Str("employee_id", employeeID).Msg("feedback acknowledged")
	s.invalidateDashboards(ctx, feedback.ManagerID, feedback.EmployeeID)
	s.publish(ctx, entities.NewFeedbackEvent(entities.FeedbackEventAcknowledged, feedback))

	return ack, nil
}

// GetFor returns the acknowledgment of feedbackID by employeeID, or nil
func (s *AcknowledgmentService) GetFor(ctx context.Context, feedbackID, employeeID string) (*entities.Acknowledgment, error) {
	ack, err := s.acks.GetByFeedback(ctx, feedbackID, employeeID)
	if apperrors.IsNotFound(err) {
		return nil, nil
	}
	return ack, err
}
