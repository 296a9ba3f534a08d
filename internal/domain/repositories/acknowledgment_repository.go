package repositories

import (
	"context"

	"github.com/zatekoja/teamfeedback/internal/domain/entities"
)

// AcknowledgmentRepository defines the interface for acknowledgment operations
type AcknowledgmentRepository interface {
	// Upsert creates the acknowledgment for ack.FeedbackID or overwrites the
	// existing one. ack.ID is set on return.
	Upsert(ctx context.Context, ack *entities.Acknowledgment) error

	// GetByFeedback retrieves the acknowledgment of feedbackID made by employeeID
	GetByFeedback(ctx context.Context, feedbackID, employeeID string) (*entities.Acknowledgment, error)
}
