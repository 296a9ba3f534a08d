package repositories

import (
	"context"
	"time"

	"github.com/zatekoja/teamfeedback/internal/domain/entities"
)

// FeedbackRepository defines the interface for feedback operations.
// Reads return records with tags and acknowledgment state joined,
// newest first.
type FeedbackRepository interface {
	// Create inserts feedback and its tag links. When feedback.RequestID is
	// set the request is closed in the same transaction.
	Create(ctx context.Context, feedback *entities.Feedback, tagIDs []int64) error

	// Update applies patch and sets updated_at
	Update(ctx context.Context, id string, patch entities.FeedbackPatch, updatedAt time.Time) error

	// GetByID retrieves feedback by ID
	GetByID(ctx context.Context, id string) (*entities.Feedback, error)

	// ListByEmployee retrieves feedback received by employeeID
	ListByEmployee(ctx context.Context, employeeID string) ([]*entities.Feedback, error)

	// ListByManager retrieves feedback written by managerID
	ListByManager(ctx context.Context, managerID string) ([]*entities.Feedback, error)
}
