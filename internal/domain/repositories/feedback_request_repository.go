package repositories

import (
	"context"
	"time"

	"github.com/zatekoja/teamfeedback/internal/domain/entities"
)

// FeedbackRequestRepository defines the interface for feedback request operations
type FeedbackRequestRepository interface {
	// Create inserts a request and sets its ID
	Create(ctx context.Context, request *entities.FeedbackRequest) error

	// GetByID retrieves a request by ID
	GetByID(ctx context.Context, id int64) (*entities.FeedbackRequest, error)

	// ListOpenByManager retrieves open requests addressed to managerID, newest first
	ListOpenByManager(ctx context.Context, managerID string) ([]*entities.FeedbackRequest, error)

	// ListByEmployee retrieves requests made by employeeID, newest first
	ListByEmployee(ctx context.Context, employeeID string) ([]*entities.FeedbackRequest, error)

	// Close marks an open request closed at closedAt and returns it.
	// A closed request is returned unchanged.
	Close(ctx context.Context, id int64, closedAt time.Time) (*entities.FeedbackRequest, error)
}
