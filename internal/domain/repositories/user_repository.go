package repositories

import (
	"context"
	"time"

	"github.com/zatekoja/teamfeedback/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user; a taken email yields a DUPLICATE_EMAIL error
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByEmail retrieves a user by normalised email
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// ListByManager retrieves the employees assigned to managerID
	ListByManager(ctx context.Context, managerID string) ([]*entities.User, error)

	// ListUnassigned retrieves employees without a manager
	ListUnassigned(ctx context.Context) ([]*entities.User, error)

	// AssignManager sets the manager of an employee and returns the updated record.
	// Returns NOT_FOUND when employeeID is not an employee.
	AssignManager(ctx context.Context, employeeID, managerID string, updatedAt time.Time) (*entities.User, error)
}
