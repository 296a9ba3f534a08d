package services

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	"github.com/zatekoja/teamfeedback/internal/domain/providers"
	"github.com/zatekoja/teamfeedback/internal/domain/repositories"
	apperrors "github.com/zatekoja/teamfeedback/pkg/errors"
)

// MinPasswordLength is the shortest password accepted at sign-up
const MinPasswordLength = 8

// CreateUserInput carries the fields of a new account
type CreateUserInput struct {
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Password  string        `json:"password"`
	Role      entities.Role `json:"role"`
	ManagerID *string       `json:"manager_id,omitempty"`
}

// IdentityService manages users and manager assignment
type IdentityService struct {
	clock
	users  repositories.UserRepository
	hasher providers.PasswordHasher
}

// NewIdentityService creates a new identity service
func NewIdentityService(users repositories.UserRepository, hasher providers.PasswordHasher) *IdentityService {
	return &IdentityService{
		users:  users,
		hasher: hasher,
	}
}

// FindByEmail returns the user with email, or nil when there is none
func (s *IdentityService) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	user, err := s.users.GetByEmail(ctx, entities.NormalizeEmail(email))
	if apperrors.IsNotFound(err) {
		return nil, nil
	}
	return user, err
}

// GetByID retrieves a user
func (s *IdentityService) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return s.users.GetByID(ctx, id)
}

// Create registers a user. The manager of an employee is optional but must
// be an existing manager when given; it is ignored for managers.
func (s *IdentityService) Create(ctx context.Context, in CreateUserInput) (*entities.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	email := entities.NormalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.NewValidationError("email is invalid")
	}
	if !in.Role.Valid() {
		return nil, apperrors.NewValidationError("role must be manager or employee")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, apperrors.NewValidationError("password must be at least 8 characters")
	}

	existing, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewDuplicateEmailError(email)
	}

	var managerID *string
	if in.Role == entities.RoleEmployee && in.ManagerID != nil && *in.ManagerID != "" {
		if _, err := s.requireManager(ctx, *in.ManagerID); err != nil {
			return nil, err
		}
		id := *in.ManagerID
		managerID = &id
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	user := &entities.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		Role:         in.Role,
		PasswordHash: hash,
		ManagerID:    managerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user created")
	return user, nil
}

// ListTeam returns the employees assigned to managerID
func (s *IdentityService) ListTeam(ctx context.Context, managerID string) ([]*entities.User, error) {
	return s.users.ListByManager(ctx, managerID)
}

// ListUnassigned returns employees without a manager
func (s *IdentityService) ListUnassigned(ctx context.Context) ([]*entities.User, error) {
	return s.users.ListUnassigned(ctx)
}

// Assign sets or overwrites the manager of an employee
func (s *IdentityService) Assign(ctx context.Context, employeeID, managerID string) (*entities.User, error) {
	employee, err := s.users.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !employee.IsEmployee() {
		return nil, apperrors.NewNotFoundError("employee " + employeeID + " not found")
	}
	if _, err := s.requireManager(ctx, managerID); err != nil {
		return nil, err
	}

	updated, err := s.users.AssignManager(ctx, employeeID, managerID, s.after(employee.UpdatedAt))
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Str("employee_id", employeeID).Str("manager_id", managerID).Msg("manager assigned")
	return updated, nil
}

func (s *IdentityService) requireManager(ctx context.Context, managerID string) (*entities.User, error) {
	manager, err := s.users.GetByID(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if !manager.IsManager() {
		return nil, apperrors.NewNotFoundError("manager " + managerID + " not found")
	}
	return manager, nil
}
