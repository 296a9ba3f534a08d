package database

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	"github.com/zatekoja/teamfeedback/internal/domain/repositories"
	"github.com/zatekoja/teamfeedback/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/teamfeedback/pkg/errors"
)

var userColumns = []interface{}{
	"id", "name", "email", "role", "password_hash", "manager_id", "created_at", "updated_at",
}

// UserAdapter implements UserRepository
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

var _ repositories.UserRepository = (*UserAdapter)(nil)

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) *UserAdapter {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new user
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	record := goqu.Record{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"role":          string(user.Role),
		"password_hash": user.PasswordHash,
		"manager_id":    nullString(user.ManagerID),
		"created_at":    user.CreatedAt,
		"updated_at":    user.UpdatedAt,
	}

	query, args, err := a.db.Insert("users").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewDuplicateEmailError(user.Email)
		}
		if isForeignKeyViolation(err) {
			return apperrors.NewNotFoundError("manager not found")
		}
		return apperrors.NewInternalError("failed to create user", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	query, args, err := a.db.From("users").Select(userColumns...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.getUser(ctx, fmt.Sprintf("user %s not found", id), query, args...)
}

// GetByEmail retrieves a user by normalised email
func (a *UserAdapter) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	query, args, err := a.db.From("users").Select(userColumns...).
		Where(goqu.Ex{"email": entities.NormalizeEmail(email)}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.getUser(ctx, "user not found", query, args...)
}

// ListByManager retrieves the employees assigned to managerID
func (a *UserAdapter) ListByManager(ctx context.Context, managerID string) ([]*entities.User, error) {
	query, args, err := a.db.From("users").Select(userColumns...).
		Where(goqu.Ex{
			"role":       string(entities.RoleEmployee),
			"manager_id": managerID,
		}).
		Order(goqu.I("name").Asc(), goqu.I("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.listUsers(ctx, query, args...)
}

// ListUnassigned retrieves employees without a manager
func (a *UserAdapter) ListUnassigned(ctx context.Context) ([]*entities.User, error) {
	query, args, err := a.db.From("users").Select(userColumns...).
		Where(
			goqu.Ex{"role": string(entities.RoleEmployee)},
			goqu.I("manager_id").IsNull(),
		).
		Order(goqu.I("name").Asc(), goqu.I("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.listUsers(ctx, query, args...)
}

// AssignManager sets the manager of an employee
func (a *UserAdapter) AssignManager(ctx context.Context, employeeID, managerID string, updatedAt time.Time) (*entities.User, error) {
	query, args, err := a.db.Update("users").
		Set(goqu.Record{
			"manager_id": managerID,
			"updated_at": updatedAt,
		}).
		Where(goqu.Ex{
			"id":   employeeID,
			"role": string(entities.RoleEmployee),
		}).
		Returning(userColumns...).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build update query", err)
	}

	return a.getUser(ctx, fmt.Sprintf("employee %s not found", employeeID), query, args...)
}

func (a *UserAdapter) getUser(ctx context.Context, notFound string, query string, args ...interface{}) (*entities.User, error) {
	var user entities.User
	if err := a.client.X().GetContext(ctx, &user, query, args...); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewNotFoundError(notFound)
		}
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	return &user, nil
}

func (a *UserAdapter) listUsers(ctx context.Context, query string, args ...interface{}) ([]*entities.User, error) {
	users := []*entities.User{}
	if err := a.client.X().SelectContext(ctx, &users, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to list users", err)
	}
	return users, nil
}
