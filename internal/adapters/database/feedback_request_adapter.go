package database

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	"github.com/zatekoja/teamfeedback/internal/domain/repositories"
	"github.com/zatekoja/teamfeedback/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/teamfeedback/pkg/errors"
)

var feedbackRequestColumns = []interface{}{
	"id", "employee_id", "manager_id", "message", "is_open", "created_at", "closed_at",
}

// FeedbackRequestAdapter implements FeedbackRequestRepository
type FeedbackRequestAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

var _ repositories.FeedbackRequestRepository = (*FeedbackRequestAdapter)(nil)

// NewFeedbackRequestAdapter creates a new feedback request adapter
func NewFeedbackRequestAdapter(client *postgres.Client) *FeedbackRequestAdapter {
	return &FeedbackRequestAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a request and sets its ID
func (a *FeedbackRequestAdapter) Create(ctx context.Context, request *entities.FeedbackRequest) error {
	query, args, err := a.db.Insert("feedback_requests").
		Rows(goqu.Record{
			"employee_id": request.EmployeeID,
			"manager_id":  request.ManagerID,
			"message":     nullString(request.Message),
			"is_open":     request.IsOpen,
			"created_at":  request.CreatedAt,
		}).
		Returning("id").
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.X().GetContext(ctx, &request.ID, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create feedback request", err)
	}
	return nil
}

// GetByID retrieves a request by ID
func (a *FeedbackRequestAdapter) GetByID(ctx context.Context, id int64) (*entities.FeedbackRequest, error) {
	query, args, err := a.db.From("feedback_requests").Select(feedbackRequestColumns...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.getRequest(ctx, id, query, args...)
}

// ListOpenByManager retrieves open requests addressed to managerID
func (a *FeedbackRequestAdapter) ListOpenByManager(ctx context.Context, managerID string) ([]*entities.FeedbackRequest, error) {
	return a.list(ctx, goqu.Ex{"manager_id": managerID, "is_open": true})
}

// ListByEmployee retrieves requests made by employeeID
func (a *FeedbackRequestAdapter) ListByEmployee(ctx context.Context, employeeID string) ([]*entities.FeedbackRequest, error) {
	return a.list(ctx, goqu.Ex{"employee_id": employeeID})
}

// Close marks an open request closed. Closing twice leaves the first
// closed_at in place.
func (a *FeedbackRequestAdapter) Close(ctx context.Context, id int64, closedAt time.Time) (*entities.FeedbackRequest, error) {
	query, args, err := a.db.Update("feedback_requests").
		Set(goqu.Record{
			"is_open":   false,
			"closed_at": closedAt,
		}).
		Where(goqu.Ex{"id": id, "is_open": true}).
		Returning(feedbackRequestColumns...).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build update query", err)
	}

	request, err := a.getRequest(ctx, id, query, args...)
	if apperrors.IsNotFound(err) {
		// either unknown or already closed
		return a.GetByID(ctx, id)
	}
	return request, err
}

func (a *FeedbackRequestAdapter) getRequest(ctx context.Context, id int64, query string, args ...interface{}) (*entities.FeedbackRequest, error) {
	var request entities.FeedbackRequest
	if err := a.client.X().GetContext(ctx, &request, query, args...); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("feedback request %d not found", id))
		}
		return nil, apperrors.NewInternalError("failed to get feedback request", err)
	}
	return &request, nil
}

func (a *FeedbackRequestAdapter) list(ctx context.Context, where goqu.Ex) ([]*entities.FeedbackRequest, error) {
	query, args, err := a.db.From("feedback_requests").Select(feedbackRequestColumns...).
		Where(where).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	requests := []*entities.FeedbackRequest{}
	if err := a.client.X().SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to list feedback requests", err)
	}
	return requests, nil
}
