package database

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	"github.com/zatekoja/teamfeedback/internal/domain/repositories"
	"github.com/zatekoja/teamfeedback/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/teamfeedback/pkg/errors"
)

var acknowledgmentColumns = []interface{}{
	"id", "feedback_id", "employee_id", "acknowledged", "comment", "acknowledged_at",
}

// AcknowledgmentAdapter implements AcknowledgmentRepository
type AcknowledgmentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

var _ repositories.AcknowledgmentRepository = (*AcknowledgmentAdapter)(nil)

// NewAcknowledgmentAdapter creates a new acknowledgment adapter
func NewAcknowledgmentAdapter(client *postgres.Client) *AcknowledgmentAdapter {
	return &AcknowledgmentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Upsert reads the acknowledgment of ack.FeedbackID and then inserts or
// overwrites it in the same transaction. Concurrent calls resolve
// last-write-wins.
func (a *AcknowledgmentAdapter) Upsert(ctx context.Context, ack *entities.Acknowledgment) error {
	err := retryOnConflict(func() error {
		return a.client.WithTx(ctx, func(tx *sqlx.Tx) error {
			query, args, err := a.db.From("acknowledgments").Select("id").
				Where(goqu.Ex{"feedback_id": ack.FeedbackID}).
				ForUpdate(exp.Wait).
				ToSQL()
			if err != nil {
				return apperrors.NewInternalError("failed to build query", err)
			}

			var existingID int64
			err = tx.GetContext(ctx, &existingID, query, args...)
			switch {
			case isNoRows(err):
				return a.insert(ctx, tx, ack)
			case err != nil:
				return apperrors.NewInternalError("failed to read acknowledgment", err)
			}

			query, args, err = a.db.Update("acknowledgments").
				Set(goqu.Record{
					"employee_id":     ack.EmployeeID,
					"acknowledged":    ack.Acknowledged,
					"comment":         nullString(ack.Comment),
					"acknowledged_at": ack.AcknowledgedAt,
				}).
				Where(goqu.Ex{"id": existingID}).
				ToSQL()
			if err != nil {
				return apperrors.NewInternalError("failed to build update query", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return apperrors.NewInternalError("failed to update acknowledgment", err)
			}

			ack.ID = existingID
			return nil
		})
	})
	if isUniqueViolation(err) {
		return apperrors.NewInternalError("failed to save acknowledgment", err)
	}
	return err
}

func (a *AcknowledgmentAdapter) insert(ctx context.Context, tx *sqlx.Tx, ack *entities.Acknowledgment) error {
	query, args, err := a.db.Insert("acknowledgments").
		Rows(goqu.Record{
			"feedback_id":     ack.FeedbackID,
			"employee_id":     ack.EmployeeID,
			"acknowledged":    ack.Acknowledged,
			"comment":         nullString(ack.Comment),
			"acknowledged_at": ack.AcknowledgedAt,
		}).
		Returning("id").
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := tx.GetContext(ctx, &ack.ID, query, args...); err != nil {
		switch {
		case isUniqueViolation(err):
			return err
		case isForeignKeyViolation(err):
			return apperrors.NewNotFoundError(fmt.Sprintf("feedback %s not found", ack.FeedbackID))
		}
		return apperrors.NewInternalError("failed to create acknowledgment", err)
	}
	return nil
}

// GetByFeedback retrieves the acknowledgment of feedbackID made by employeeID
func (a *AcknowledgmentAdapter) GetByFeedback(ctx context.Context, feedbackID, employeeID string) (*entities.Acknowledgment, error) {
	query, args, err := a.db.From("acknowledgments").Select(acknowledgmentColumns...).
		Where(goqu.Ex{
			"feedback_id": feedbackID,
			"employee_id": employeeID,
		}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	var ack entities.Acknowledgment
	if err := a.client.X().GetContext(ctx, &ack, query, args...); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("acknowledgment for feedback %s not found", feedbackID))
		}
		return nil, apperrors.NewInternalError("failed to get acknowledgment", err)
	}
	return &ack, nil
}
