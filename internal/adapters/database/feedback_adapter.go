package database

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	"github.com/zatekoja/teamfeedback/internal/domain/repositories"
	"github.com/zatekoja/teamfeedback/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/teamfeedback/pkg/errors"
)

var feedbackColumns = []interface{}{
	"id", "employee_id", "manager_id", "strengths", "improvements",
	"sentiment", "request_id", "created_at", "updated_at",
}

// FeedbackAdapter implements feedback persistence in Postgres.
type FeedbackAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

var _ repositories.FeedbackRepository = (*FeedbackAdapter)(nil)

// NewFeedbackAdapter creates a new feedback adapter.
func NewFeedbackAdapter(client *postgres.Client) *FeedbackAdapter {
	return &FeedbackAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a feedback record with its tag links and closes the
// fulfilled request, if any.
func (a *FeedbackAdapter) Create(ctx context.Context, feedback *entities.Feedback, tagIDs []int64) error {
	if feedback == nil {
		return apperrors.NewInternalError("feedback is nil", fmt.Errorf("feedback is nil"))
	}

	record := goqu.Record{
		"id":           feedback.ID,
		"employee_id":  feedback.EmployeeID,
		"manager_id":   feedback.ManagerID,
		"strengths":    feedback.Strengths,
		"improvements": feedback.Improvements,
		"sentiment":    string(feedback.Sentiment),
		"request_id":   feedback.RequestID,
		"created_at":   feedback.CreatedAt,
		"updated_at":   feedback.UpdatedAt,
	}

	return a.client.WithTx(ctx, func(tx *sqlx.Tx) error {
		query, args, err := a.db.Insert("feedback").Rows(record).ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build feedback insert query", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return apperrors.NewInternalError("failed to create feedback", err)
		}

		if err := a.insertTags(ctx, tx, feedback.ID, tagIDs); err != nil {
			return err
		}

		if feedback.RequestID == nil {
			return nil
		}

		query, args, err = a.db.Update("feedback_requests").
			Set(goqu.Record{
				"is_open":   false,
				"closed_at": feedback.CreatedAt,
			}).
			Where(goqu.Ex{
				"id":         *feedback.RequestID,
				"manager_id": feedback.ManagerID,
				"is_open":    true,
			}).
			ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build request close query", err)
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return apperrors.NewInternalError("failed to close feedback request", err)
		}
		if n, err := result.RowsAffected(); err != nil {
			return apperrors.NewInternalError("failed to close feedback request", err)
		} else if n == 0 {
			return apperrors.NewValidationError(fmt.Sprintf("feedback request %d is not open", *feedback.RequestID))
		}
		return nil
	})
}

// Update applies the supplied fields of patch. A non-nil TagIDs replaces
// the tag links.
func (a *FeedbackAdapter) Update(ctx context.Context, id string, patch entities.FeedbackPatch, updatedAt time.Time) error {
	record := goqu.Record{"updated_at": updatedAt}
	if patch.Strengths != nil {
		record["strengths"] = *patch.Strengths
	}
	if patch.Improvements != nil {
		record["improvements"] = *patch.Improvements
	}
	if patch.Sentiment != nil {
		record["sentiment"] = string(*patch.Sentiment)
	}

	return a.client.WithTx(ctx, func(tx *sqlx.Tx) error {
		query, args, err := a.db.Update("feedback").
			Set(record).
			Where(goqu.Ex{"id": id}).
			ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build update query", err)
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return apperrors.NewInternalError("failed to update feedback", err)
		}
		if n, err := result.RowsAffected(); err != nil {
			return apperrors.NewInternalError("failed to update feedback", err)
		} else if n == 0 {
			return apperrors.NewNotFoundError(fmt.Sprintf("feedback %s not found", id))
		}

		if patch.TagIDs == nil {
			return nil
		}

		query, args, err = a.db.Delete("feedback_tags").
			Where(goqu.Ex{"feedback_id": id}).
			ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build delete query", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return apperrors.NewInternalError("failed to clear feedback tags", err)
		}

		return a.insertTags(ctx, tx, id, patch.TagIDs)
	})
}

func (a *FeedbackAdapter) insertTags(ctx context.Context, tx *sqlx.Tx, feedbackID string, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}

	rows := make([]interface{}, 0, len(tagIDs))
	seen := make(map[int64]bool, len(tagIDs))
	for _, tagID := range tagIDs {
		if seen[tagID] {
			continue
		}
		seen[tagID] = true
		rows = append(rows, goqu.Record{"feedback_id": feedbackID, "tag_id": tagID})
	}

	query, args, err := a.db.Insert("feedback_tags").Rows(rows...).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build tag link query", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewNotFoundError("tag not found")
		}
		return apperrors.NewInternalError("failed to link feedback tags", err)
	}
	return nil
}

// GetByID retrieves feedback by ID
func (a *FeedbackAdapter) GetByID(ctx context.Context, id string) (*entities.Feedback, error) {
	query, args, err := a.db.From("feedback").Select(feedbackColumns...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	var feedback entities.Feedback
	if err := a.client.X().GetContext(ctx, &feedback, query, args...); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("feedback %s not found", id))
		}
		return nil, apperrors.NewInternalError("failed to get feedback", err)
	}

	if err := a.hydrate(ctx, []*entities.Feedback{&feedback}); err != nil {
		return nil, err
	}
	return &feedback, nil
}

// ListByEmployee retrieves feedback received by employeeID
func (a *FeedbackAdapter) ListByEmployee(ctx context.Context, employeeID string) ([]*entities.Feedback, error) {
	return a.list(ctx, goqu.Ex{"employee_id": employeeID})
}

// ListByManager retrieves feedback written by managerID
func (a *FeedbackAdapter) ListByManager(ctx context.Context, managerID string) ([]*entities.Feedback, error) {
	return a.list(ctx, goqu.Ex{"manager_id": managerID})
}

func (a *FeedbackAdapter) list(ctx context.Context, where goqu.Ex) ([]*entities.Feedback, error) {
	query, args, err := a.db.From("feedback").Select(feedbackColumns...).
		Where(where).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	items := []*entities.Feedback{}
	if err := a.client.X().SelectContext(ctx, &items, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to list feedback", err)
	}

	if err := a.hydrate(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

type feedbackTagRow struct {
	FeedbackID string `db:"feedback_id"`
	ID         int64  `db:"id"`
	Name       string `db:"name"`
}

// hydrate loads tags and acknowledgments for items with one query each
func (a *FeedbackAdapter) hydrate(ctx context.Context, items []*entities.Feedback) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, 0, len(items))
	byID := make(map[string]*entities.Feedback, len(items))
	for _, item := range items {
		item.Tags = []entities.Tag{}
		ids = append(ids, item.ID)
		byID[item.ID] = item
	}

	query, args, err := a.db.From("feedback_tags").
		Join(goqu.T("tags"), goqu.On(goqu.I("tags.id").Eq(goqu.I("feedback_tags.tag_id")))).
		Select(goqu.I("feedback_tags.feedback_id"), goqu.I("tags.id"), goqu.I("tags.name")).
		Where(goqu.I("feedback_tags.feedback_id").In(ids)).
		Order(goqu.I("tags.name").Asc()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build tag query", err)
	}

	var tagRows []feedbackTagRow
	if err := a.client.X().SelectContext(ctx, &tagRows, query, args...); err != nil {
		return apperrors.NewInternalError("failed to load feedback tags", err)
	}
	for _, row := range tagRows {
		if item, ok := byID[row.FeedbackID]; ok {
			item.Tags = append(item.Tags, entities.Tag{ID: row.ID, Name: row.Name})
		}
	}

	query, args, err = a.db.From("acknowledgments").Select(acknowledgmentColumns...).
		Where(goqu.Ex{"feedback_id": ids}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build acknowledgment query", err)
	}

	var acks []*entities.Acknowledgment
	if err := a.client.X().SelectContext(ctx, &acks, query, args...); err != nil {
		return apperrors.NewInternalError("failed to load acknowledgments", err)
	}
	for _, ack := range acks {
		if item, ok := byID[ack.FeedbackID]; ok {
			item.Acknowledgment = ack
		}
	}

	return nil
}
