package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	"github.com/zatekoja/teamfeedback/internal/domain/repositories"
	"github.com/zatekoja/teamfeedback/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/teamfeedback/pkg/errors"
)

// TagAdapter implements TagRepository
type TagAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

var _ repositories.TagRepository = (*TagAdapter)(nil)

// NewTagAdapter creates a new tag adapter
func NewTagAdapter(client *postgres.Client) *TagAdapter {
	return &TagAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetOrCreate reads the named tags and inserts the missing ones in one
// transaction. Concurrent creators of the same name converge on one row.
func (a *TagAdapter) GetOrCreate(ctx context.Context, names []string) ([]entities.Tag, error) {
	if len(names) == 0 {
		return []entities.Tag{}, nil
	}

	unique := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			unique = append(unique, name)
		}
	}

	var byName map[string]entities.Tag
	err := retryOnConflict(func() error {
		byName = make(map[string]entities.Tag, len(unique))
		return a.client.WithTx(ctx, func(tx *sqlx.Tx) error {
			if err := a.selectByNames(ctx, tx, unique, byName); err != nil {
				return err
			}

			var missing []string
			for _, name := range unique {
				if _, ok := byName[name]; !ok {
					missing = append(missing, name)
				}
			}
			if len(missing) == 0 {
				return nil
			}

			rows := make([]interface{}, 0, len(missing))
			for _, name := range missing {
				rows = append(rows, goqu.Record{"name": name})
			}
			query, args, err := a.db.Insert("tags").
				Rows(rows...).
				Returning("id", "name").
				ToSQL()
			if err != nil {
				return apperrors.NewInternalError("failed to build insert query", err)
			}

			var created []entities.Tag
			if err := tx.SelectContext(ctx, &created, query, args...); err != nil {
				if isUniqueViolation(err) {
					return err
				}
				return apperrors.NewInternalError("failed to create tags", err)
			}
			for _, tag := range created {
				byName[tag.Name] = tag
			}
			return nil
		})
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewInternalError("failed to create tags", err)
		}
		return nil, err
	}

	tags := make([]entities.Tag, 0, len(names))
	for _, name := range names {
		tags = append(tags, byName[name])
	}
	return tags, nil
}

func (a *TagAdapter) selectByNames(ctx context.Context, tx *sqlx.Tx, names []string, into map[string]entities.Tag) error {
	query, args, err := a.db.From("tags").Select("id", "name").
		Where(goqu.Ex{"name": names}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build query", err)
	}

	var existing []entities.Tag
	if err := tx.SelectContext(ctx, &existing, query, args...); err != nil {
		return apperrors.NewInternalError("failed to read tags", err)
	}
	for _, tag := range existing {
		into[tag.Name] = tag
	}
	return nil
}

// List retrieves all tags ordered by name
func (a *TagAdapter) List(ctx context.Context) ([]entities.Tag, error) {
	query, args, err := a.db.From("tags").Select("id", "name").
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	tags := []entities.Tag{}
	if err := a.client.X().SelectContext(ctx, &tags, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to list tags", err)
	}
	return tags, nil
}

// GetByIDs retrieves the tags that exist among ids
func (a *TagAdapter) GetByIDs(ctx context.Context, ids []int64) ([]entities.Tag, error) {
	if len(ids) == 0 {
		return []entities.Tag{}, nil
	}

	query, args, err := a.db.From("tags").Select("id", "name").
		Where(goqu.Ex{"id": ids}).
		Order(goqu.I("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	tags := []entities.Tag{}
	if err := a.client.X().SelectContext(ctx, &tags, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to get tags", err)
	}
	return tags, nil
}
