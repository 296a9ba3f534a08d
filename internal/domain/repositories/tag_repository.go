package repositories

import (
	"context"

	"github.com/zatekoja/teamfeedback/internal/domain/entities"
)

// TagRepository defines the interface for the tag catalog
type TagRepository interface {
	// GetOrCreate returns one tag per input name, creating missing ones.
	// Output order follows input order; repeated names share a tag.
	GetOrCreate(ctx context.Context, names []string) ([]entities.Tag, error)

	// List retrieves all tags ordered by name
	List(ctx context.Context) ([]entities.Tag, error)

	// GetByIDs retrieves the tags that exist among ids
	GetByIDs(ctx context.Context, ids []int64) ([]entities.Tag, error)
}
