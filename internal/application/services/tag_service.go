package services

import (
	"context"
	"strings"

	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	"github.com/zatekoja/teamfeedback/internal/domain/repositories"
	apperrors "github.com/zatekoja/teamfeedback/pkg/errors"
)

// MaxTagNameLength bounds catalog label length
const MaxTagNameLength = 64

// TagService manages the shared tag catalog
type TagService struct {
	tags repositories.TagRepository
}

// NewTagService creates a new tag service
func NewTagService(tags repositories.TagRepository) *TagService {
	return &TagService{tags: tags}
}

// GetOrCreate returns one tag per name in input order, creating missing ones
func (s *TagService) GetOrCreate(ctx context.Context, names []string) ([]entities.Tag, error) {
	trimmed := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, apperrors.NewValidationError("tag name must not be empty")
		}
		if len(name) > MaxTagNameLength {
			return nil, apperrors.NewValidationError("tag name is too long")
		}
		trimmed = append(trimmed, name)
	}
	if len(trimmed) == 0 {
		return []entities.Tag{}, nil
	}

	return s.tags.GetOrCreate(ctx, trimmed)
}

// List returns the whole catalog ordered by name
func (s *TagService) List(ctx context.Context) ([]entities.Tag, error) {
	return s.tags.List(ctx)
}

// Resolve checks that every id names an existing tag and returns the
// de-duplicated ids in input order.
func (s *TagService) Resolve(ctx context.Context, ids []int64) ([]int64, error) {
	unique := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return unique, nil
	}

	found, err := s.tags.GetByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	known := make(map[int64]bool, len(found))
	for _, tag := range found {
		known[tag.ID] = true
	}
	for _, id := range unique {
		if !known[id] {
			return nil, apperrors.NewNotFoundError("tag not found")
		}
	}
	return unique, nil
}
