// Package catalog provides read-only resolution of menu items for the order
// pipeline. Prices resolved here are captured onto order lines at creation
// time; the catalog is never re-consulted for an existing order.
package catalog

import (
	"context"
	"fmt"

	"feastly/internal/model"
	"feastly/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Accessor resolves menu items by id.
type Accessor interface {
	// Resolve returns the menu item for the given id, or
	// model.ErrMenuItemNotFound naming the offending id.
	Resolve(ctx context.Context, id uuid.UUID) (*model.MenuItem, error)

	// ResolveAll resolves every id, failing on the first unknown one.
	ResolveAll(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.MenuItem, error)
}

// repoAccessor is the repository-backed Accessor.
type repoAccessor struct {
	repo   repository.CatalogRepository
	logger zerolog.Logger
}

// NewAccessor creates a repository-backed catalog accessor.
func NewAccessor(repo repository.CatalogRepository, logger zerolog.Logger) Accessor {
	return &repoAccessor{
		repo:   repo,
		logger: logger.With().Str("component", "catalog_accessor").Logger(),
	}
}

// Resolve returns the menu item for the given id.
func (a *repoAccessor) Resolve(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	item, err := a.repo.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, notFound(id)
	}
	return item, nil
}

// ResolveAll resolves every id, failing on the first unknown one.
func (a *repoAccessor) ResolveAll(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.MenuItem, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]model.MenuItem{}, nil
	}

	// Deduplicate: the same menu item may appear on multiple request lines.
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	items, err := a.repo.GetMenuItems(ctx, unique)
	if err != nil {
		return nil, err
	}

	resolved := make(map[uuid.UUID]model.MenuItem, len(items))
	for _, item := range items {
		resolved[item.ID] = item
	}

	for _, id := range unique {
		if _, ok := resolved[id]; !ok {
			a.logger.Warn().Str("menu_item_id", id.String()).Msg("unknown menu item in order request")
			return nil, notFound(id)
		}
	}

	return resolved, nil
}

// notFound builds a MenuItemNotFound error naming the offending id.
func notFound(id uuid.UUID) *model.DomainError {
	return model.NewDomainError(
		model.ErrCodeMenuItemNotFound,
		fmt.Sprintf("Menu item %s not found", id),
	)
}
