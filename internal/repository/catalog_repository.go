package repository

import (
	"context"
	"fmt"

	"feastly/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// catalogRepository implements the CatalogRepository interface using PostgreSQL.
type catalogRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(pool *pgxpool.Pool, logger zerolog.Logger) CatalogRepository {
	return &catalogRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "catalog").Logger(),
	}
}

// GetMenuItem retrieves a menu item by id, or nil when absent.
func (r *catalogRepository) GetMenuItem(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	query := `
		SELECT id, restaurant_id, name, description, price
		FROM menu_items
		WHERE id = $1
	`

	var m model.MenuItem
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.RestaurantID, &m.Name, &m.Description, &m.Price,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("menu_item_id", id.String()).Msg("menu item not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("menu_item_id", id.String()).Msg("failed to query menu item")
		return nil, fmt.Errorf("failed to query menu item: %w", err)
	}

	return &m, nil
}

// GetMenuItems retrieves multiple menu items by their ids.
func (r *catalogRepository) GetMenuItems(ctx context.Context, ids []uuid.UUID) ([]model.MenuItem, error) {
	if len(ids) == 0 {
		return []model.MenuItem{}, nil
	}

	query := `
		SELECT id, restaurant_id, name, description, price
		FROM menu_items
		WHERE id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query menu items")
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	return scanMenuItems(rows)
}

// GetRestaurant retrieves a restaurant by id, or nil when absent.
func (r *catalogRepository) GetRestaurant(ctx context.Context, id uuid.UUID) (*model.Restaurant, error) {
	query := `
		SELECT id, name, country
		FROM restaurants
		WHERE id = $1
	`

	var rest model.Restaurant
	err := r.pool.QueryRow(ctx, query, id).Scan(&rest.ID, &rest.Name, &rest.Country)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("restaurant_id", id.String()).Msg("restaurant not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("restaurant_id", id.String()).Msg("failed to query restaurant")
		return nil, fmt.Errorf("failed to query restaurant: %w", err)
	}

	return &rest, nil
}

// ListRestaurantsByCountry retrieves all restaurants in a country.
func (r *catalogRepository) ListRestaurantsByCountry(ctx context.Context, country model.Country) ([]model.Restaurant, error) {
	query := `
		SELECT id, name, country
		FROM restaurants
		WHERE country = $1
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, country)
	if err != nil {
		r.logger.Error().Err(err).Str("country", string(country)).Msg("failed to query restaurants")
		return nil, fmt.Errorf("failed to query restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []model.Restaurant
	for rows.Next() {
		var rest model.Restaurant
		if err := rows.Scan(&rest.ID, &rest.Name, &rest.Country); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan restaurant row")
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		restaurants = append(restaurants, rest)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating restaurant rows")
		return nil, fmt.Errorf("error iterating restaurants: %w", err)
	}

	return restaurants, nil
}

// ListMenu retrieves all menu items belonging to a restaurant.
func (r *catalogRepository) ListMenu(ctx context.Context, restaurantID uuid.UUID) ([]model.MenuItem, error) {
	query := `
		SELECT id, restaurant_id, name, description, price
		FROM menu_items
		WHERE restaurant_id = $1
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		r.logger.Error().Err(err).Str("restaurant_id", restaurantID.String()).Msg("failed to query menu")
		return nil, fmt.Errorf("failed to query menu: %w", err)
	}
	defer rows.Close()

	return scanMenuItems(rows)
}

// scanMenuItems collects menu item rows.
func scanMenuItems(rows pgx.Rows) ([]model.MenuItem, error) {
	var items []model.MenuItem
	for rows.Next() {
		var m model.MenuItem
		if err := rows.Scan(&m.ID, &m.RestaurantID, &m.Name, &m.Description, &m.Price); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating menu items: %w", err)
	}

	return items, nil
}
