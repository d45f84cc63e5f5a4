package service

import (
	"context"
	"fmt"
	"strings"

	"feastly/internal/model"
	"feastly/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	repo   repository.CatalogRepository
	logger zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo repository.CatalogRepository, logger zerolog.Logger) CatalogService {
	return &catalogService{
		repo:   repo,
		logger: logger.With().Str("service", "catalog").Logger(),
	}
}

// RestaurantsByCountry lists restaurants for a country name. The name is
// case-insensitive.
func (s *catalogService) RestaurantsByCountry(ctx context.Context, country string) ([]model.Restaurant, error) {
	c := model.Country(strings.ToUpper(country))
	if !c.Valid() {
		return nil, model.InvalidInput(
			fmt.Sprintf("invalid country %q: must be either INDIA or AMERICA", country))
	}

	restaurants, err := s.repo.ListRestaurantsByCountry(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	return restaurants, nil
}

// Menu lists a restaurant's menu items.
func (s *catalogService) Menu(ctx context.Context, restaurantID uuid.UUID) (*model.RestaurantMenu, error) {
	restaurant, err := s.repo.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch restaurant: %w", err)
	}
	if restaurant == nil {
		return nil, model.ErrRestaurantNotFound
	}

	items, err := s.repo.ListMenu(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch menu: %w", err)
	}

	return &model.RestaurantMenu{
		Restaurant: *restaurant,
		MenuItems:  items,
	}, nil
}
