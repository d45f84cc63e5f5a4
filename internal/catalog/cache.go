package catalog

import (
	"context"
	"encoding/json"
	"time"

	"feastly/internal/model"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// redisClient is the subset of *redis.Client the cache needs. Narrowing the
// dependency keeps the decorator testable without a running Redis.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// cachedAccessor decorates an Accessor with a Redis read-through cache.
// Cache failures degrade to the underlying accessor; they never fail a
// request. Menu items are immutable from the core's perspective, so a TTL
// is only needed to pick up out-of-band catalog edits.
type cachedAccessor struct {
	next   Accessor
	client redisClient
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedAccessor wraps an Accessor with a Redis read-through cache.
func NewCachedAccessor(next Accessor, client *redis.Client, ttl time.Duration, logger zerolog.Logger) Accessor {
	return newCachedAccessor(next, client, ttl, logger)
}

func newCachedAccessor(next Accessor, client redisClient, ttl time.Duration, logger zerolog.Logger) Accessor {
	return &cachedAccessor{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "catalog_cache").Logger(),
	}
}

// Resolve returns the cached menu item when present, falling back to the
// underlying accessor on miss or cache error.
func (c *cachedAccessor) Resolve(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	if item := c.lookup(ctx, id); item != nil {
		return item, nil
	}

	item, err := c.next.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	c.store(ctx, *item)
	return item, nil
}

// ResolveAll serves what it can from the cache and delegates the rest.
func (c *cachedAccessor) ResolveAll(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.MenuItem, error) {
	resolved := make(map[uuid.UUID]model.MenuItem, len(ids))
	pending := make(map[uuid.UUID]struct{}, len(ids))
	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := resolved[id]; ok {
			continue
		}
		if _, ok := pending[id]; ok {
			continue
		}
		if item := c.lookup(ctx, id); item != nil {
			resolved[id] = *item
			continue
		}
		pending[id] = struct{}{}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		fetched, err := c.next.ResolveAll(ctx, missing)
		if err != nil {
			return nil, err
		}
		for id, item := range fetched {
			resolved[id] = item
			c.store(ctx, item)
		}
	}

	return resolved, nil
}

// lookup reads one menu item from the cache, returning nil on miss or error.
func (c *cachedAccessor) lookup(ctx context.Context, id uuid.UUID) *model.MenuItem {
	data, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Str("menu_item_id", id.String()).Msg("cache read failed")
		}
		return nil
	}

	var item model.MenuItem
	if err := json.Unmarshal(data, &item); err != nil {
		c.logger.Warn().Err(err).Str("menu_item_id", id.String()).Msg("cache entry corrupt")
		return nil
	}

	return &item
}

// store writes one menu item to the cache, logging failures.
func (c *cachedAccessor) store(ctx context.Context, item model.MenuItem) {
	data, err := json.Marshal(item)
	if err != nil {
		c.logger.Warn().Err(err).Str("menu_item_id", item.ID.String()).Msg("cache encode failed")
		return
	}

	if err := c.client.Set(ctx, cacheKey(item.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("menu_item_id", item.ID.String()).Msg("cache write failed")
	}
}

func cacheKey(id uuid.UUID) string {
	return "catalog:menu_item:" + id.String()
}
