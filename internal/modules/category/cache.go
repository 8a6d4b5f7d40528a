package category

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/georgemunganga/townkart-backend/internal/platform/apperr"
)

const (
	listKey   = "categories:active"
	itemKeyNS = "category:"
	// DefaultCacheTTL bounds how stale a cached category may be.
	DefaultCacheTTL = 5 * time.Minute

	notFoundMarker = "notfound"
	notFoundTTL    = time.Minute
)

// CachedRepository is a read-through Redis cache in front of a Repository.
// Redis failures are logged and served from the wrapped repository.
type CachedRepository struct {
	realRepo Repository
	redis    *redis.Client
	ttl      time.Duration
	logger   *slog.Logger
}

func NewCachedRepository(realRepo Repository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedRepository {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedRepository{realRepo: realRepo, redis: client, ttl: ttl, logger: logger}
}

var _ Repository = (*CachedRepository)(nil)

func itemKey(id uuid.UUID) string { return itemKeyNS + id.String() }

// load reports whether key was found and decoded into dst. miss is set when
// key holds the not-found marker.
func (c *CachedRepository) load(ctx context.Context, key string, dst interface{}) (hit, miss bool) {
	data, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return false, true
		}
		if err := json.Unmarshal(data, dst); err != nil {
			c.logger.WarnContext(ctx, "discarding undecodable cache entry", "key", key, "error", err)
			return false, false
		}
		return true, false
	case errors.Is(err, redis.Nil):
	default:
		c.logger.WarnContext(ctx, "redis read failed, using database", "key", key, "error", err)
	}
	return false, false
}

func (c *CachedRepository) store(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.WarnContext(ctx, "cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "redis write failed", "key", key, "error", err)
	}
}

func (c *CachedRepository) invalidate(ctx context.Context, keys ...string) {
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		c.logger.WarnContext(ctx, "redis invalidation failed", "keys", keys, "error", err)
	}
}

func (c *CachedRepository) Create(ctx context.Context, cat *Category) error {
	if err := c.realRepo.Create(ctx, cat); err != nil {
		return err
	}
	c.invalidate(ctx, itemKey(cat.ID), listKey)
	return nil
}

func (c *CachedRepository) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	key := itemKey(id)
	var cached Category
	hit, miss := c.load(ctx, key, &cached)
	if miss {
		return nil, apperr.NotFound("Category not found")
	}
	if hit {
		return &cached, nil
	}

	cat, err := c.realRepo.GetByID(ctx, id)
	if apperr.CodeOf(err) == apperr.CodeNotFound {
		if setErr := c.redis.Set(ctx, key, notFoundMarker, notFoundTTL).Err(); setErr != nil {
			c.logger.WarnContext(ctx, "redis write failed", "key", key, "error", setErr)
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, cat)
	return cat, nil
}

func (c *CachedRepository) ListActive(ctx context.Context) ([]*Category, error) {
	var cached []*Category
	if hit, _ := c.load(ctx, listKey, &cached); hit {
		return cached, nil
	}

	categories, err := c.realRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, listKey, categories)
	return categories, nil
}

func (c *CachedRepository) Update(ctx context.Context, cat *Category) error {
	if err := c.realRepo.Update(ctx, cat); err != nil {
		return err
	}
	c.invalidate(ctx, itemKey(cat.ID), listKey)
	return nil
}
