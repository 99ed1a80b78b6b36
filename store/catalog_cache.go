package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"spa-backend/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const catalogKeyPrefix = "catalog:service:"

// CatalogStore is the catalog persistence the cache sits in front of.
type CatalogStore interface {
	FindServiceByName(ctx context.Context, name string) (*models.Service, error)
	FindServiceByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	ListServices(ctx context.Context) ([]models.Service, error)
	CreateService(ctx context.Context, service *models.Service) error
	UpdateService(ctx context.Context, service *models.Service) error
	DeleteService(ctx context.Context, id uuid.UUID) (bool, error)
}

// CachedCatalog caches name lookups in Redis. Redis failures are logged and the call falls
// through to the underlying store; writes evict the affected names.
type CachedCatalog struct {
	next   CatalogStore
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedCatalog(next CatalogStore, rdb redis.Cmdable, ttl time.Duration, logger *zap.Logger) *CachedCatalog {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedCatalog{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *CachedCatalog) FindServiceByName(ctx context.Context, name string) (*models.Service, error) {
	key := catalogKeyPrefix + name

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var service models.Service
		if err := json.Unmarshal(raw, &service); err == nil {
			return &service, nil
		}
		c.logger.Warn("discarding corrupt catalog cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	}

	service, err := c.next.FindServiceByName(ctx, name)
	if err != nil || service == nil {
		return service, err
	}

	if body, err := json.Marshal(service); err == nil {
		if err := c.rdb.Set(ctx, key, body, c.ttl).Err(); err != nil {
			c.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return service, nil
}

func (c *CachedCatalog) FindServiceByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	return c.next.FindServiceByID(ctx, id)
}

func (c *CachedCatalog) ListServices(ctx context.Context) ([]models.Service, error) {
	return c.next.ListServices(ctx)
}

func (c *CachedCatalog) CreateService(ctx context.Context, service *models.Service) error {
	if err := c.next.CreateService(ctx, service); err != nil {
		return err
	}
	c.evict(ctx, service.Name)
	return nil
}

func (c *CachedCatalog) UpdateService(ctx context.Context, service *models.Service) error {
	previous, err := c.next.FindServiceByID(ctx, service.ID)
	if err != nil {
		return err
	}
	if err := c.next.UpdateService(ctx, service); err != nil {
		return err
	}
	if previous != nil {
		c.evict(ctx, previous.Name)
	}
	c.evict(ctx, service.Name)
	return nil
}

func (c *CachedCatalog) DeleteService(ctx context.Context, id uuid.UUID) (bool, error) {
	previous, err := c.next.FindServiceByID(ctx, id)
	if err != nil {
		return false, err
	}
	deleted, err := c.next.DeleteService(ctx, id)
	if err != nil {
		return false, err
	}
	if previous != nil {
		c.evict(ctx, previous.Name)
	}
	return deleted, nil
}

func (c *CachedCatalog) evict(ctx context.Context, name string) {
	if err := c.rdb.Del(ctx, catalogKeyPrefix+name).Err(); err != nil {
		c.logger.Warn("catalog cache eviction failed", zap.String("service", name), zap.Error(err))
	}
}
