package modelcatalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"ai-studio-be/internal/pkg/logger"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	localKey = "catalog"
	redisKey = "modelcatalog:snapshot"

	catalogModule = "MODEL_CATALOG"

	// how long a stale snapshot is served before the origin is tried again
	failureBackoff = time.Minute
)

// CatalogSource fetches a fresh catalog from the origin.
type CatalogSource interface {
	Fetch(ctx context.Context) (*Catalog, error)
}

// StaticSource always returns the same catalog.
type StaticSource struct {
	Catalog *Catalog
}

func (s StaticSource) Fetch(ctx context.Context) (*Catalog, error) {
	if s.Catalog == nil {
		return nil, errors.New("static catalog is empty")
	}
	return s.Catalog, nil
}

// CatalogCache holds the current snapshot: process-local first, then Redis, then the origin.
// A failed refresh keeps serving the last good snapshot and backs off before retrying.
type CatalogCache struct {
	local   *gocache.Cache
	redis   *redis.Client
	source  CatalogSource
	ttl     time.Duration
	backoff time.Duration
	group   singleflight.Group
	logger  logger.ILogger

	mu    sync.RWMutex
	stale *Catalog
}

// NewCatalogCache builds a cache. rdb may be nil.
func NewCatalogCache(source CatalogSource, rdb *redis.Client, ttl time.Duration, log logger.ILogger) *CatalogCache {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &CatalogCache{
		local:   gocache.New(ttl, 2*ttl),
		redis:   rdb,
		source:  source,
		ttl:     ttl,
		backoff: failureBackoff,
		logger:  log,
	}
}

// Get returns the cached snapshot, loading it when both cache tiers are empty.
func (c *CatalogCache) Get(ctx context.Context) (*Catalog, error) {
	if v, ok := c.local.Get(localKey); ok {
		return v.(*Catalog), nil
	}

	if cat := c.fromRedis(ctx); cat != nil {
		c.store(cat)
		return cat, nil
	}

	cat, err := c.Refresh(ctx)
	if err != nil && cat != nil {
		return cat, nil
	}
	return cat, err
}

// Refresh reloads from the origin. Concurrent callers share one fetch.
// On failure the last good snapshot is returned together with the error, and it is served
// from the local tier for the backoff period so request paths stop hitting the origin.
func (c *CatalogCache) Refresh(ctx context.Context) (*Catalog, error) {
	v, err, _ := c.group.Do("refresh", func() (interface{}, error) {
		cat, err := c.source.Fetch(ctx)
		if err != nil {
			c.logger.Error(catalogModule, "Catalog refresh failed", map[string]interface{}{
				"error":     err.Error(),
				"has_stale": c.Stale() != nil,
			})
			if stale := c.Stale(); stale != nil {
				c.local.Set(localKey, stale, c.backoff)
			}
			return nil, err
		}
		c.store(cat)
		c.toRedis(ctx, cat)
		c.logger.Info(catalogModule, "Catalog refreshed", map[string]interface{}{"models": len(cat.Models)})
		return cat, nil
	})
	if err != nil {
		return c.Stale(), fmt.Errorf("refresh model catalog: %w", err)
	}
	return v.(*Catalog), nil
}

// Stale returns the last snapshot seen, regardless of expiry.
func (c *CatalogCache) Stale() *Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stale
}

func (c *CatalogCache) store(cat *Catalog) {
	c.local.Set(localKey, cat, gocache.DefaultExpiration)
	c.mu.Lock()
	c.stale = cat
	c.mu.Unlock()
}

func (c *CatalogCache) fromRedis(ctx context.Context) *Catalog {
	if c.redis == nil {
		return nil
	}
	raw, err := c.redis.Get(ctx, redisKey).Bytes()
	if err != nil {
		return nil
	}
	var cat Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return nil
	}
	return &cat
}

func (c *CatalogCache) toRedis(ctx context.Context, cat *Catalog) {
	if c.redis == nil {
		return
	}
	raw, err := json.Marshal(cat)
	if err != nil {
		return
	}
	c.redis.Set(ctx, redisKey, raw, c.ttl)
}
