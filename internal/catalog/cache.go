// Package catalog owns the single cached catalog snapshot. A snapshot is
// served without network access while it is younger than the TTL; once it
// expires, concurrent callers collapse into one shared refresh and all
// observe its result.
package catalog

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rmorelli/polyseek/internal/logger"
	"github.com/rmorelli/polyseek/internal/models"
)

// Fetcher retrieves a fresh catalog snapshot from the remote source.
type Fetcher interface {
	FetchCatalog(ctx context.Context) (models.CatalogSnapshot, error)
}

// Cache holds at most one catalog snapshot for the process lifetime. The
// snapshot is replaced wholesale on each successful refresh, never patched.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration

	mu       sync.RWMutex
	snapshot *models.CatalogSnapshot

	group singleflight.Group
	now   func() time.Time // swapped out in tests
}

// New creates a cache around fetcher. ttl is the sole validity test: a
// snapshot is served as long as its age stays below ttl.
func New(fetcher Fetcher, ttl time.Duration) *Cache {
	return &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
	}
}

// GetCatalog returns a valid cached snapshot when one exists, refreshing
// otherwise. Concurrent callers observing an expired cache share exactly one
// fetch. When a refresh fails and an older snapshot is still held, the stale
// snapshot is served instead of the error; with nothing cached the fetch
// error propagates.
//
// ctx covers only this caller's wait. The refresh itself runs detached so
// that an abandoning caller cannot cancel it for the other waiters; the
// fetcher bounds it with its own request timeout.
func (c *Cache) GetCatalog(ctx context.Context) (models.CatalogSnapshot, error) {
	if snap, ok := c.current(); ok {
		return snap, nil
	}

	v, err, _ := c.group.Do("catalog", func() (interface{}, error) {
		// A refresh that completed while this caller queued already
		// produced a valid snapshot; don't fetch again.
		if snap, ok := c.current(); ok {
			return snap, nil
		}
		return c.refresh()
	})
	if err != nil {
		return models.CatalogSnapshot{}, err
	}
	return v.(models.CatalogSnapshot), nil
}

// current returns the held snapshot when it is still within its TTL.
func (c *Cache) current() (models.CatalogSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snapshot == nil || c.snapshot.Age(c.now()) >= c.ttl {
		return models.CatalogSnapshot{}, false
	}
	return *c.snapshot, true
}

func (c *Cache) refresh() (interface{}, error) {
	snap, err := c.fetcher.FetchCatalog(context.Background())
	if err != nil {
		c.mu.RLock()
		stale := c.snapshot
		c.mu.RUnlock()

		if stale != nil {
			logger.Warn("Catalog refresh failed, serving stale snapshot aged %v: %v",
				stale.Age(c.now()).Round(time.Second), err)
			return *stale, nil
		}
		return nil, err
	}

	c.mu.Lock()
	c.snapshot = &snap
	c.mu.Unlock()

	logger.Info("Catalog refreshed: %d markets", len(snap.Records))
	return snap, nil
}
