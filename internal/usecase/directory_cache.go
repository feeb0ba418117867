package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/warelot/stockledger/internal/domain"
	"github.com/warelot/stockledger/internal/infrastructure/metrics"
)

// DirectoryCache is a time-bounded cache in front of the item directory.
// Only positive hits are cached; a miss always re-queries the directory.
// Expired entries are purged lazily on lookup and by a periodic sweep owned
// by the cache. Close stops the sweeper.
type DirectoryCache struct {
	directory ItemDirectory
	ttl       time.Duration
	metrics   *metrics.Metrics

	mu    sync.RWMutex
	items map[string]cachedItem

	done     chan struct{}
	stopOnce sync.Once
}

type cachedItem struct {
	item      domain.Item
	expiresAt time.Time
}

// NewDirectoryCache creates a DirectoryCache and starts its sweep goroutine.
// m may be nil.
func NewDirectoryCache(directory ItemDirectory, ttl, sweepInterval time.Duration, m *metrics.Metrics) *DirectoryCache {
	if ttl <= 0 {
		ttl = DefaultDirectoryTTL
	}
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}

	c := &DirectoryCache{
		directory: directory,
		ttl:       ttl,
		metrics:   m,
		items:     map[string]cachedItem{},
		done:      make(chan struct{}),
	}

	go c.sweep(sweepInterval)

	return c
}

// Resolve returns the directory record for an item name, serving from cache
// when a fresh entry exists.
func (c *DirectoryCache) Resolve(ctx context.Context, itemName string) (domain.Item, error) {
	now := time.Now()

	c.mu.RLock()
	cached, ok := c.items[itemName]
	c.mu.RUnlock()

	if ok {
		if now.Before(cached.expiresAt) {
			if c.metrics != nil {
				c.metrics.DirectoryCacheHits.Inc()
			}
			return cached.item, nil
		}

		// Lazy purge of the expired entry.
		c.Invalidate(itemName)
	}

	if c.metrics != nil {
		c.metrics.DirectoryCacheMisses.Inc()
	}

	item, found, err := c.directory.Lookup(ctx, itemName)
	if err != nil {
		return domain.Item{}, fmt.Errorf("directory lookup for %q: %w", itemName, err)
	}

	if !found {
		return domain.Item{}, fmt.Errorf("%w: %q", domain.ErrItemNotFound, itemName)
	}

	c.mu.Lock()
	c.items[itemName] = cachedItem{item: item, expiresAt: now.Add(c.ttl)}
	c.mu.Unlock()

	return item, nil
}

// Invalidate drops the cached entry for an item immediately. Called after
// every successful ledger write touching the item.
func (c *DirectoryCache) Invalidate(itemName string) {
	c.mu.Lock()
	delete(c.items, itemName)
	c.mu.Unlock()
}

// Close stops the background sweeper. Safe to call more than once.
func (c *DirectoryCache) Close() {
	c.stopOnce.Do(func() {
		close(c.done)
	})
}

func (c *DirectoryCache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			for name, cached := range c.items {
				if !now.Before(cached.expiresAt) {
					delete(c.items, name)
				}
			}
			c.mu.Unlock()
		}
	}
}

// size reports the number of cached entries, expired or not. Test hook.
func (c *DirectoryCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}
