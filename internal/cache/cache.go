// Package cache provides named, memoizing caches for the engine's cacheable operations.
package cache

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/nonlining/tennis-crystal-ball/internal/logger"
	"github.com/nonlining/tennis-crystal-ball/internal/metrics"
)

// Global is the cache holding process-wide singletons addressed by a fixed key
const Global = "Global"

// Cache is a set of named in-memory caches. Entries live until they expire or are evicted.
// Concurrent misses of the same key share a single computation.
type Cache struct {
	mu                sync.Mutex
	caches            map[string]*gocache.Cache
	generations       map[string]uint64
	defaultExpiration time.Duration
	cleanupInterval   time.Duration
	expirations       map[string]time.Duration
	group             singleflight.Group
	logger            *logger.CacheLogger
}

// New creates a cache set. A zero default expiration keeps entries until evicted;
// expirations override it per cache name.
func New(defaultExpiration, cleanupInterval time.Duration, expirations map[string]time.Duration, log *logrus.Logger) *Cache {
	if log == nil {
		log = logger.Discard()
	}
	if defaultExpiration <= 0 {
		defaultExpiration = gocache.NoExpiration
	}
	return &Cache{
		caches:            make(map[string]*gocache.Cache),
		generations:       make(map[string]uint64),
		defaultExpiration: defaultExpiration,
		cleanupInterval:   cleanupInterval,
		expirations:       expirations,
		logger:            logger.NewCacheLogger(log),
	}
}

// named returns the cache with the given name, creating it on first use
func (c *Cache) named(name string) (*gocache.Cache, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	store, ok := c.caches[name]
	if !ok {
		expiration := c.defaultExpiration
		if e, found := c.expirations[name]; found {
			expiration = e
			if expiration <= 0 {
				expiration = gocache.NoExpiration
			}
		}
		store = gocache.New(expiration, c.cleanupInterval)
		c.caches[name] = store
	}
	return store, c.generations[name]
}

// store saves a computed value unless the cache was evicted since the computation started
func (c *Cache) store(name, key string, generation uint64, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generations[name] != generation {
		return
	}
	store := c.caches[name]
	store.SetDefault(key, value)
	metrics.UpdateCacheEntries(name, store.ItemCount())
}

// GetOrCompute returns the value cached under name and key, computing and storing it on a miss.
// Errors are returned to every waiting caller and never cached.
func GetOrCompute[V any](c *Cache, name, key string, compute func() (V, error)) (V, error) {
	var zero V
	store, generation := c.named(name)

	if cached, found := store.Get(key); found {
		value, ok := cached.(V)
		if !ok {
			return zero, fmt.Errorf("cache %s holds %T under key %s, not %T", name, cached, key, zero)
		}
		metrics.RecordCacheHit(name)
		c.logger.LogCacheHit(name, key)
		return value, nil
	}

	metrics.RecordCacheMiss(name)
	start := time.Now()
	result, err, shared := c.group.Do(name+"\x00"+key, func() (any, error) {
		if cached, found := store.Get(key); found {
			return cached, nil
		}
		value, err := compute()
		if err != nil {
			return nil, err
		}
		c.store(name, key, generation, value)
		return value, nil
	})
	c.logger.LogCacheMiss(name, key, shared, float64(time.Since(start).Milliseconds()))
	if err != nil {
		return zero, err
	}

	value, ok := result.(V)
	if !ok {
		return zero, fmt.Errorf("cache %s holds %T under key %s, not %T", name, result, key, zero)
	}
	return value, nil
}

// Evict removes one entry and reports whether it was present
func (c *Cache) Evict(name, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generations[name]++
	store, ok := c.caches[name]
	if !ok {
		c.logger.LogCacheEvicted(name, key, false)
		return false
	}
	_, found := store.Get(key)
	store.Delete(key)
	if found {
		metrics.RecordCacheEvictions(name, 1)
	}
	metrics.UpdateCacheEntries(name, store.ItemCount())
	c.logger.LogCacheEvicted(name, key, found)
	return found
}

// EvictAll removes every entry of the named cache and returns how many were removed
func (c *Cache) EvictAll(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generations[name]++
	store, ok := c.caches[name]
	if !ok {
		c.logger.LogCacheCleared(name, 0)
		return 0
	}
	count := store.ItemCount()
	store.Flush()
	metrics.RecordCacheEvictions(name, count)
	metrics.UpdateCacheEntries(name, 0)
	c.logger.LogCacheCleared(name, count)
	return count
}

// Len returns the number of entries held by the named cache
func (c *Cache) Len(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if store, ok := c.caches[name]; ok {
		return store.ItemCount()
	}
	return 0
}

// Names returns the names of the caches created so far, sorted
func (c *Cache) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, 0, len(c.caches))
	for name := range c.caches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Key derives a deterministic key from the full argument tuple of a cached operation
func Key(args ...any) string {
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%#v", args)
	}
	return string(data)
}
