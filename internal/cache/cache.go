package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"storefront-cache/internal/common/logging"
	"storefront-cache/internal/config"
	"storefront-cache/internal/retry"
)

// DefaultTTL is applied when a caller passes a zero TTL.
const DefaultTTL = time.Hour

// Health status values reported by HealthCheck.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// RemoteClient is the surface the facade needs from the remote tier. The
// underlying protocol is opaque; absence of a key is a miss, not an error.
type RemoteClient interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, key string) (removed bool, err error)
	MGet(ctx context.Context, keys []string) ([]interface{}, error)
	Ping(ctx context.Context) error
	Close() error
}

// Entry is one key/value pair for MSet. A zero TTL means DefaultTTL.
type Entry struct {
	Key   string
	Value interface{}
	TTL   time.Duration
}

// HealthStatus is the result of a remote liveness probe.
type HealthStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Stats describes the current state of the facade.
type Stats struct {
	Configured   bool `json:"configured"`
	LocalEntries int  `json:"local_entries"`
}

// Cache is the resilient cache facade. Every operation attempts the remote
// tier through the retry executor and, when retries are exhausted, degrades
// to the process-local fallback store instead of surfacing an error. Only
// HealthCheck reports remote failure to its caller.
//
// The two tiers are independent views, not a replicated cache: a remote hit
// is never written back to the local tier, and a local fallback write does
// not attempt to repair the remote tier.
//
// A Cache owns its local store and eviction goroutine; construct exactly one
// per process and pass it to consumers. Close stops the evictor and releases
// the remote connection.
type Cache struct {
	remote   RemoteClient // nil when the remote tier is disabled
	local    *LocalStore
	executor *retry.Executor
	logger   logging.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for remote failure reporting.
func WithLogger(logger logging.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// WithClock overrides the local store's clock. Tests use this to advance
// time deterministically instead of sleeping.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.local.now = now
	}
}

// New creates the facade. When cfg reports the remote tier unconfigured, or
// remote is nil, every operation is served by the local tier; this is a
// recognized mode, not an error. The background evictor starts immediately
// and runs until Close.
func New(cfg *config.Config, remote RemoteClient, opts ...Option) *Cache {
	if !cfg.IsConfigured() {
		remote = nil
	}

	c := &Cache{
		remote: remote,
		local:  NewLocalStore(),
		logger: logging.GetGlobalLogger(),
		stop:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.executor = retry.New(cfg.MaxRetries, cfg.RetryDelay, cfg.Timeout, c.logger)

	go c.evictLoop(cfg.CleanupInterval)

	return c
}

// Close stops the background evictor and closes the remote connection.
// It is safe to call more than once.
func (c *Cache) Close() error {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
	if c.remote != nil {
		return c.remote.Close()
	}
	return nil
}

// withFallback centralizes the attempt-remote-else-fallback policy shared by
// every operation. The remote operation runs through the retry executor; on
// exhaustion the error is logged and the local operation serves the result.
// Callers never see a remote error from this path.
func (c *Cache) withFallback(ctx context.Context, op string, remoteOp retry.Operation, localOp func() interface{}, fields ...logging.Field) interface{} {
	if c.remote == nil {
		return localOp()
	}

	result, err := c.executor.Execute(ctx, op, remoteOp)
	if err != nil {
		c.logger.Error("remote cache operation failed, serving local fallback", err,
			append([]logging.Field{logging.String("operation", op)}, fields...)...)
		return localOp()
	}
	return result
}

// Get returns the cached value for key, or nil when the key is absent or
// expired in whichever tier served the read. A remote miss does not trigger
// the fallback; only exhausted retries do.
func (c *Cache) Get(ctx context.Context, key string) interface{} {
	return c.withFallback(ctx, "get",
		func(ctx context.Context) (interface{}, error) {
			value, found, err := c.remote.Get(ctx, key)
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, nil
			}
			return value, nil
		},
		func() interface{} {
			value, found := c.local.Get(key)
			if !found {
				return nil
			}
			return value
		},
		logging.String("key", key),
	)
}

// Set stores value under key with the given TTL (zero means DefaultTTL) and
// reports success. When the remote tier is down the value lands in the local
// tier and the write is still reported successful: the value is retrievable
// from a tier, which is the availability-over-consistency contract callers
// rely on.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) bool {
	if ttl == 0 {
		ttl = DefaultTTL
	}

	result := c.withFallback(ctx, "set",
		func(ctx context.Context) (interface{}, error) {
			if err := c.remote.Set(ctx, key, value, ttl); err != nil {
				return nil, err
			}
			return true, nil
		},
		func() interface{} {
			c.local.Set(key, value, ttl)
			return true
		},
		logging.String("key", key),
	)

	ok, _ := result.(bool)
	return ok
}

// Del removes key and reports whether a key was actually removed from
// whichever tier served the deletion.
func (c *Cache) Del(ctx context.Context, key string) bool {
	result := c.withFallback(ctx, "del",
		func(ctx context.Context) (interface{}, error) {
			removed, err := c.remote.Del(ctx, key)
			if err != nil {
				return nil, err
			}
			return removed, nil
		},
		func() interface{} {
			return c.local.Delete(key)
		},
		logging.String("key", key),
	)

	removed, _ := result.(bool)
	return removed
}

// MGet returns one value per key, preserving input order, with nil for
// absent or expired keys. The remote tier is attempted as a single batch
// call; only a wholesale remote failure falls back to per-key local reads.
func (c *Cache) MGet(ctx context.Context, keys []string) []interface{} {
	result := c.withFallback(ctx, "mget",
		func(ctx context.Context) (interface{}, error) {
			return c.remote.MGet(ctx, keys)
		},
		func() interface{} {
			values := make([]interface{}, len(keys))
			for i, key := range keys {
				if value, found := c.local.Get(key); found {
					values[i] = value
				}
			}
			return values
		},
		logging.Int("key_count", len(keys)),
	)

	values, _ := result.([]interface{})
	return values
}

// MSet writes every entry and reports success. Remote writes are issued as
// independent concurrent sets rather than one atomic batch, since the remote
// batch primitive is not assumed atomic. If the retry-wrapped batch fails,
// every entry is written to the local tier instead.
func (c *Cache) MSet(ctx context.Context, entries []Entry) bool {
	result := c.withFallback(ctx, "mset",
		func(ctx context.Context) (interface{}, error) {
			g, gctx := errgroup.WithContext(ctx)
			for _, entry := range entries {
				entry := entry
				g.Go(func() error {
					return c.remote.Set(gctx, entry.Key, entry.Value, entryTTL(entry))
				})
			}
			if err := g.Wait(); err != nil {
				return nil, err
			}
			return true, nil
		},
		func() interface{} {
			for _, entry := range entries {
				c.local.Set(entry.Key, entry.Value, entryTTL(entry))
			}
			return true
		},
		logging.Int("key_count", len(entries)),
	)

	ok, _ := result.(bool)
	return ok
}

// HealthCheck probes the remote tier and reports its status. This is the one
// operation whose contract is to surface remote failure rather than mask it;
// operators use it to detect outages that every other operation absorbs.
// With the remote tier disabled the facade is unconditionally healthy, since
// the local tier is always available.
func (c *Cache) HealthCheck(ctx context.Context) HealthStatus {
	if c.remote == nil {
		return HealthStatus{Status: StatusHealthy}
	}

	_, err := c.executor.Execute(ctx, "health_check", func(ctx context.Context) (interface{}, error) {
		return nil, c.remote.Ping(ctx)
	})
	if err != nil {
		c.logger.Error("remote cache health check failed", err)
		return HealthStatus{Status: StatusUnhealthy, Error: err.Error()}
	}
	return HealthStatus{Status: StatusHealthy}
}

// Cleanup forces one eviction pass over the local tier and returns the
// number of entries removed. Exposed so tests and operators can trigger
// eviction deterministically instead of waiting on the timer.
func (c *Cache) Cleanup() int {
	return c.local.DeleteExpired()
}

// Stats reports the facade's current state.
func (c *Cache) Stats() Stats {
	return Stats{
		Configured:   c.remote != nil,
		LocalEntries: c.local.Len(),
	}
}

// evictLoop periodically sweeps expired entries from the local tier until
// Close is called.
func (c *Cache) evictLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := c.local.DeleteExpired(); removed > 0 {
				c.logger.Debug("evicted expired local cache entries",
					logging.Int("removed", removed))
			}
		case <-c.stop:
			return
		}
	}
}

func entryTTL(entry Entry) time.Duration {
	if entry.TTL == 0 {
		return DefaultTTL
	}
	return entry.TTL
}
