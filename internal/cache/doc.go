// Package cache provides a resilient cache facade over a remote key-value
// store with a process-local fallback tier.
//
// Every operation attempts the remote tier through a timeout-bounded retry
// executor. When retries are exhausted the facade degrades to the in-memory
// fallback store instead of surfacing the failure: callers of Get, Set, Del,
// MGet and MSet never receive a remote error. HealthCheck is the single
// operation that reports remote failure, for operational monitoring.
//
// The two tiers are independent views rather than a replicated cache: remote
// hits are not copied into the local tier, and fallback writes do not repair
// the remote tier. Local entries carry an absolute expiry; a background
// evictor owned by the facade reclaims expired entries until Close.
//
// Usage:
//
//	cfg := config.Load()
//	remote, _ := redis.NewClient(&redis.Config{
//		Endpoint:   cfg.Endpoint,
//		Credential: cfg.Credential,
//	})
//	c := cache.New(cfg, remote)
//	defer c.Close()
//
//	c.Set(ctx, "product:42", payload, time.Hour)
//	value := c.Get(ctx, "product:42")
//
// With the remote tier unconfigured (empty ENDPOINT_URL or CREDENTIAL) the
// facade runs entirely on the local tier; that is a recognized mode, not an
// error.
package cache
