// Package redis wraps the go-redis client with the narrow key-value surface
// the cache facade needs. The wire protocol is treated as opaque; absence of
// a key is reported as a miss, not an error.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb    *redis.Client
	config *Config
}

type Config struct {
	// Endpoint is either a redis:// / rediss:// URL or a bare host:port.
	Endpoint string `json:"endpoint"`
	// Credential is the store password.
	Credential string `json:"credential"`
	PoolSize   int    `json:"pool_size"`
}

// NewClient creates a client for the remote store. It deliberately does not
// ping the server: an unreachable remote tier must not prevent startup, the
// facade degrades to its local tier instead.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("redis config is required")
	}
	if config.Endpoint == "" {
		return nil, fmt.Errorf("redis endpoint is required")
	}
	if config.PoolSize == 0 {
		config.PoolSize = 10
	}

	var opts *redis.Options
	if strings.HasPrefix(config.Endpoint, "redis://") || strings.HasPrefix(config.Endpoint, "rediss://") {
		parsed, err := redis.ParseURL(config.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis endpoint: %w", err)
		}
		opts = parsed
		if config.Credential != "" {
			opts.Password = config.Credential
		}
	} else {
		opts = &redis.Options{
			Addr:     config.Endpoint,
			Password: config.Credential,
		}
	}
	opts.PoolSize = config.PoolSize

	return &Client{
		rdb:    redis.NewClient(opts),
		config: config,
	}, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping issues a liveness probe against the remote store.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Get retrieves a value. A missing key is a miss (found=false), not an error.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores a value with the given TTL. Strings and byte slices are stored
// as-is; everything else is marshalled to JSON.
func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	var data []byte
	var err error

	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		data, err = json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal value: %w", err)
		}
	}

	return c.rdb.Set(ctx, key, data, ttl).Err()
}

// Del removes a key and reports whether a key was actually removed.
func (c *Client) Del(ctx context.Context, key string) (bool, error) {
	removed, err := c.rdb.Del(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return removed > 0, nil
}

// MGet retrieves multiple keys in a single call. The result preserves input
// order one-to-one, with nil for keys that are absent.
func (c *Client) MGet(ctx context.Context, keys []string) ([]interface{}, error) {
	if len(keys) == 0 {
		return []interface{}{}, nil
	}
	return c.rdb.MGet(ctx, keys...).Result()
}
