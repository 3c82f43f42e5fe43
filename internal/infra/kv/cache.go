package kv

import (
	"context"
	"log/slog"
	"time"

	"menucost/internal/infra"
	"menucost/internal/pkg/config"

	"github.com/redis/go-redis/v9"
)

const scanPageSize = 100

// Cache is one namespaced, TTL'd read-through cache over the shared backing
// store. Each logical cache (dashboard, menu, recipes) is its own instance so
// one feature's invalidation can never clear another's entries.
//
// Reads and writes are fail-open: a backing-store outage degrades to
// always-miss instead of surfacing errors to request handling. The entity
// store stays the source of truth, so dropping entries is always safe.
type Cache struct {
	client     Client
	namespace  string
	defaultTTL time.Duration
	sampleSize int
	logger     *slog.Logger
}

type CacheStats struct {
	Namespace string   `json:"namespace"`
	Keys      int64    `json:"keys"`
	Sample    []string `json:"sample,omitempty"`
}

func NewCache(client Client, namespace string, cfg config.CacheConfig, logger *slog.Logger) *Cache {
	return &Cache{
		client:     client,
		namespace:  namespace,
		defaultTTL: cfg.DefaultTTL,
		sampleSize: cfg.SampleSize,
		logger:     logger.With(slog.String("cache", namespace)),
	}
}

func (c *Cache) Namespace() string {
	return c.namespace
}

// Get returns the cached payload, or a miss. Backend errors are logged and
// reported as a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, c.fullKey(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache get failed, treating as miss", "key", key, "error", err)
		}
		return nil, false
	}
	return val, true
}

// Set stores the payload with the given TTL (0 means the namespace default).
// Best-effort: backend errors are logged and swallowed.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.Set(ctx, c.fullKey(key), value, ttl).Err(); err != nil {
		c.logger.Warn("cache set failed, skipping", "key", key, "error", err)
	}
}

// Invalidate deletes every key in this namespace matching the glob pattern.
// Matching zero keys is a success.
func (c *Cache) Invalidate(ctx context.Context, pattern string) error {
	keys, err := c.scanKeys(ctx, c.fullKey(pattern))
	if err != nil {
		return infra.WrapRepoErr("failed to scan cache keys", err, infra.KindKVFailure)
	}
	for start := 0; start < len(keys); start += scanPageSize {
		end := start + scanPageSize
		if end > len(keys) {
			end = len(keys)
		}
		if err := c.client.Del(ctx, keys[start:end]...).Err(); err != nil {
			return infra.WrapRepoErr("failed to delete cache keys", err, infra.KindKVFailure)
		}
	}
	return nil
}

// InvalidateTenant clears every entry of one tenant in this namespace.
func (c *Cache) InvalidateTenant(ctx context.Context, tenantID string) error {
	return c.Invalidate(ctx, tenantPattern(tenantID))
}

// FlushNamespace clears the whole namespace (operational surface).
func (c *Cache) FlushNamespace(ctx context.Context) error {
	return c.Invalidate(ctx, "*")
}

// Stats reports key count and a bounded key sample for operational
// inspection. Never consumed by business logic.
func (c *Cache) Stats(ctx context.Context, tenantID string) (CacheStats, error) {
	pattern := "*"
	if tenantID != "" {
		pattern = tenantPattern(tenantID)
	}
	keys, err := c.scanKeys(ctx, c.fullKey(pattern))
	if err != nil {
		return CacheStats{}, infra.WrapRepoErr("failed to scan cache keys", err, infra.KindKVFailure)
	}

	sample := keys
	if len(sample) > c.sampleSize {
		sample = sample[:c.sampleSize]
	}
	return CacheStats{
		Namespace: c.namespace,
		Keys:      int64(len(keys)),
		Sample:    sample,
	}, nil
}

func (c *Cache) fullKey(key string) string {
	return c.namespace + ":" + key
}

func (c *Cache) scanKeys(ctx context.Context, match string) ([]string, error) {
	var (
		cursor uint64
		keys   []string
	)
	for {
		page, next, err := c.client.Scan(ctx, cursor, match, scanPageSize).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, page...)
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}
