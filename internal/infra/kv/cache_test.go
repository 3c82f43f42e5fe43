//go:build unit

package kv_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"menucost/internal/infra/kv"
	"menucost/internal/pkg/config"
	"menucost/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, namespace string) (*kv.Cache, *fakeClient) {
	t.Helper()
	client := newFakeClient()
	cfg := config.CacheConfig{
		DefaultTTL: 300 * time.Second,
		SampleSize: 3,
	}
	return kv.NewCache(client, namespace, cfg, slog.New(slog.NewTextHandler(io.Discard, nil))), client
}

func TestCache_GetSet(t *testing.T) {
	ctx := context.Background()
	cache, client := newTestCache(t, "dashboard")
	tenantID := uuid.New().String()
	key := kv.TenantKey(tenantID, "summary")

	_, hit := cache.Get(ctx, key)
	assert.False(t, hit, "empty cache should miss")

	cache.Set(ctx, key, []byte(`{"total":42}`), 0)

	val, hit := cache.Get(ctx, key)
	require.True(t, hit)
	assert.Equal(t, []byte(`{"total":42}`), val)
	assert.Equal(t, 300*time.Second, client.ttls["dashboard:"+key], "zero ttl should fall back to namespace default")
}

func TestCache_SetExplicitTTL(t *testing.T) {
	ctx := context.Background()
	cache, client := newTestCache(t, "menu")
	key := kv.TenantKey(uuid.New().String())

	cache.Set(ctx, key, []byte("v"), 30*time.Second)

	assert.Equal(t, 30*time.Second, client.ttls["menu:"+key])
}

func TestCache_FailOpen(t *testing.T) {
	ctx := context.Background()
	cache, client := newTestCache(t, "dashboard")
	key := kv.TenantKey(uuid.New().String())
	client.failOn["get"] = errs.New("connection refused")
	client.failOn["set"] = errs.New("connection refused")

	// Outage degrades to always-miss; callers never see an error.
	cache.Set(ctx, key, []byte("v"), 0)
	val, hit := cache.Get(ctx, key)
	assert.False(t, hit)
	assert.Nil(t, val)
}

func TestCache_InvalidateTenant(t *testing.T) {
	ctx := context.Background()
	cache, client := newTestCache(t, "recipes")
	other := kv.NewCache(client, "menu", config.CacheConfig{DefaultTTL: time.Minute, SampleSize: 3}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	tenantA := uuid.New().String()
	tenantB := uuid.New().String()

	cache.Set(ctx, kv.TenantKey(tenantA, "list"), []byte("a1"), 0)
	cache.Set(ctx, kv.TenantKey(tenantA, "detail", "x"), []byte("a2"), 0)
	cache.Set(ctx, kv.TenantKey(tenantB, "list"), []byte("b"), 0)
	other.Set(ctx, kv.TenantKey(tenantA, "list"), []byte("m"), 0)

	require.NoError(t, cache.InvalidateTenant(ctx, tenantA))

	_, hit := cache.Get(ctx, kv.TenantKey(tenantA, "list"))
	assert.False(t, hit, "tenant A entries should be gone")
	_, hit = cache.Get(ctx, kv.TenantKey(tenantA, "detail", "x"))
	assert.False(t, hit)

	_, hit = cache.Get(ctx, kv.TenantKey(tenantB, "list"))
	assert.True(t, hit, "tenant B must be untouched")
	_, hit = other.Get(ctx, kv.TenantKey(tenantA, "list"))
	assert.True(t, hit, "other namespaces must be untouched")
}

func TestCache_InvalidateNoMatches(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t, "dashboard")

	assert.NoError(t, cache.InvalidateTenant(ctx, uuid.New().String()))
}

func TestCache_InvalidateScanFailure(t *testing.T) {
	ctx := context.Background()
	cache, client := newTestCache(t, "dashboard")
	client.failOn["scan"] = errs.New("connection refused")

	err := cache.InvalidateTenant(ctx, uuid.New().String())
	assert.Error(t, err, "invalidation is not fail-open, callers decide")
}

func TestCache_Stats(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t, "dashboard")
	tenantA := uuid.New().String()
	tenantB := uuid.New().String()

	for _, q := range []string{"a", "b", "c", "d", "e"} {
		cache.Set(ctx, kv.TenantKey(tenantA, q), []byte("v"), 0)
	}
	cache.Set(ctx, kv.TenantKey(tenantB, "x"), []byte("v"), 0)

	stats, err := cache.Stats(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "dashboard", stats.Namespace)
	assert.Equal(t, int64(6), stats.Keys)
	assert.Len(t, stats.Sample, 3, "sample is bounded")

	stats, err = cache.Stats(ctx, tenantB)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Keys)
}

func TestCache_FlushNamespace(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t, "menu")
	tenantID := uuid.New().String()
	cache.Set(ctx, kv.TenantKey(tenantID, "list"), []byte("v"), 0)

	require.NoError(t, cache.FlushNamespace(ctx))

	stats, err := cache.Stats(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Keys)
}
