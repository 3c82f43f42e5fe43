package queries

import (
	"context"

	"menucost/internal/infra/kv"
)

// CacheAdmin is the operational cache surface used by support tooling.
// Never consumed by business logic.
type CacheAdmin interface {
	Stats(ctx context.Context, tenantID string) ([]kv.CacheStats, error)
	FlushAll(ctx context.Context) error
	InvalidateTenant(ctx context.Context, tenantID string) error
}

type cacheAdminImpl struct {
	caches []*kv.Cache
}

func NewCacheAdmin(caches []*kv.Cache) CacheAdmin {
	return &cacheAdminImpl{caches: caches}
}

func (a *cacheAdminImpl) Stats(ctx context.Context, tenantID string) ([]kv.CacheStats, error) {
	stats := make([]kv.CacheStats, 0, len(a.caches))
	for _, c := range a.caches {
		s, err := c.Stats(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, nil
}

func (a *cacheAdminImpl) FlushAll(ctx context.Context) error {
	for _, c := range a.caches {
		if err := c.FlushNamespace(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *cacheAdminImpl) InvalidateTenant(ctx context.Context, tenantID string) error {
	for _, c := range a.caches {
		if err := c.InvalidateTenant(ctx, tenantID); err != nil {
			return err
		}
	}
	return nil
}
