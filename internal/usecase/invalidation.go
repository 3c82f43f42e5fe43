package usecase

import (
	"context"
	"log/slog"

	"menucost/internal/domain/job"
)

// Invalidator maps a cascade outcome onto the cache namespaces whose content
// depends on the touched entities. Invalidation is always tenant-scoped by
// prefix (the affected rows are rarely known in the exact shape cache keys
// were built with). A failed invalidation only means staleness until TTL,
// so it is logged, never fatal.
//
// Rules:
//   - any recipe touched    -> recipes-listing cache for the tenant
//   - any combo or menu item touched -> menu-listing cache for the tenant
//   - any cascade that ran  -> dashboard cache for the tenant (dashboard
//     aggregates sales x cost, so any cost change invalidates it)
//   - seed                  -> everything for the tenant
type Invalidator struct {
	dashboard CacheInvalidator
	menu      CacheInvalidator
	recipes   CacheInvalidator
	alerts    AlertNotifier
	logger    *slog.Logger
}

func NewInvalidator(dashboard, menu, recipes CacheInvalidator, alerts AlertNotifier, logger *slog.Logger) *Invalidator {
	return &Invalidator{
		dashboard: dashboard,
		menu:      menu,
		recipes:   recipes,
		alerts:    alerts,
		logger:    logger,
	}
}

// AfterCascade applies the invalidation rules and then emits the alert event.
func (i *Invalidator) AfterCascade(ctx context.Context, j job.Job, t Touched) {
	if !t.Ran {
		return
	}
	tenant := j.TenantID.String()

	i.invalidate(ctx, i.dashboard, tenant)
	if t.Seeded || len(t.Recipes) > 0 {
		i.invalidate(ctx, i.recipes, tenant)
	}
	if t.Seeded || len(t.Combos) > 0 || len(t.MenuItems) > 0 {
		i.invalidate(ctx, i.menu, tenant)
	}

	i.alerts.CostsRecalculated(ctx, CostsRecalculatedEvent{
		TenantID:  j.TenantID,
		JobID:     j.ID,
		JobType:   j.Type,
		Recipes:   t.Recipes,
		Combos:    t.Combos,
		MenuItems: t.MenuItems,
	})
}

func (i *Invalidator) invalidate(ctx context.Context, c CacheInvalidator, tenantID string) {
	if err := c.InvalidateTenant(ctx, tenantID); err != nil {
		i.logger.Warn("cache invalidation failed, entries expire by TTL",
			"namespace", c.Namespace(), "tenant_id", tenantID, "error", err)
	}
}
