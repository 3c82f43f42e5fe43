package writerepo

import (
	"context"

	"menucost/internal/infra"
	"menucost/internal/infra/db"

	"github.com/google/uuid"
)

// CostingRepository applies cost updates one entity at a time. No transaction
// spans a whole cascade: availability over strict atomicity, and redelivery
// of the same root heals a partially-updated graph.
type CostingRepository struct {
	db db.DBTX
}

func NewCostingRepository(dbtx db.DBTX) *CostingRepository {
	return &CostingRepository{db: dbtx}
}

func (r *CostingRepository) UpdateRecipeCost(ctx context.Context, tenantID, id uuid.UUID, costPerPortion float64) error {
	const q = `
		UPDATE recipes
		SET cost_per_portion = $3, updated_at = now()
		WHERE tenant_id = $1 AND id = $2`

	if _, err := r.db.Exec(ctx, q, tenantID, id, costPerPortion); err != nil {
		return infra.WrapRepoErr("failed to update recipe cost", err)
	}
	return nil
}

func (r *CostingRepository) UpdateComboCost(ctx context.Context, tenantID, id uuid.UUID, costTotal float64) error {
	const q = `
		UPDATE combos
		SET cost_total = $3, updated_at = now()
		WHERE tenant_id = $1 AND id = $2`

	if _, err := r.db.Exec(ctx, q, tenantID, id, costTotal); err != nil {
		return infra.WrapRepoErr("failed to update combo cost", err)
	}
	return nil
}

func (r *CostingRepository) UpdateMenuItemDerived(ctx context.Context, tenantID, id uuid.UUID, cost, margin, cmvPercent float64) error {
	const q = `
		UPDATE menu_items
		SET cost = $3, margin = $4, cmv_percent = $5, updated_at = now()
		WHERE tenant_id = $1 AND id = $2`

	if _, err := r.db.Exec(ctx, q, tenantID, id, cost, margin, cmvPercent); err != nil {
		return infra.WrapRepoErr("failed to update menu item derived costs", err)
	}
	return nil
}
