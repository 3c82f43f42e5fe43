package readstore

import (
	"context"

	"menucost/internal/domain/costing"
	"menucost/internal/infra"
	"menucost/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CostingReadStore serves the recalculation engine's current-state reads.
// Every query is tenant-scoped; reverse-dependency lookups return DISTINCT
// ids so an entity reachable via multiple paths shows up once.
type CostingReadStore struct {
	db db.DBTX
}

func NewCostingReadStore(dbtx db.DBTX) *CostingReadStore {
	return &CostingReadStore{db: dbtx}
}

func (s *CostingReadStore) ProductByID(ctx context.Context, tenantID, id uuid.UUID) (*costing.Product, error) {
	const q = `
		SELECT id, tenant_id, name, unit_price
		FROM products
		WHERE tenant_id = $1 AND id = $2`

	var p costing.Product
	err := s.db.QueryRow(ctx, q, tenantID, id).Scan(&p.ID, &p.TenantID, &p.Name, &p.UnitPrice)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find product", err)
	}
	return &p, nil
}

func (s *CostingReadStore) RecipeByID(ctx context.Context, tenantID, id uuid.UUID) (*costing.Recipe, error) {
	const q = `
		SELECT id, tenant_id, name, portions, cost_per_portion
		FROM recipes
		WHERE tenant_id = $1 AND id = $2`

	var r costing.Recipe
	err := s.db.QueryRow(ctx, q, tenantID, id).Scan(&r.ID, &r.TenantID, &r.Name, &r.Portions, &r.CostPerPortion)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("recipe not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find recipe", err)
	}
	return &r, nil
}

func (s *CostingReadStore) ComboByID(ctx context.Context, tenantID, id uuid.UUID) (*costing.Combo, error) {
	const q = `
		SELECT id, tenant_id, name, cost_total
		FROM combos
		WHERE tenant_id = $1 AND id = $2`

	var c costing.Combo
	err := s.db.QueryRow(ctx, q, tenantID, id).Scan(&c.ID, &c.TenantID, &c.Name, &c.CostTotal)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("combo not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find combo", err)
	}
	return &c, nil
}

func (s *CostingReadStore) RecipesUsingProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]uuid.UUID, error) {
	const q = `
		SELECT DISTINCT recipe_id
		FROM recipe_ingredients
		WHERE tenant_id = $1 AND product_id = $2`
	return s.queryIDs(ctx, "failed to find recipes using product", q, tenantID, productID)
}

func (s *CostingReadStore) RecipesUsingRecipe(ctx context.Context, tenantID, recipeID uuid.UUID) ([]uuid.UUID, error) {
	const q = `
		SELECT DISTINCT recipe_id
		FROM recipe_ingredients
		WHERE tenant_id = $1 AND ingredient_recipe_id = $2`
	return s.queryIDs(ctx, "failed to find recipes using sub-recipe", q, tenantID, recipeID)
}

func (s *CostingReadStore) RecipeDependencies(ctx context.Context, tenantID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	deps := make(map[uuid.UUID][]uuid.UUID, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return deps, nil
	}

	const q = `
		SELECT recipe_id, ingredient_recipe_id
		FROM recipe_ingredients
		WHERE tenant_id = $1 AND recipe_id = ANY($2) AND ingredient_recipe_id IS NOT NULL`

	rows, err := s.db.Query(ctx, q, tenantID, recipeIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load recipe dependencies", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID, depID uuid.UUID
		if err := rows.Scan(&recipeID, &depID); err != nil {
			return nil, infra.WrapRepoErr("failed to scan recipe dependency", err)
		}
		deps[recipeID] = append(deps[recipeID], depID)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read recipe dependencies", err)
	}
	return deps, nil
}

// RecipeLines resolves each line's unit cost from the store's current state:
// the product's current price, or the sub-recipe's current cost per portion.
func (s *CostingReadStore) RecipeLines(ctx context.Context, tenantID, recipeID uuid.UUID) ([]costing.IngredientLine, error) {
	const q = `
		SELECT ri.product_id, ri.ingredient_recipe_id, ri.quantity,
		       COALESCE(p.unit_price, r.cost_per_portion, 0)
		FROM recipe_ingredients ri
		LEFT JOIN products p ON p.id = ri.product_id AND p.tenant_id = ri.tenant_id
		LEFT JOIN recipes r ON r.id = ri.ingredient_recipe_id AND r.tenant_id = ri.tenant_id
		WHERE ri.tenant_id = $1 AND ri.recipe_id = $2`

	rows, err := s.db.Query(ctx, q, tenantID, recipeID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load recipe lines", err)
	}
	defer rows.Close()

	var lines []costing.IngredientLine
	for rows.Next() {
		var l costing.IngredientLine
		if err := rows.Scan(&l.ProductID, &l.RecipeID, &l.Quantity, &l.UnitCost); err != nil {
			return nil, infra.WrapRepoErr("failed to scan recipe line", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read recipe lines", err)
	}
	return lines, nil
}

func (s *CostingReadStore) CombosUsingRecipes(ctx context.Context, tenantID uuid.UUID, recipeIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(recipeIDs) == 0 {
		return nil, nil
	}

	const q = `
		SELECT cl.combo_id
		FROM combo_lines cl
		WHERE cl.tenant_id = $1 AND cl.recipe_id = ANY($2)
		UNION
		SELECT cl.combo_id
		FROM combo_line_options clo
		JOIN combo_lines cl ON cl.id = clo.combo_line_id
		WHERE clo.tenant_id = $1 AND clo.recipe_id = ANY($2)`
	return s.queryIDs(ctx, "failed to find combos using recipes", q, tenantID, recipeIDs)
}

func (s *CostingReadStore) CombosUsingProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]uuid.UUID, error) {
	const q = `
		SELECT cl.combo_id
		FROM combo_lines cl
		WHERE cl.tenant_id = $1 AND cl.product_id = $2
		UNION
		SELECT cl.combo_id
		FROM combo_line_options clo
		JOIN combo_lines cl ON cl.id = clo.combo_line_id
		WHERE clo.tenant_id = $1 AND clo.product_id = $2`
	return s.queryIDs(ctx, "failed to find combos using product", q, tenantID, productID)
}

func (s *CostingReadStore) CombosUsingCombo(ctx context.Context, tenantID, comboID uuid.UUID) ([]uuid.UUID, error) {
	const q = `
		SELECT DISTINCT combo_id
		FROM combo_lines
		WHERE tenant_id = $1 AND child_combo_id = $2`
	return s.queryIDs(ctx, "failed to find combos using sub-combo", q, tenantID, comboID)
}

func (s *CostingReadStore) ComboDependencies(ctx context.Context, tenantID uuid.UUID, comboIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	deps := make(map[uuid.UUID][]uuid.UUID, len(comboIDs))
	if len(comboIDs) == 0 {
		return deps, nil
	}

	const q = `
		SELECT combo_id, child_combo_id
		FROM combo_lines
		WHERE tenant_id = $1 AND combo_id = ANY($2) AND child_combo_id IS NOT NULL`

	rows, err := s.db.Query(ctx, q, tenantID, comboIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load combo dependencies", err)
	}
	defer rows.Close()

	for rows.Next() {
		var comboID, depID uuid.UUID
		if err := rows.Scan(&comboID, &depID); err != nil {
			return nil, infra.WrapRepoErr("failed to scan combo dependency", err)
		}
		deps[comboID] = append(deps[comboID], depID)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read combo dependencies", err)
	}
	return deps, nil
}

func (s *CostingReadStore) ComboLines(ctx context.Context, tenantID, comboID uuid.UUID) ([]costing.ComboLine, error) {
	const linesQ = `
		SELECT cl.id, cl.kind, cl.recipe_id, cl.product_id, cl.child_combo_id, cl.quantity,
		       COALESCE(r.cost_per_portion, p.unit_price, c.cost_total, 0)
		FROM combo_lines cl
		LEFT JOIN recipes r ON r.id = cl.recipe_id AND r.tenant_id = cl.tenant_id
		LEFT JOIN products p ON p.id = cl.product_id AND p.tenant_id = cl.tenant_id
		LEFT JOIN combos c ON c.id = cl.child_combo_id AND c.tenant_id = cl.tenant_id
		WHERE cl.tenant_id = $1 AND cl.combo_id = $2
		ORDER BY cl.id`

	rows, err := s.db.Query(ctx, linesQ, tenantID, comboID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load combo lines", err)
	}
	defer rows.Close()

	var (
		lines   []costing.ComboLine
		lineIDs []uuid.UUID
	)
	for rows.Next() {
		var (
			l      costing.ComboLine
			lineID uuid.UUID
			kind   string
		)
		if err := rows.Scan(&lineID, &kind, &l.RecipeID, &l.ProductID, &l.ComboID, &l.Quantity, &l.UnitCost); err != nil {
			return nil, infra.WrapRepoErr("failed to scan combo line", err)
		}
		l.Kind = costing.ComboLineKind(kind)
		lines = append(lines, l)
		lineIDs = append(lineIDs, lineID)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read combo lines", err)
	}
	if len(lines) == 0 {
		return nil, nil
	}

	const optionsQ = `
		SELECT clo.combo_line_id, clo.recipe_id, clo.product_id,
		       COALESCE(r.cost_per_portion, p.unit_price, 0)
		FROM combo_line_options clo
		LEFT JOIN recipes r ON r.id = clo.recipe_id AND r.tenant_id = clo.tenant_id
		LEFT JOIN products p ON p.id = clo.product_id AND p.tenant_id = clo.tenant_id
		WHERE clo.tenant_id = $1 AND clo.combo_line_id = ANY($2)`

	optRows, err := s.db.Query(ctx, optionsQ, tenantID, lineIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load combo line options", err)
	}
	defer optRows.Close()

	optionsByLine := make(map[uuid.UUID][]costing.ComboOption)
	for optRows.Next() {
		var (
			lineID uuid.UUID
			opt    costing.ComboOption
		)
		if err := optRows.Scan(&lineID, &opt.RecipeID, &opt.ProductID, &opt.UnitCost); err != nil {
			return nil, infra.WrapRepoErr("failed to scan combo line option", err)
		}
		optionsByLine[lineID] = append(optionsByLine[lineID], opt)
	}
	if err := optRows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read combo line options", err)
	}

	for i := range lines {
		lines[i].Options = optionsByLine[lineIDs[i]]
	}
	return lines, nil
}

// MenuItemsUsing returns menu items built on any of the given subjects, each
// with the referenced subject's current cost joined in.
func (s *CostingReadStore) MenuItemsUsing(ctx context.Context, tenantID uuid.UUID, recipeIDs, comboIDs []uuid.UUID, productID *uuid.UUID) ([]costing.MenuItem, error) {
	if len(recipeIDs) == 0 && len(comboIDs) == 0 && productID == nil {
		return nil, nil
	}

	const q = `
		SELECT mi.id, mi.tenant_id, mi.name, mi.recipe_id, mi.combo_id, mi.product_id,
		       mi.sale_price, mi.cost, mi.margin, mi.cmv_percent,
		       COALESCE(r.cost_per_portion, c.cost_total, p.unit_price, 0) AS current_cost
		FROM menu_items mi
		LEFT JOIN recipes r ON r.id = mi.recipe_id AND r.tenant_id = mi.tenant_id
		LEFT JOIN combos c ON c.id = mi.combo_id AND c.tenant_id = mi.tenant_id
		LEFT JOIN products p ON p.id = mi.product_id AND p.tenant_id = mi.tenant_id
		WHERE mi.tenant_id = $1
		  AND (mi.recipe_id = ANY($2) OR mi.combo_id = ANY($3) OR mi.product_id = $4)`

	rows, err := s.db.Query(ctx, q, tenantID, recipeIDs, comboIDs, productID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load menu items", err)
	}
	defer rows.Close()

	var items []costing.MenuItem
	for rows.Next() {
		var m costing.MenuItem
		err := rows.Scan(&m.ID, &m.TenantID, &m.Name, &m.RecipeID, &m.ComboID, &m.ProductID,
			&m.SalePrice, &m.Cost, &m.Margin, &m.CMVPercent, &m.CurrentCost)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan menu item", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read menu items", err)
	}
	return items, nil
}

func (s *CostingReadStore) queryIDs(ctx context.Context, msg, q string, args ...any) ([]uuid.UUID, error) {
	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(msg, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr(msg, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(msg, err)
	}
	return ids, nil
}
