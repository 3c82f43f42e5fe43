package usecase

import (
	"context"
	"log/slog"
	"math"

	"menucost/internal/domain/costing"
	"menucost/internal/domain/job"
	"menucost/internal/infra"
	"menucost/internal/pkg/errs"

	"github.com/google/uuid"
)

// Cost writes below this delta are skipped; re-running a cascade against an
// already-consistent graph recomputes everything and writes nothing.
const costEpsilon = 1e-9

// Touched is the outcome of one cascade run, consumed by the invalidation
// coordinator. Each entity appears at most once per run.
type Touched struct {
	Recipes   []uuid.UUID
	Combos    []uuid.UUID
	MenuItems []uuid.UUID
	Ran       bool
	Seeded    bool
}

// CascadeEngine walks the dependency graph forward from a change root
// (product -> recipes -> combos -> menu items) and recomputes costs at each
// level from the entity store's current state.
type CascadeEngine struct {
	store  EntityStore
	writer CostWriter
	calc   costing.Calculator
	seeder Seeder
	logger *slog.Logger
}

func NewCascadeEngine(store EntityStore, writer CostWriter, calc costing.Calculator, seeder Seeder, logger *slog.Logger) *CascadeEngine {
	return &CascadeEngine{
		store:  store,
		writer: writer,
		calc:   calc,
		seeder: seeder,
		logger: logger,
	}
}

// Run dispatches a job to the matching cascade entry point. progress receives
// values in 0-95; the worker owns the final step. A change root that no
// longer exists completes as a no-op success: a deleted entity has nothing
// left to cascade.
func (e *CascadeEngine) Run(ctx context.Context, j job.Job, progress func(pct int)) (Touched, error) {
	if progress == nil {
		progress = func(int) {}
	}

	switch j.Type {
	case job.TypePriceChange:
		return e.runPriceChange(ctx, j.TenantID, j.SubjectID, progress)
	case job.TypeRecipeChange:
		return e.runRecipeChange(ctx, j.TenantID, j.SubjectID, progress)
	case job.TypeComboChange:
		return e.runComboChange(ctx, j.TenantID, j.SubjectID, progress)
	case job.TypeSeedData:
		if err := e.seeder.Seed(ctx, j.TenantID, progress); err != nil {
			return Touched{}, errs.Wrap(err, "seed failed")
		}
		return Touched{Ran: true, Seeded: true}, nil
	default:
		return Touched{}, errs.Mark(errs.New("unsupported job type "+string(j.Type)), errs.ErrUnknownJobType)
	}
}

func (e *CascadeEngine) runPriceChange(ctx context.Context, tenantID, productID uuid.UUID, progress func(int)) (Touched, error) {
	if _, err := e.store.ProductByID(ctx, tenantID, productID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			e.logger.Info("price-change root no longer exists, skipping", "tenant_id", tenantID, "product_id", productID)
			return Touched{}, nil
		}
		return Touched{}, err
	}

	seeds, err := e.store.RecipesUsingProduct(ctx, tenantID, productID)
	if err != nil {
		return Touched{}, err
	}
	return e.cascadeFromRecipes(ctx, tenantID, seeds, &productID, progress)
}

func (e *CascadeEngine) runRecipeChange(ctx context.Context, tenantID, recipeID uuid.UUID, progress func(int)) (Touched, error) {
	if _, err := e.store.RecipeByID(ctx, tenantID, recipeID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			e.logger.Info("recipe-change root no longer exists, skipping", "tenant_id", tenantID, "recipe_id", recipeID)
			return Touched{}, nil
		}
		return Touched{}, err
	}
	return e.cascadeFromRecipes(ctx, tenantID, []uuid.UUID{recipeID}, nil, progress)
}

func (e *CascadeEngine) runComboChange(ctx context.Context, tenantID, comboID uuid.UUID, progress func(int)) (Touched, error) {
	if _, err := e.store.ComboByID(ctx, tenantID, comboID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			e.logger.Info("combo-change root no longer exists, skipping", "tenant_id", tenantID, "combo_id", comboID)
			return Touched{}, nil
		}
		return Touched{}, err
	}
	return e.cascadeFromCombos(ctx, tenantID, Touched{Ran: true}, []uuid.UUID{comboID}, progress)
}

// cascadeFromRecipes is the shared recipe -> combo -> menu-item pipeline.
// productID is set only for price-change roots, where combos with direct
// product options are affected too.
func (e *CascadeEngine) cascadeFromRecipes(ctx context.Context, tenantID uuid.UUID, seeds []uuid.UUID, productID *uuid.UUID, progress func(int)) (Touched, error) {
	touched := Touched{Ran: true}

	affected, err := e.closure(seeds, func(id uuid.UUID) ([]uuid.UUID, error) {
		return e.store.RecipesUsingRecipe(ctx, tenantID, id)
	})
	if err != nil {
		return touched, err
	}
	progress(10)

	// Dependency order: a recipe's cost is final only after every sub-recipe
	// it uses has been finalized. A cycle is a data error, surfaced instead
	// of iterated on.
	deps, err := e.store.RecipeDependencies(ctx, tenantID, affected)
	if err != nil {
		return touched, err
	}
	order, err := costing.TopoOrder(affected, deps)
	if err != nil {
		return touched, errs.Wrap(err, "recipe graph is not a DAG")
	}

	for i, id := range order {
		recomputed, err := e.recomputeRecipe(ctx, tenantID, id)
		if err != nil {
			return touched, err
		}
		if recomputed {
			touched.Recipes = append(touched.Recipes, id)
		}
		progress(10 + 40*(i+1)/max(len(order), 1))
	}
	progress(50)

	comboSeeds, err := e.store.CombosUsingRecipes(ctx, tenantID, touched.Recipes)
	if err != nil {
		return touched, err
	}
	if productID != nil {
		direct, err := e.store.CombosUsingProduct(ctx, tenantID, *productID)
		if err != nil {
			return touched, err
		}
		comboSeeds = append(comboSeeds, direct...)
	}

	return e.cascadeFromCombosWith(ctx, tenantID, touched, comboSeeds, productID, progress)
}

func (e *CascadeEngine) cascadeFromCombos(ctx context.Context, tenantID uuid.UUID, touched Touched, seeds []uuid.UUID, progress func(int)) (Touched, error) {
	progress(50)
	return e.cascadeFromCombosWith(ctx, tenantID, touched, seeds, nil, progress)
}

func (e *CascadeEngine) cascadeFromCombosWith(ctx context.Context, tenantID uuid.UUID, touched Touched, seeds []uuid.UUID, productID *uuid.UUID, progress func(int)) (Touched, error) {
	affected, err := e.closure(seeds, func(id uuid.UUID) ([]uuid.UUID, error) {
		return e.store.CombosUsingCombo(ctx, tenantID, id)
	})
	if err != nil {
		return touched, err
	}

	deps, err := e.store.ComboDependencies(ctx, tenantID, affected)
	if err != nil {
		return touched, err
	}
	order, err := costing.TopoOrder(affected, deps)
	if err != nil {
		return touched, errs.Wrap(err, "combo graph is not a DAG")
	}

	for i, id := range order {
		recomputed, err := e.recomputeCombo(ctx, tenantID, id)
		if err != nil {
			return touched, err
		}
		if recomputed {
			touched.Combos = append(touched.Combos, id)
		}
		progress(50 + 25*(i+1)/max(len(order), 1))
	}
	progress(75)

	items, err := e.store.MenuItemsUsing(ctx, tenantID, touched.Recipes, touched.Combos, productID)
	if err != nil {
		return touched, err
	}
	for i, item := range items {
		if err := e.recomputeMenuItem(ctx, item); err != nil {
			return touched, err
		}
		touched.MenuItems = append(touched.MenuItems, item.ID)
		progress(75 + 20*(i+1)/max(len(items), 1))
	}
	progress(95)

	return touched, nil
}

// closure walks the reverse-dependency graph breadth-first. The visited set
// both deduplicates entities reachable via multiple paths and bounds the walk
// on cyclic data.
func (e *CascadeEngine) closure(seeds []uuid.UUID, dependents func(uuid.UUID) ([]uuid.UUID, error)) ([]uuid.UUID, error) {
	visited := make(map[uuid.UUID]bool, len(seeds))
	queue := append([]uuid.UUID(nil), seeds...)
	var out []uuid.UUID

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		out = append(out, id)

		next, err := dependents(id)
		if err != nil {
			return nil, err
		}
		for _, d := range next {
			if !visited[d] {
				queue = append(queue, d)
			}
		}
	}
	return out, nil
}

// recomputeRecipe recomputes one recipe from the store's current state and
// writes only when the cost actually changed. Validation failures skip the
// entity and let the cascade continue for its siblings.
func (e *CascadeEngine) recomputeRecipe(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	recipe, err := e.store.RecipeByID(ctx, tenantID, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return false, nil // deleted mid-cascade
		}
		return false, err
	}

	lines, err := e.store.RecipeLines(ctx, tenantID, id)
	if err != nil {
		return false, err
	}

	cost, err := e.calc.RecipeCost(*recipe, lines)
	if err != nil {
		e.logger.Warn("recipe failed cost validation, skipping update",
			"tenant_id", tenantID, "recipe_id", id, "error", err)
		return false, nil
	}

	if !costChanged(cost, recipe.CostPerPortion) {
		return true, nil
	}
	if err := e.writer.UpdateRecipeCost(ctx, tenantID, id, cost); err != nil {
		return false, err
	}
	return true, nil
}

func (e *CascadeEngine) recomputeCombo(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	combo, err := e.store.ComboByID(ctx, tenantID, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return false, nil
		}
		return false, err
	}

	lines, err := e.store.ComboLines(ctx, tenantID, id)
	if err != nil {
		return false, err
	}

	cost, err := e.calc.ComboCost(*combo, lines)
	if err != nil {
		e.logger.Warn("combo failed cost validation, skipping update",
			"tenant_id", tenantID, "combo_id", id, "error", err)
		return false, nil
	}

	if !costChanged(cost, combo.CostTotal) {
		return true, nil
	}
	if err := e.writer.UpdateComboCost(ctx, tenantID, id, cost); err != nil {
		return false, err
	}
	return true, nil
}

// recomputeMenuItem derives margin and CMV% from the referenced subject's
// current cost.
func (e *CascadeEngine) recomputeMenuItem(ctx context.Context, item costing.MenuItem) error {
	cost := item.CurrentCost
	margin := costing.Margin(item.SalePrice, cost)
	cmv := costing.CMVPercent(cost, item.SalePrice)

	if !costChanged(cost, item.Cost) && !costChanged(margin, item.Margin) && !costChanged(cmv, item.CMVPercent) {
		return nil
	}
	return e.writer.UpdateMenuItemDerived(ctx, item.TenantID, item.ID, cost, margin, cmv)
}

func costChanged(a, b float64) bool {
	return math.Abs(a-b) > costEpsilon
}
