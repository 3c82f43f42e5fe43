package usecase

import (
	"context"
	"time"

	"menucost/internal/domain/costing"
	"menucost/internal/domain/job"

	"github.com/google/uuid"
)

// EntityStore is the recalculation engine's view of the relational store:
// current-state reads plus reverse-dependency lookups. The engine always
// reads current state at recompute time, never job payloads, which is what
// makes redelivery and out-of-order processing safe.
type EntityStore interface {
	ProductByID(ctx context.Context, tenantID, id uuid.UUID) (*costing.Product, error)
	RecipeByID(ctx context.Context, tenantID, id uuid.UUID) (*costing.Recipe, error)
	ComboByID(ctx context.Context, tenantID, id uuid.UUID) (*costing.Combo, error)

	RecipesUsingProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]uuid.UUID, error)
	RecipesUsingRecipe(ctx context.Context, tenantID, recipeID uuid.UUID) ([]uuid.UUID, error)
	RecipeDependencies(ctx context.Context, tenantID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
	RecipeLines(ctx context.Context, tenantID, recipeID uuid.UUID) ([]costing.IngredientLine, error)

	CombosUsingRecipes(ctx context.Context, tenantID uuid.UUID, recipeIDs []uuid.UUID) ([]uuid.UUID, error)
	CombosUsingProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]uuid.UUID, error)
	CombosUsingCombo(ctx context.Context, tenantID, comboID uuid.UUID) ([]uuid.UUID, error)
	ComboDependencies(ctx context.Context, tenantID uuid.UUID, comboIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
	ComboLines(ctx context.Context, tenantID, comboID uuid.UUID) ([]costing.ComboLine, error)

	MenuItemsUsing(ctx context.Context, tenantID uuid.UUID, recipeIDs, comboIDs []uuid.UUID, productID *uuid.UUID) ([]costing.MenuItem, error)
}

// CostWriter applies individually-scoped cost updates, one entity at a time.
// No transaction spans a cascade: a crash mid-cascade leaves a partially
// updated graph and redelivery of the same root heals it.
type CostWriter interface {
	UpdateRecipeCost(ctx context.Context, tenantID, id uuid.UUID, costPerPortion float64) error
	UpdateComboCost(ctx context.Context, tenantID, id uuid.UUID, costTotal float64) error
	UpdateMenuItemDerived(ctx context.Context, tenantID, id uuid.UUID, cost, margin, cmvPercent float64) error
}

type MetricStatus string

const (
	MetricCompleted MetricStatus = "COMPLETED"
	MetricFailed    MetricStatus = "FAILED"
)

// WorkerMetric and ErrorEntry are append-only operational records. The
// pipeline never reads them back.
type WorkerMetric struct {
	Queue    string
	JobType  job.Type
	Duration time.Duration
	Status   MetricStatus
	Attempts int
}

type ErrorEntry struct {
	Queue    string
	JobType  job.Type
	JobID    uuid.UUID
	TenantID uuid.UUID
	Message  string
	Stack    []string
	Payload  []byte
}

type MetricsSink interface {
	RecordMetric(ctx context.Context, m WorkerMetric) error
	RecordError(ctx context.Context, e ErrorEntry) error
}

// CostsRecalculatedEvent is emitted to the outbound alert channel after a
// cascade, so the alert collaborator can regenerate price alerts on its own
// schedule. The cascade's outcome is never coupled to that collaborator.
type CostsRecalculatedEvent struct {
	TenantID  uuid.UUID   `json:"tenant_id"`
	JobID     uuid.UUID   `json:"job_id"`
	JobType   job.Type    `json:"job_type"`
	Recipes   []uuid.UUID `json:"recipes,omitempty"`
	Combos    []uuid.UUID `json:"combos,omitempty"`
	MenuItems []uuid.UUID `json:"menu_items,omitempty"`
}

type AlertNotifier interface {
	CostsRecalculated(ctx context.Context, e CostsRecalculatedEvent)
}

// NoopAlerts satisfies AlertNotifier when no alert collaborator is wired.
type NoopAlerts struct{}

func (NoopAlerts) CostsRecalculated(context.Context, CostsRecalculatedEvent) {}

// Seeder provisions demo data for a tenant. Seeding itself is an external
// collaborator; the pipeline only schedules it and relays progress.
type Seeder interface {
	Seed(ctx context.Context, tenantID uuid.UUID, progress func(pct int)) error
}

// NoopSeeder completes immediately; used when no seed collaborator is wired.
type NoopSeeder struct{}

func (NoopSeeder) Seed(_ context.Context, _ uuid.UUID, progress func(pct int)) error {
	if progress != nil {
		progress(100)
	}
	return nil
}

// CacheInvalidator is the slice of the cache layer the invalidation
// coordinator needs. Implemented by *kv.Cache.
type CacheInvalidator interface {
	Namespace() string
	InvalidateTenant(ctx context.Context, tenantID string) error
}
