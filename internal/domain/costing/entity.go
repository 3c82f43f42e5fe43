package costing

import (
	"github.com/google/uuid"
)

// Cost subjects are snapshots of the entity store's current state. The store
// remains the source of truth; every cost field here is a pure function of its
// dependencies' current costs.

type Product struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Name      string
	UnitPrice float64
}

type Recipe struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	Name           string
	Portions       float64
	CostPerPortion float64
}

// IngredientLine is one line of a recipe: either a product or a sub-recipe.
// UnitCost carries the dependency's cost as read from the store at recompute
// time (product unit price, or sub-recipe cost per portion).
type IngredientLine struct {
	ProductID *uuid.UUID
	RecipeID  *uuid.UUID
	Quantity  float64
	UnitCost  float64
}

type Combo struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Name      string
	CostTotal float64
}

type ComboLineKind string

const (
	// ComboLineItem is a fixed line: cost = unit cost x quantity.
	ComboLineItem ComboLineKind = "item"
	// ComboLineOptionGroup lets the customer pick one option; the group is
	// costed at its most expensive option so margins hold for any pick.
	ComboLineOptionGroup ComboLineKind = "option_group"
)

type ComboLine struct {
	Kind      ComboLineKind
	RecipeID  *uuid.UUID
	ProductID *uuid.UUID
	ComboID   *uuid.UUID
	Quantity  float64
	UnitCost  float64
	Options   []ComboOption
}

type ComboOption struct {
	RecipeID  *uuid.UUID
	ProductID *uuid.UUID
	UnitCost  float64
}

// MenuItem references exactly one of recipe, combo or product variant.
// CurrentCost is the referenced subject's cost as read from the store.
type MenuItem struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Name        string
	RecipeID    *uuid.UUID
	ComboID     *uuid.UUID
	ProductID   *uuid.UUID
	SalePrice   float64
	Cost        float64
	Margin      float64
	CMVPercent  float64
	CurrentCost float64
}
