package costing

import (
	"math"

	"menucost/internal/pkg/errs"
)

var (
	ErrNegativeCost     = errs.New("computed cost is negative")
	ErrInvalidPortions  = errs.New("recipe portions must be positive")
	ErrCyclicDependency = errs.New("cyclic recipe dependency")
)

// Calculator owns the cost aggregation rules. The pipeline only decides when
// and in which order subjects are recomputed; the formulas live here so they
// can be swapped without touching the cascade.
type Calculator interface {
	RecipeCost(r Recipe, lines []IngredientLine) (float64, error)
	ComboCost(c Combo, lines []ComboLine) (float64, error)
}

type StandardCalculator struct{}

func NewStandardCalculator() *StandardCalculator {
	return &StandardCalculator{}
}

// RecipeCost returns cost per portion: total ingredient cost divided by yield.
func (sc *StandardCalculator) RecipeCost(r Recipe, lines []IngredientLine) (float64, error) {
	if r.Portions <= 0 {
		return 0, ErrInvalidPortions
	}
	var total float64
	for _, l := range lines {
		total += l.Quantity * l.UnitCost
	}
	cost := total / r.Portions
	if cost < 0 {
		return 0, ErrNegativeCost
	}
	return cost, nil
}

// ComboCost sums fixed lines at unit cost x quantity and option groups at the
// most expensive option in the group.
func (sc *StandardCalculator) ComboCost(c Combo, lines []ComboLine) (float64, error) {
	var total float64
	for _, l := range lines {
		switch l.Kind {
		case ComboLineOptionGroup:
			var maxCost float64 = math.Inf(-1)
			for _, opt := range l.Options {
				if opt.UnitCost > maxCost {
					maxCost = opt.UnitCost
				}
			}
			if len(l.Options) == 0 {
				continue
			}
			qty := l.Quantity
			if qty == 0 {
				qty = 1
			}
			total += maxCost * qty
		default:
			total += l.UnitCost * l.Quantity
		}
	}
	if total < 0 {
		return 0, ErrNegativeCost
	}
	return total, nil
}

// Margin is the absolute profit per sale.
func Margin(salePrice, cost float64) float64 {
	return salePrice - cost
}

// CMVPercent is cost of goods sold as a percentage of sale price.
// A zero sale price yields 0 rather than dividing by zero.
func CMVPercent(cost, salePrice float64) float64 {
	if salePrice == 0 {
		return 0
	}
	return cost / salePrice * 100
}
