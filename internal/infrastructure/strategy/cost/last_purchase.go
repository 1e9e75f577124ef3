package cost

import (
	"context"

	"github.com/invledger/backend/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

// divisionPlaces is the fractional precision kept for intermediate quotients
const divisionPlaces int32 = 16

// LastPurchaseCostStrategy takes the unit price of the most recent entry
type LastPurchaseCostStrategy struct {
	strategy.BaseStrategy
}

// NewLastPurchaseCostStrategy creates a new last purchase cost strategy
func NewLastPurchaseCostStrategy() *LastPurchaseCostStrategy {
	return &LastPurchaseCostStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"last_purchase",
			strategy.StrategyTypeCost,
			"Unit price of the latest entry by issue date, then creation time",
		),
	}
}

// Method returns the costing method
func (s *LastPurchaseCostStrategy) Method() strategy.CostMethod {
	return strategy.CostMethodLastPurchase
}

// UnitCost returns the price of the entry with the greatest (DateIssue, CreatedAt).
// On a full tie the entry appearing later in the slice wins. No entries yield zero.
func (s *LastPurchaseCostStrategy) UnitCost(
	ctx context.Context,
	entries []strategy.StockEntry,
) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	if len(entries) == 0 {
		return decimal.Zero, nil
	}

	last := entries[0]
	for _, e := range entries[1:] {
		if e.DateIssue.After(last.DateIssue) ||
			(e.DateIssue.Equal(last.DateIssue) && !e.CreatedAt.Before(last.CreatedAt)) {
			last = e
		}
	}
	return last.UnitCost, nil
}
