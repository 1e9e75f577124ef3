package cost

import (
	"context"

	"github.com/invledger/backend/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

// MovingAverageCostStrategy implements weighted average cost calculation
type MovingAverageCostStrategy struct {
	strategy.BaseStrategy
}

// NewMovingAverageCostStrategy creates a new moving average cost strategy
func NewMovingAverageCostStrategy() *MovingAverageCostStrategy {
	return &MovingAverageCostStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"moving_average",
			strategy.StrategyTypeCost,
			"Weighted average of unit price over the cost window",
		),
	}
}

// Method returns the costing method
func (s *MovingAverageCostStrategy) Method() strategy.CostMethod {
	return strategy.CostMethodMovingAverage
}

// UnitCost returns sum(quantity * price) / sum(quantity).
// A zero total quantity, including no entries at all, yields zero.
func (s *MovingAverageCostStrategy) UnitCost(
	ctx context.Context,
	entries []strategy.StockEntry,
) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}

	totalQty := decimal.Zero
	totalCost := decimal.Zero

	for _, entry := range entries {
		totalQty = totalQty.Add(entry.Quantity)
		totalCost = totalCost.Add(entry.TotalCost())
	}

	if totalQty.IsZero() {
		return decimal.Zero, nil
	}

	return totalCost.DivRound(totalQty, divisionPlaces), nil
}
