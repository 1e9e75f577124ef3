package resetpoint

import (
	"context"

	"github.com/invledger/backend/internal/domain/shared/strategy"
)

// DepletedPolicy rebases the cost window when stock is replenished after
// it ran out: the quantity before the new line is <= 0 and the line adds stock.
type DepletedPolicy struct {
	strategy.BaseStrategy
}

// NewDepletedPolicy creates the depleted policy
func NewDepletedPolicy() *DepletedPolicy {
	return &DepletedPolicy{
		BaseStrategy: strategy.NewBaseStrategy("depleted", strategy.StrategyTypeResetPoint, "Reset on the first inbound line after stock ran out"),
	}
}

// ShouldSetResetPoint implements strategy.ResetPointPolicy
func (p *DepletedPolicy) ShouldSetResetPoint(ctx context.Context, rpCtx strategy.ResetPointContext) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if rpCtx.InvoiceSign <= 0 {
		return false, nil
	}
	return !rpCtx.CurrentQuantity.IsPositive() && rpCtx.NewAmount.IsPositive(), nil
}
