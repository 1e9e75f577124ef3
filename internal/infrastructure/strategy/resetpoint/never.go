package resetpoint

import (
	"context"

	"github.com/invledger/backend/internal/domain/shared/strategy"
)

// NeverPolicy never flags a line on its own; only explicit requests set reset points
type NeverPolicy struct {
	strategy.BaseStrategy
}

// NewNeverPolicy creates the never policy
func NewNeverPolicy() *NeverPolicy {
	return &NeverPolicy{
		BaseStrategy: strategy.NewBaseStrategy("never", strategy.StrategyTypeResetPoint, "Reset points are set only on request"),
	}
}

// ShouldSetResetPoint always returns false
func (p *NeverPolicy) ShouldSetResetPoint(ctx context.Context, _ strategy.ResetPointContext) (bool, error) {
	return false, ctx.Err()
}
