package resetpoint

import (
	"context"

	"github.com/invledger/backend/internal/domain/shared/strategy"
)

// Predicate decides a reset point from the line context
type Predicate func(strategy.ResetPointContext) bool

// PredicatePolicy delegates the decision to a host-supplied function
type PredicatePolicy struct {
	strategy.BaseStrategy
	fn Predicate
}

// NewPredicatePolicy creates a policy named "predicate" around fn
func NewPredicatePolicy(fn Predicate) *PredicatePolicy {
	return &PredicatePolicy{
		BaseStrategy: strategy.NewBaseStrategy("predicate", strategy.StrategyTypeResetPoint, "Host supplied reset point predicate"),
		fn:           fn,
	}
}

// ShouldSetResetPoint implements strategy.ResetPointPolicy
func (p *PredicatePolicy) ShouldSetResetPoint(ctx context.Context, rpCtx strategy.ResetPointContext) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if p.fn == nil {
		return false, nil
	}
	return p.fn(rpCtx), nil
}
