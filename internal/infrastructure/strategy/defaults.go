package strategy

import (
	"github.com/invledger/backend/internal/domain/shared/strategy"
	"github.com/invledger/backend/internal/infrastructure/strategy/cost"
	"github.com/invledger/backend/internal/infrastructure/strategy/resetpoint"
)

// NewRegistryWithDefaults creates a new registry with the built-in cost strategies
// and reset-point policies registered. Defaults are moving_average and never.
func NewRegistryWithDefaults() (*StrategyRegistry, error) {
	return NewRegistryWithPredicate(nil)
}

// NewRegistryWithPredicate is NewRegistryWithDefaults plus a "predicate" reset-point
// policy backed by fn. A nil fn registers nothing extra.
func NewRegistryWithPredicate(fn resetpoint.Predicate) (*StrategyRegistry, error) {
	r := NewStrategyRegistry()

	movingAvg := cost.NewMovingAverageCostStrategy()
	if err := r.RegisterCostStrategy(movingAvg); err != nil {
		return nil, err
	}
	if err := r.RegisterCostStrategy(cost.NewLastPurchaseCostStrategy()); err != nil {
		return nil, err
	}

	never := resetpoint.NewNeverPolicy()
	if err := r.RegisterResetPointPolicy(never); err != nil {
		return nil, err
	}
	if err := r.RegisterResetPointPolicy(resetpoint.NewDepletedPolicy()); err != nil {
		return nil, err
	}
	if fn != nil {
		if err := r.RegisterResetPointPolicy(resetpoint.NewPredicatePolicy(fn)); err != nil {
			return nil, err
		}
	}

	if err := r.SetDefault(strategy.StrategyTypeCost, movingAvg.Name()); err != nil {
		return nil, err
	}
	if err := r.SetDefault(strategy.StrategyTypeResetPoint, never.Name()); err != nil {
		return nil, err
	}

	return r, nil
}
