package strategy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/invledger/backend/internal/domain/shared"
	"github.com/invledger/backend/internal/domain/shared/strategy"
)

// StrategyRegistry manages strategy registrations
type StrategyRegistry struct {
	mu                 sync.RWMutex
	costStrategies     map[string]strategy.CostCalculationStrategy
	resetPointPolicies map[string]strategy.ResetPointPolicy
	defaults           map[strategy.StrategyType]string
}

// NewStrategyRegistry creates a new strategy registry
func NewStrategyRegistry() *StrategyRegistry {
	return &StrategyRegistry{
		costStrategies:     make(map[string]strategy.CostCalculationStrategy),
		resetPointPolicies: make(map[string]strategy.ResetPointPolicy),
		defaults:           make(map[strategy.StrategyType]string),
	}
}

// RegisterCostStrategy registers a cost calculation strategy
func (r *StrategyRegistry) RegisterCostStrategy(s strategy.CostCalculationStrategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if _, exists := r.costStrategies[name]; exists {
		return fmt.Errorf("%w: cost strategy '%s' already registered", shared.ErrAlreadyExists, name)
	}
	r.costStrategies[name] = s
	return nil
}

// GetCostStrategy returns a cost strategy by name, or the default if name is empty
func (r *StrategyRegistry) GetCostStrategy(name string) (strategy.CostCalculationStrategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.defaults[strategy.StrategyTypeCost]
		if name == "" {
			return nil, fmt.Errorf("%w: no default cost strategy set", shared.ErrNotFound)
		}
	}

	s, exists := r.costStrategies[name]
	if !exists {
		return nil, fmt.Errorf("%w: cost strategy '%s' not found", shared.ErrNotFound, name)
	}
	return s, nil
}

// ListCostStrategies returns all registered cost strategy names
func (r *StrategyRegistry) ListCostStrategies() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.costStrategies)
}

// RegisterResetPointPolicy registers a reset-point policy
func (r *StrategyRegistry) RegisterResetPointPolicy(p strategy.ResetPointPolicy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.resetPointPolicies[name]; exists {
		return fmt.Errorf("%w: reset point policy '%s' already registered", shared.ErrAlreadyExists, name)
	}
	r.resetPointPolicies[name] = p
	return nil
}

// GetResetPointPolicy returns a reset-point policy by name, or the default if name is empty
func (r *StrategyRegistry) GetResetPointPolicy(name string) (strategy.ResetPointPolicy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.defaults[strategy.StrategyTypeResetPoint]
		if name == "" {
			return nil, fmt.Errorf("%w: no default reset point policy set", shared.ErrNotFound)
		}
	}

	p, exists := r.resetPointPolicies[name]
	if !exists {
		return nil, fmt.Errorf("%w: reset point policy '%s' not found", shared.ErrNotFound, name)
	}
	return p, nil
}

// ListResetPointPolicies returns all registered reset-point policy names
func (r *StrategyRegistry) ListResetPointPolicies() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.resetPointPolicies)
}

// SetDefault sets the default strategy for a strategy type
func (r *StrategyRegistry) SetDefault(strategyType strategy.StrategyType, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRegisteredLocked(strategyType, name) {
		return fmt.Errorf("%w: strategy '%s' of type '%s' not found", shared.ErrNotFound, name, strategyType)
	}

	r.defaults[strategyType] = name
	return nil
}

// GetDefault returns the default strategy name for a strategy type
func (r *StrategyRegistry) GetDefault(strategyType strategy.StrategyType) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaults[strategyType]
}

// IsRegistered returns true if a strategy with the given name is registered for the type
func (r *StrategyRegistry) IsRegistered(strategyType strategy.StrategyType, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isRegisteredLocked(strategyType, name)
}

// isRegisteredLocked checks registration without locking (caller must hold lock)
func (r *StrategyRegistry) isRegisteredLocked(strategyType strategy.StrategyType, name string) bool {
	switch strategyType {
	case strategy.StrategyTypeCost:
		_, exists := r.costStrategies[name]
		return exists
	case strategy.StrategyTypeResetPoint:
		_, exists := r.resetPointPolicies[name]
		return exists
	default:
		return false
	}
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
