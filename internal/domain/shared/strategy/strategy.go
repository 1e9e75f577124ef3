// Package strategy defines the pluggable ledger calculations: unit-cost
// derivation over a cost window and the reset-point decision.
package strategy

// StrategyType groups strategies that are interchangeable with each other
type StrategyType string

const (
	StrategyTypeCost       StrategyType = "cost"
	StrategyTypeResetPoint StrategyType = "reset_point"
)

func (t StrategyType) String() string {
	return string(t)
}

// Strategy is implemented by every registered calculation.
// Name is the key used in ledger configuration.
type Strategy interface {
	Name() string
	Type() StrategyType
	Description() string
}

// BaseStrategy carries the identifying fields shared by all strategies
type BaseStrategy struct {
	name, description string
	kind              StrategyType
}

// NewBaseStrategy creates a new BaseStrategy
func NewBaseStrategy(name string, kind StrategyType, description string) BaseStrategy {
	return BaseStrategy{name: name, description: description, kind: kind}
}

func (s BaseStrategy) Name() string        { return s.name }
func (s BaseStrategy) Type() StrategyType  { return s.kind }
func (s BaseStrategy) Description() string { return s.description }
