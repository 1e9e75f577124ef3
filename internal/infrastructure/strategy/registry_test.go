package strategy

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/invledger/backend/internal/domain/shared"
	"github.com/invledger/backend/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock cost strategy for testing
type mockCostStrategy struct {
	strategy.BaseStrategy
}

func newMockCostStrategy(name string) *mockCostStrategy {
	return &mockCostStrategy{
		BaseStrategy: strategy.NewBaseStrategy(name, strategy.StrategyTypeCost, "Mock cost strategy"),
	}
}

func (s *mockCostStrategy) Method() strategy.CostMethod {
	return strategy.CostMethodMovingAverage
}

func (s *mockCostStrategy) UnitCost(ctx context.Context, entries []strategy.StockEntry) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

// Mock reset point policy for testing
type mockResetPolicy struct {
	strategy.BaseStrategy
}

func newMockResetPolicy(name string) *mockResetPolicy {
	return &mockResetPolicy{
		BaseStrategy: strategy.NewBaseStrategy(name, strategy.StrategyTypeResetPoint, "Mock reset policy"),
	}
}

func (p *mockResetPolicy) ShouldSetResetPoint(ctx context.Context, rpCtx strategy.ResetPointContext) (bool, error) {
	return true, nil
}

func TestNewStrategyRegistry(t *testing.T) {
	r := NewStrategyRegistry()
	assert.NotNil(t, r)
	assert.NotNil(t, r.costStrategies)
	assert.NotNil(t, r.resetPointPolicies)
	assert.NotNil(t, r.defaults)
}

func TestRegisterCostStrategy(t *testing.T) {
	r := NewStrategyRegistry()

	t.Run("successful registration", func(t *testing.T) {
		err := r.RegisterCostStrategy(newMockCostStrategy("test_cost"))
		assert.NoError(t, err)
		assert.True(t, r.IsRegistered(strategy.StrategyTypeCost, "test_cost"))
	})

	t.Run("duplicate registration fails", func(t *testing.T) {
		s := newMockCostStrategy("duplicate_cost")
		require.NoError(t, r.RegisterCostStrategy(s))

		err := r.RegisterCostStrategy(s)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestGetCostStrategy(t *testing.T) {
	r := NewStrategyRegistry()
	require.NoError(t, r.RegisterCostStrategy(newMockCostStrategy("get_cost")))

	t.Run("get by name", func(t *testing.T) {
		got, err := r.GetCostStrategy("get_cost")
		assert.NoError(t, err)
		assert.Equal(t, "get_cost", got.Name())
	})

	t.Run("not found", func(t *testing.T) {
		_, err := r.GetCostStrategy("nonexistent")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("get default when name is empty", func(t *testing.T) {
		require.NoError(t, r.SetDefault(strategy.StrategyTypeCost, "get_cost"))
		got, err := r.GetCostStrategy("")
		assert.NoError(t, err)
		assert.Equal(t, "get_cost", got.Name())
	})

	t.Run("no default set", func(t *testing.T) {
		_, err := NewStrategyRegistry().GetCostStrategy("")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestListCostStrategies(t *testing.T) {
	r := NewStrategyRegistry()
	require.NoError(t, r.RegisterCostStrategy(newMockCostStrategy("b_cost")))
	require.NoError(t, r.RegisterCostStrategy(newMockCostStrategy("a_cost")))
	require.NoError(t, r.RegisterCostStrategy(newMockCostStrategy("c_cost")))

	assert.Equal(t, []string{"a_cost", "b_cost", "c_cost"}, r.ListCostStrategies())
}

func TestResetPointPolicies(t *testing.T) {
	r := NewStrategyRegistry()
	require.NoError(t, r.RegisterResetPointPolicy(newMockResetPolicy("b")))
	require.NoError(t, r.RegisterResetPointPolicy(newMockResetPolicy("a")))

	assert.ErrorIs(t, r.RegisterResetPointPolicy(newMockResetPolicy("a")), shared.ErrAlreadyExists)
	assert.Equal(t, []string{"a", "b"}, r.ListResetPointPolicies())

	_, err := r.GetResetPointPolicy("")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, r.SetDefault(strategy.StrategyTypeResetPoint, "b"))
	p, err := r.GetResetPointPolicy("")
	require.NoError(t, err)
	assert.Equal(t, "b", p.Name())

	_, err = r.GetResetPointPolicy("missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSetDefault(t *testing.T) {
	r := NewStrategyRegistry()
	require.NoError(t, r.RegisterCostStrategy(newMockCostStrategy("cost")))

	assert.NoError(t, r.SetDefault(strategy.StrategyTypeCost, "cost"))
	assert.Equal(t, "cost", r.GetDefault(strategy.StrategyTypeCost))

	err := r.SetDefault(strategy.StrategyTypeResetPoint, "cost")
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Empty(t, r.GetDefault(strategy.StrategyTypeResetPoint))

	assert.False(t, r.IsRegistered(strategy.StrategyType("unknown"), "cost"))
}

func TestConcurrentReadWrite(t *testing.T) {
	r := NewStrategyRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = r.RegisterCostStrategy(newMockCostStrategy(fmt.Sprintf("cost_%d", i)))
		}(i)
		go func() {
			defer wg.Done()
			_ = r.ListCostStrategies()
			_ = r.GetDefault(strategy.StrategyTypeCost)
		}()
	}
	wg.Wait()

	assert.Len(t, r.ListCostStrategies(), 50)
}

func TestNewRegistryWithDefaults(t *testing.T) {
	r, err := NewRegistryWithDefaults()
	require.NoError(t, err)

	assert.Equal(t, []string{"last_purchase", "moving_average"}, r.ListCostStrategies())
	assert.Equal(t, []string{"depleted", "never"}, r.ListResetPointPolicies())

	costStrategy, err := r.GetCostStrategy("")
	require.NoError(t, err)
	assert.Equal(t, "moving_average", costStrategy.Name())

	policy, err := r.GetResetPointPolicy("")
	require.NoError(t, err)
	assert.Equal(t, "never", policy.Name())
}

func TestNewRegistryWithPredicate(t *testing.T) {
	r, err := NewRegistryWithPredicate(func(rp strategy.ResetPointContext) bool {
		return rp.InvoiceType == 4
	})
	require.NoError(t, err)

	p, err := r.GetResetPointPolicy("predicate")
	require.NoError(t, err)

	ok, err := p.ShouldSetResetPoint(context.Background(), strategy.ResetPointContext{InvoiceType: 4})
	require.NoError(t, err)
	assert.True(t, ok)
}
