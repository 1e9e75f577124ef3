package inventory

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/invledger/backend/internal/domain/inventory"
	"github.com/invledger/backend/internal/domain/shared"
	"github.com/invledger/backend/internal/domain/shared/strategy"
	"github.com/invledger/backend/internal/domain/trade"
	strategyinfra "github.com/invledger/backend/internal/infrastructure/strategy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStockMovementRepository is a mock implementation of StockMovementRepository
type MockStockMovementRepository struct {
	mock.Mock
}

func (m *MockStockMovementRepository) FindByKey(ctx context.Context, key inventory.MovementKey) (*inventory.StockMovement, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) FindByInvoice(ctx context.Context, invoice trade.InvoiceKey) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, invoice)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	return m.Called(ctx, movement).Error(0)
}

func (m *MockStockMovementRepository) Update(ctx context.Context, movement *inventory.StockMovement) error {
	return m.Called(ctx, movement).Error(0)
}

func (m *MockStockMovementRepository) Delete(ctx context.Context, key inventory.MovementKey) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockStockMovementRepository) ExistsForInvoice(ctx context.Context, invoice trade.InvoiceKey) (bool, error) {
	args := m.Called(ctx, invoice)
	return args.Bool(0), args.Error(1)
}

func (m *MockStockMovementRepository) LedgerFor(ctx context.Context, itemEAN string) (inventory.Ledger, error) {
	args := m.Called(ctx, itemEAN)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(inventory.Ledger), args.Error(1)
}

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func line(typ trade.InvoiceType, amount, price string, step int) inventory.LedgerEntry {
	return inventory.LedgerEntry{
		Invoice:      trade.InvoiceKey{Number: strconv.Itoa(step + 1)},
		InvoiceType:  typ,
		DateIssue:    t0.AddDate(0, 0, step),
		ItemEAN:      "A",
		Amount:       decimal.RequireFromString(amount),
		PricePerUnit: decimal.RequireFromString(price),
		CreatedAt:    t0.Add(time.Duration(step) * time.Minute),
	}
}

func newService(t *testing.T, repo *MockStockMovementRepository, cfg LedgerConfig) *LedgerService {
	t.Helper()
	registry, err := strategyinfra.NewRegistryWithPredicate(func(rp strategy.ResetPointContext) bool {
		return rp.NewAmount.GreaterThanOrEqual(decimal.NewFromInt(1000))
	})
	require.NoError(t, err)
	return NewLedgerService(repo, registry, cfg, nil)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestLedgerService_CurrentQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("signed sum over all types", func(t *testing.T) {
		repo := new(MockStockMovementRepository)
		repo.On("LedgerFor", ctx, "A").Return(inventory.Ledger{
			line(trade.InvoiceTypePurchase, "100", "50", 0),
			line(trade.InvoiceTypeSale, "30", "80", 1),
			line(trade.InvoiceTypeProforma, "500", "80", 2),
			line(trade.InvoiceTypePurchaseCreditNote, "5", "50", 3),
		}, nil)

		qty, err := newService(t, repo, LedgerConfig{}).CurrentQuantity(ctx, "A")
		require.NoError(t, err)
		assertDecimal(t, "75", qty)
	})

	t.Run("unknown item is zero", func(t *testing.T) {
		repo := new(MockStockMovementRepository)
		repo.On("LedgerFor", ctx, "none").Return(inventory.Ledger{}, nil)

		qty, err := newService(t, repo, LedgerConfig{}).CurrentQuantity(ctx, "none")
		require.NoError(t, err)
		assert.True(t, qty.IsZero())
	})

	t.Run("oversold stock stays negative", func(t *testing.T) {
		repo := new(MockStockMovementRepository)
		repo.On("LedgerFor", ctx, "A").Return(inventory.Ledger{
			line(trade.InvoiceTypePurchase, "2", "1", 0),
			line(trade.InvoiceTypeSale, "5", "1", 1),
		}, nil)

		qty, err := newService(t, repo, LedgerConfig{}).CurrentQuantity(ctx, "A")
		require.NoError(t, err)
		assertDecimal(t, "-3", qty)
	})

	t.Run("store error is wrapped", func(t *testing.T) {
		repo := new(MockStockMovementRepository)
		boom := errors.New("disk I/O error")
		repo.On("LedgerFor", ctx, "A").Return(nil, boom)

		_, err := newService(t, repo, LedgerConfig{}).CurrentQuantity(ctx, "A")
		assert.ErrorIs(t, err, boom)
	})
}

func TestLedgerService_CostBasis(t *testing.T) {
	ctx := context.Background()

	t.Run("weighted average and last price", func(t *testing.T) {
		repo := new(MockStockMovementRepository)
		repo.On("LedgerFor", ctx, "A").Return(inventory.Ledger{
			line(trade.InvoiceTypePurchase, "10", "5", 0),
			line(trade.InvoiceTypePurchase, "30", "7", 1),
			line(trade.InvoiceTypeProforma, "10", "100", 2),
		}, nil)
		svc := newService(t, repo, LedgerConfig{})

		avg, err := svc.AverageBuyPrice(ctx, "A")
		require.NoError(t, err)
		assertDecimal(t, "6.5", avg)

		last, err := svc.LastBuyPrice(ctx, "A")
		require.NoError(t, err)
		assertDecimal(t, "7", last)
	})

	t.Run("reset point rebases the window", func(t *testing.T) {
		reset := line(trade.InvoiceTypePurchase, "50", "80", 1)
		reset.ResetPoint = true
		repo := new(MockStockMovementRepository)
		repo.On("LedgerFor", ctx, "A").Return(inventory.Ledger{
			line(trade.InvoiceTypePurchase, "1000", "50", 0),
			reset,
		}, nil)
		svc := newService(t, repo, LedgerConfig{})

		avg, err := svc.AverageBuyPrice(ctx, "A")
		require.NoError(t, err)
		assertDecimal(t, "80", avg)

		qty, err := svc.CurrentQuantity(ctx, "A")
		require.NoError(t, err)
		assertDecimal(t, "1050", qty)
	})

	t.Run("empty window is zero", func(t *testing.T) {
		repo := new(MockStockMovementRepository)
		repo.On("LedgerFor", ctx, "A").Return(inventory.Ledger{
			line(trade.InvoiceTypeProforma, "10", "5", 0),
		}, nil)
		svc := newService(t, repo, LedgerConfig{})

		avg, err := svc.AverageBuyPrice(ctx, "A")
		require.NoError(t, err)
		assert.True(t, avg.IsZero())
		last, err := svc.LastBuyPrice(ctx, "A")
		require.NoError(t, err)
		assert.True(t, last.IsZero())
	})

	t.Run("last price follows issue date, not insertion", func(t *testing.T) {
		backdated := line(trade.InvoiceTypePurchase, "1", "9", 5)
		backdated.DateIssue = t0.AddDate(0, 0, -10)
		repo := new(MockStockMovementRepository)
		repo.On("LedgerFor", ctx, "A").Return(inventory.Ledger{
			line(trade.InvoiceTypePurchase, "1", "4", 0),
			backdated,
		}, nil)

		last, err := newService(t, repo, LedgerConfig{}).LastBuyPrice(ctx, "A")
		require.NoError(t, err)
		assertDecimal(t, "4", last)
	})

	t.Run("configured strategy names are honoured", func(t *testing.T) {
		repo := new(MockStockMovementRepository)
		repo.On("LedgerFor", ctx, "A").Return(inventory.Ledger{
			line(trade.InvoiceTypePurchase, "10", "5", 0),
			line(trade.InvoiceTypePurchase, "10", "7", 1),
		}, nil)
		svc := newService(t, repo, LedgerConfig{AverageStrategy: "last_purchase"})

		avg, err := svc.AverageBuyPrice(ctx, "A")
		require.NoError(t, err)
		assertDecimal(t, "7", avg)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		repo := new(MockStockMovementRepository)
		repo.On("LedgerFor", ctx, "A").Return(inventory.Ledger{}, nil)
		svc := newService(t, repo, LedgerConfig{AverageStrategy: "fifo"})

		_, err := svc.AverageBuyPrice(ctx, "A")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestLedgerService_ShouldSetResetPoint(t *testing.T) {
	ctx := context.Background()
	depleted := inventory.Ledger{
		line(trade.InvoiceTypePurchase, "10", "5", 0),
		line(trade.InvoiceTypeSale, "10", "9", 1),
	}

	tests := []struct {
		name   string
		policy string
		typ    trade.InvoiceType
		amount string
		want   bool
	}{
		{"never policy by default", "", trade.InvoiceTypePurchase, "5", false},
		{"depleted stock restocked", "depleted", trade.InvoiceTypePurchase, "5", true},
		{"depleted stock but sale line", "depleted", trade.InvoiceTypeSale, "5", false},
		{"depleted stock with zero amount", "depleted", trade.InvoiceTypePurchase, "0", false},
		{"predicate below threshold", "predicate", trade.InvoiceTypePurchase, "999", false},
		{"predicate at threshold", "predicate", trade.InvoiceTypePurchase, "1000", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockStockMovementRepository)
			repo.On("LedgerFor", ctx, "A").Return(depleted, nil)
			svc := newService(t, repo, LedgerConfig{ResetPolicy: tt.policy})

			got, err := svc.ShouldSetResetPoint(ctx, "A", tt.typ, decimal.RequireFromString(tt.amount))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("stock on hand is not depleted", func(t *testing.T) {
		repo := new(MockStockMovementRepository)
		repo.On("LedgerFor", ctx, "A").Return(inventory.Ledger{line(trade.InvoiceTypePurchase, "1", "5", 0)}, nil)
		svc := newService(t, repo, LedgerConfig{ResetPolicy: "depleted"})

		got, err := svc.ShouldSetResetPoint(ctx, "A", trade.InvoiceTypePurchase, decimal.NewFromInt(5))
		require.NoError(t, err)
		assert.False(t, got)
	})

	t.Run("unknown policy", func(t *testing.T) {
		svc := newService(t, new(MockStockMovementRepository), LedgerConfig{ResetPolicy: "sometimes"})
		_, err := svc.ShouldSetResetPoint(ctx, "A", trade.InvoiceTypePurchase, decimal.NewFromInt(5))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestLedgerService_StockCard(t *testing.T) {
	ctx := context.Background()
	reset := line(trade.InvoiceTypePurchase, "50", "80", 1)
	reset.ResetPoint = true
	repo := new(MockStockMovementRepository)
	repo.On("LedgerFor", ctx, "A").Return(inventory.Ledger{
		line(trade.InvoiceTypePurchase, "1000", "50", 0),
		reset,
		line(trade.InvoiceTypeSale, "50", "120", 2),
	}, nil).Once()

	card, err := newService(t, repo, LedgerConfig{}).StockCard(ctx, "A")
	require.NoError(t, err)
	assertDecimal(t, "1000", card.Quantity)
	// sale lines count toward the average alongside purchases
	assertDecimal(t, "100", card.AverageBuyPrice)
	assertDecimal(t, "120", card.LastBuyPrice)
	require.NotNil(t, card.ResetAt)
	assert.Equal(t, reset.CreatedAt, *card.ResetAt)
	assert.Equal(t, 3, card.MovementCount)
	repo.AssertExpectations(t)
}
