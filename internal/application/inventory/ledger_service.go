package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/invledger/backend/internal/domain/inventory"
	"github.com/invledger/backend/internal/domain/shared/strategy"
	"github.com/invledger/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StrategyProvider provides the cost strategies and reset-point policies by name
type StrategyProvider interface {
	GetCostStrategy(name string) (strategy.CostCalculationStrategy, error)
	GetResetPointPolicy(name string) (strategy.ResetPointPolicy, error)
}

// LedgerConfig selects strategies by registry name. Empty cost names fall back to
// moving_average and last_purchase; an empty reset policy uses the registry default.
type LedgerConfig struct {
	AverageStrategy   string
	LastPriceStrategy string
	ResetPolicy       string
}

// StockCard is the ledger summary of one item
type StockCard struct {
	ItemEAN         string          `json:"item_ean"`
	Quantity        decimal.Decimal `json:"quantity"`
	AverageBuyPrice decimal.Decimal `json:"average_buy_price"`
	LastBuyPrice    decimal.Decimal `json:"last_buy_price"`
	ResetAt         *time.Time      `json:"reset_at"`
	MovementCount   int             `json:"movement_count"`
}

// LedgerService derives stock quantity and cost basis from the movement history
type LedgerService struct {
	movementRepo inventory.StockMovementRepository
	strategies   StrategyProvider
	cfg          LedgerConfig
	logger       *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	movementRepo inventory.StockMovementRepository,
	strategies StrategyProvider,
	cfg LedgerConfig,
	logger *zap.Logger,
) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.AverageStrategy == "" {
		cfg.AverageStrategy = strategy.CostMethodMovingAverage.String()
	}
	if cfg.LastPriceStrategy == "" {
		cfg.LastPriceStrategy = strategy.CostMethodLastPurchase.String()
	}
	return &LedgerService{
		movementRepo: movementRepo,
		strategies:   strategies,
		cfg:          cfg,
		logger:       logger.Named("ledger_service"),
	}
}

// CurrentQuantity returns the signed sum of all movements of an item.
// An item without movements has zero stock; negative stock is not clamped.
func (s *LedgerService) CurrentQuantity(ctx context.Context, ean string) (decimal.Decimal, error) {
	ledger, err := s.movementRepo.LedgerFor(ctx, ean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load ledger for %s: %w", ean, err)
	}
	return ledger.Quantity(), nil
}

// AverageBuyPrice returns the weighted average unit price over the cost window
func (s *LedgerService) AverageBuyPrice(ctx context.Context, ean string) (decimal.Decimal, error) {
	ledger, err := s.movementRepo.LedgerFor(ctx, ean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load ledger for %s: %w", ean, err)
	}
	return s.unitCost(ctx, s.cfg.AverageStrategy, ledger)
}

// LastBuyPrice returns the unit price of the latest movement in the cost window
func (s *LedgerService) LastBuyPrice(ctx context.Context, ean string) (decimal.Decimal, error) {
	ledger, err := s.movementRepo.LedgerFor(ctx, ean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load ledger for %s: %w", ean, err)
	}
	return s.unitCost(ctx, s.cfg.LastPriceStrategy, ledger)
}

// ShouldSetResetPoint asks the configured policy whether a new line of newAmount
// on an invoice of invoiceType should become the cost baseline of the item
func (s *LedgerService) ShouldSetResetPoint(
	ctx context.Context,
	ean string,
	invoiceType trade.InvoiceType,
	newAmount decimal.Decimal,
) (bool, error) {
	policy, err := s.strategies.GetResetPointPolicy(s.cfg.ResetPolicy)
	if err != nil {
		return false, err
	}
	qty, err := s.CurrentQuantity(ctx, ean)
	if err != nil {
		return false, err
	}
	set, err := policy.ShouldSetResetPoint(ctx, strategy.ResetPointContext{
		ItemEAN:         ean,
		InvoiceType:     int(invoiceType),
		InvoiceSign:     invoiceType.StockSign(),
		NewAmount:       newAmount,
		CurrentQuantity: qty,
	})
	if err != nil {
		return false, err
	}
	if set {
		s.logger.Debug("reset point suggested",
			zap.String("ean", ean),
			zap.String("policy", policy.Name()),
			zap.String("current_quantity", qty.String()),
		)
	}
	return set, nil
}

// StockCard returns quantity and both cost figures from a single ledger read
func (s *LedgerService) StockCard(ctx context.Context, ean string) (*StockCard, error) {
	ledger, err := s.movementRepo.LedgerFor(ctx, ean)
	if err != nil {
		return nil, fmt.Errorf("load ledger for %s: %w", ean, err)
	}
	avg, err := s.unitCost(ctx, s.cfg.AverageStrategy, ledger)
	if err != nil {
		return nil, err
	}
	last, err := s.unitCost(ctx, s.cfg.LastPriceStrategy, ledger)
	if err != nil {
		return nil, err
	}
	card := &StockCard{
		ItemEAN:         ean,
		Quantity:        ledger.Quantity(),
		AverageBuyPrice: avg,
		LastBuyPrice:    last,
		MovementCount:   len(ledger),
	}
	if at, ok := ledger.ResetAt(); ok {
		card.ResetAt = &at
	}
	return card, nil
}

func (s *LedgerService) unitCost(ctx context.Context, name string, ledger inventory.Ledger) (decimal.Decimal, error) {
	costStrategy, err := s.strategies.GetCostStrategy(name)
	if err != nil {
		return decimal.Zero, err
	}
	return costStrategy.UnitCost(ctx, ledger.CostWindow())
}
