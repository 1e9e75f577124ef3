package strategy

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CostMethod represents the inventory costing method
type CostMethod string

const (
	CostMethodMovingAverage CostMethod = "moving_average"
	CostMethodLastPurchase  CostMethod = "last_purchase"
)

// String returns the string representation of the cost method
func (m CostMethod) String() string {
	return string(m)
}

// StockEntry is one movement line that participates in a cost calculation.
// Entries handed to a strategy are already restricted to the cost window.
type StockEntry struct {
	ItemEAN   string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	DateIssue time.Time
	CreatedAt time.Time
	Reference string
}

// TotalCost returns Quantity * UnitCost
func (e StockEntry) TotalCost() decimal.Decimal {
	return e.Quantity.Mul(e.UnitCost)
}

// CostCalculationStrategy defines the interface for inventory cost calculation
type CostCalculationStrategy interface {
	Strategy
	// Method returns the costing method used by this strategy
	Method() CostMethod
	// UnitCost derives a unit cost from the windowed entries.
	// An empty entry set yields zero, not an error.
	UnitCost(ctx context.Context, entries []StockEntry) (decimal.Decimal, error)
}
