package strategy

import (
	"context"

	"github.com/shopspring/decimal"
)

// ResetPointContext describes a movement line about to be recorded
type ResetPointContext struct {
	ItemEAN     string
	InvoiceType int
	// InvoiceSign is the stock direction of the invoice type: +1, -1 or 0
	InvoiceSign     int
	NewAmount       decimal.Decimal
	CurrentQuantity decimal.Decimal
}

// ResetPointPolicy decides whether a new movement line becomes the new
// cost-basis baseline for its item.
type ResetPointPolicy interface {
	Strategy
	ShouldSetResetPoint(ctx context.Context, rpCtx ResetPointContext) (bool, error)
}
