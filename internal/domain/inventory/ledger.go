package inventory

import (
	"sort"
	"time"

	"github.com/invledger/backend/internal/domain/shared/strategy"
	"github.com/invledger/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// LedgerEntry is a movement line joined to the type and issue date of its invoice
type LedgerEntry struct {
	Invoice      trade.InvoiceKey
	InvoiceType  trade.InvoiceType
	DateIssue    time.Time
	ItemEAN      string
	Amount       decimal.Decimal
	PricePerUnit decimal.Decimal
	ResetPoint   bool
	CreatedAt    time.Time
}

// Signed returns the amount with the stock direction of the invoice type applied.
// Proforma lines contribute zero.
func (e LedgerEntry) Signed() decimal.Decimal {
	switch e.InvoiceType.StockSign() {
	case 1:
		return e.Amount
	case -1:
		return e.Amount.Neg()
	}
	return decimal.Zero
}

// Ledger is the full movement history of one item
type Ledger []LedgerEntry

// Quantity sums the signed amounts over the full history.
// An empty ledger gives zero and negative results are not clamped.
func (l Ledger) Quantity() decimal.Decimal {
	qty := decimal.Zero
	for _, e := range l {
		qty = qty.Add(e.Signed())
	}
	return qty
}

// ResetAt returns the creation time of the latest reset-point entry
func (l Ledger) ResetAt() (time.Time, bool) {
	var (
		at    time.Time
		found bool
	)
	for _, e := range l {
		if e.ResetPoint && (!found || e.CreatedAt.After(at)) {
			at = e.CreatedAt
			found = true
		}
	}
	return at, found
}

// CostWindow returns the entries that take part in cost-basis calculations:
// created at or after the latest reset point, on invoice types 1 and 2.
// The result is ordered by (date_issue, created_at).
func (l Ledger) CostWindow() []strategy.StockEntry {
	resetAt, hasReset := l.ResetAt()

	window := make([]LedgerEntry, 0, len(l))
	for _, e := range l {
		if !e.InvoiceType.CountsForCostBasis() {
			continue
		}
		if hasReset && e.CreatedAt.Before(resetAt) {
			continue
		}
		window = append(window, e)
	}
	sort.SliceStable(window, func(i, j int) bool {
		if !window[i].DateIssue.Equal(window[j].DateIssue) {
			return window[i].DateIssue.Before(window[j].DateIssue)
		}
		return window[i].CreatedAt.Before(window[j].CreatedAt)
	})

	entries := make([]strategy.StockEntry, len(window))
	for i, e := range window {
		entries[i] = strategy.StockEntry{
			ItemEAN:   e.ItemEAN,
			Quantity:  e.Amount,
			UnitCost:  e.PricePerUnit,
			DateIssue: e.DateIssue,
			CreatedAt: e.CreatedAt,
			Reference: e.Invoice.String(),
		}
	}
	return entries
}
