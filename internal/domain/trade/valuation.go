package trade

import (
	"github.com/invledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	oneCent = decimal.New(1, -2)
)

// InvoiceLine is the valuation input for one movement line
type InvoiceLine struct {
	ItemEAN      string
	Amount       decimal.Decimal
	PricePerUnit decimal.Decimal
	VATRate      valueobject.VATRate
}

// LineValuation holds the exact monetary values of one line
type LineValuation struct {
	Line         InvoiceLine
	Base         decimal.Decimal
	VAT          decimal.Decimal
	TotalWithVAT decimal.Decimal
	// Adjustment is the cent nudge applied to VAT (-0.01, 0 or +0.01)
	Adjustment decimal.Decimal
}

// ValuateLine computes base, VAT and total for a single line.
//
// The invoice type is not consulted: credit notes are valued like any other
// document. A negative stored amount (manual correction) yields a negative base.
func ValuateLine(line InvoiceLine) LineValuation {
	base := line.Amount.Mul(line.PricePerUnit)
	pct := line.VATRate.Percentage()
	vat := base.Mul(pct).Div(hundred)
	corrected := ReconcileCents(base, vat, pct)

	return LineValuation{
		Line:         line,
		Base:         base,
		VAT:          corrected,
		TotalWithVAT: base.Add(corrected),
		Adjustment:   corrected.Sub(vat),
	}
}

// ReconcileCents applies the cent correction to a line's VAT amount and returns
// the corrected VAT.
//
// The total (base + vat) is rounded to cents by magnitude. If its cents read 99
// the VAT magnitude grows by 0.01, if they read 01 it shrinks by 0.01. Lines
// without VAT or with a zero base are left alone. The correction moves the
// rounded total onto a whole unit, so applying it again is a no-op.
func ReconcileCents(base, vat, pct decimal.Decimal) decimal.Decimal {
	if !pct.IsPositive() || base.IsZero() {
		return vat
	}
	total := base.Add(vat)
	if total.IsZero() {
		return vat
	}

	rounded := total.Abs().Round(valueobject.CentPlaces)
	cents := rounded.Sub(rounded.Truncate(0)).Shift(2).IntPart()
	step := oneCent
	if total.IsNegative() {
		step = step.Neg()
	}

	switch cents {
	case 99:
		return vat.Add(step)
	case 1:
		return vat.Sub(step)
	}
	return vat
}

// RateSummary aggregates lines sharing one VAT rate
type RateSummary struct {
	Rate         valueobject.VATRate
	Base         decimal.Decimal
	VAT          decimal.Decimal
	TotalWithVAT decimal.Decimal
}

// InvoiceTotals holds the exact aggregate values of an invoice
type InvoiceTotals struct {
	Lines           []LineValuation
	TotalWithoutVAT decimal.Decimal
	TotalVAT        decimal.Decimal
	TotalWithVAT    decimal.Decimal
	ByRate          []RateSummary
}

// Valuate computes the totals of an invoice from its lines.
// Aggregates are plain sums of the per-line (corrected) values; no lines give zeros.
func Valuate(lines []InvoiceLine) InvoiceTotals {
	totals := InvoiceTotals{
		Lines:           make([]LineValuation, 0, len(lines)),
		TotalWithoutVAT: decimal.Zero,
		TotalVAT:        decimal.Zero,
		TotalWithVAT:    decimal.Zero,
	}
	byRate := make(map[valueobject.VATRate]*RateSummary)
	var order []valueobject.VATRate

	for _, l := range lines {
		v := ValuateLine(l)
		totals.Lines = append(totals.Lines, v)
		totals.TotalWithoutVAT = totals.TotalWithoutVAT.Add(v.Base)
		totals.TotalVAT = totals.TotalVAT.Add(v.VAT)
		totals.TotalWithVAT = totals.TotalWithVAT.Add(v.TotalWithVAT)

		rs, ok := byRate[l.VATRate]
		if !ok {
			rs = &RateSummary{Rate: l.VATRate, Base: decimal.Zero, VAT: decimal.Zero, TotalWithVAT: decimal.Zero}
			byRate[l.VATRate] = rs
			order = append(order, l.VATRate)
		}
		rs.Base = rs.Base.Add(v.Base)
		rs.VAT = rs.VAT.Add(v.VAT)
		rs.TotalWithVAT = rs.TotalWithVAT.Add(v.TotalWithVAT)
	}

	for _, r := range order {
		totals.ByRate = append(totals.ByRate, *byRate[r])
	}
	return totals
}

// DisplayTotals are the presentation values, rounded to cents
type DisplayTotals struct {
	TotalWithoutVAT valueobject.Money `json:"total_without_vat"`
	TotalVAT        valueobject.Money `json:"total_vat"`
	TotalWithVAT    valueobject.Money `json:"total_with_vat"`
}

// Display rounds the exact totals to cents in the given currency
func (t InvoiceTotals) Display(currency valueobject.Currency) DisplayTotals {
	m := func(d decimal.Decimal) valueobject.Money {
		money, err := valueobject.NewMoney(d, currency)
		if err != nil {
			money = valueobject.NewMoneyCZK(d)
		}
		return money.Cents()
	}
	return DisplayTotals{
		TotalWithoutVAT: m(t.TotalWithoutVAT),
		TotalVAT:        m(t.TotalVAT),
		TotalWithVAT:    m(t.TotalWithVAT),
	}
}
