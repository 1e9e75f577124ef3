package trade

import (
	"testing"

	"github.com/invledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s", want, got.String())
}

func TestValuateLine(t *testing.T) {
	t.Run("reduced rate without correction", func(t *testing.T) {
		v := ValuateLine(InvoiceLine{Amount: d("10"), PricePerUnit: d("50.00"), VATRate: valueobject.VATRateReduced})

		assertDecimal(t, "500", v.Base)
		assertDecimal(t, "60", v.VAT)
		assertDecimal(t, "560", v.TotalWithVAT)
		assertDecimal(t, "0", v.Adjustment)
	})

	t.Run("base rate with 99 cent correction", func(t *testing.T) {
		line := InvoiceLine{Amount: d("3"), PricePerUnit: d("33.33"), VATRate: valueobject.VATRateBase}

		// uncorrected values
		base := line.Amount.Mul(line.PricePerUnit)
		rawVAT := base.Mul(d("21")).Div(d("100"))
		assertDecimal(t, "99.99", base)
		assertDecimal(t, "20.9979", rawVAT)
		assertDecimal(t, "120.9879", base.Add(rawVAT))
		assert.Equal(t, "120.99", base.Add(rawVAT).StringFixed(2))

		v := ValuateLine(line)
		assertDecimal(t, "99.99", v.Base)
		assertDecimal(t, "21.0079", v.VAT)
		assertDecimal(t, "120.9979", v.TotalWithVAT)
		assertDecimal(t, "0.01", v.Adjustment)
		assert.Equal(t, "121.00", v.TotalWithVAT.StringFixed(2))
	})

	t.Run("01 cents correction subtracts", func(t *testing.T) {
		// 4.14 * 21% = 0.8694, total 5.0094 -> 5.01
		v := ValuateLine(InvoiceLine{Amount: d("1"), PricePerUnit: d("4.14"), VATRate: valueobject.VATRateBase})
		assertDecimal(t, "0.8594", v.VAT)
		assertDecimal(t, "4.9994", v.TotalWithVAT)
		assertDecimal(t, "-0.01", v.Adjustment)
	})

	t.Run("zero rate is never corrected", func(t *testing.T) {
		v := ValuateLine(InvoiceLine{Amount: d("1"), PricePerUnit: d("10.99"), VATRate: valueobject.VATRateZero})
		assertDecimal(t, "10.99", v.TotalWithVAT)
		assertDecimal(t, "0", v.VAT)
	})

	t.Run("negative correction line mirrors the positive one", func(t *testing.T) {
		v := ValuateLine(InvoiceLine{Amount: d("-3"), PricePerUnit: d("33.33"), VATRate: valueobject.VATRateBase})
		assertDecimal(t, "-99.99", v.Base)
		assertDecimal(t, "-21.0079", v.VAT)
		assertDecimal(t, "-120.9979", v.TotalWithVAT)
		assert.Equal(t, "-121.00", v.TotalWithVAT.StringFixed(2))
	})

	t.Run("zero amount", func(t *testing.T) {
		v := ValuateLine(InvoiceLine{Amount: d("0"), PricePerUnit: d("12.34"), VATRate: valueobject.VATRateBase})
		assert.True(t, v.TotalWithVAT.IsZero())
	})
}

func TestReconcileCents_Idempotent(t *testing.T) {
	amounts := []string{"1", "2", "3", "7", "-3", "0.5", "13"}
	prices := []string{"33.33", "4.14", "0.99", "19.01", "123.45", "8.26", "0.01"}
	rates := []valueobject.VATRate{valueobject.VATRateReduced, valueobject.VATRateBase}

	for _, a := range amounts {
		for _, p := range prices {
			for _, r := range rates {
				base := d(a).Mul(d(p))
				pct := r.Percentage()
				vat := base.Mul(pct).Div(d("100"))

				once := ReconcileCents(base, vat, pct)
				twice := ReconcileCents(base, once, pct)
				assert.True(t, once.Equal(twice), "amount=%s price=%s rate=%s: %s != %s", a, p, r, once, twice)

				cents := base.Add(once).Abs().StringFixed(2)
				assert.NotRegexp(t, `\.(99|01)$`, cents, "amount=%s price=%s rate=%s", a, p, r)
			}
		}
	}
}

func TestValuate(t *testing.T) {
	t.Run("no lines gives zero totals", func(t *testing.T) {
		totals := Valuate(nil)
		assert.True(t, totals.TotalWithoutVAT.IsZero())
		assert.True(t, totals.TotalVAT.IsZero())
		assert.True(t, totals.TotalWithVAT.IsZero())
		assert.Empty(t, totals.ByRate)
	})

	t.Run("sums corrected line values", func(t *testing.T) {
		totals := Valuate([]InvoiceLine{
			{ItemEAN: "A", Amount: d("10"), PricePerUnit: d("50.00"), VATRate: valueobject.VATRateReduced},
			{ItemEAN: "B", Amount: d("3"), PricePerUnit: d("33.33"), VATRate: valueobject.VATRateBase},
			{ItemEAN: "C", Amount: d("2"), PricePerUnit: d("5"), VATRate: valueobject.VATRateBase},
		})

		require.Len(t, totals.Lines, 3)
		assertDecimal(t, "609.99", totals.TotalWithoutVAT)
		assertDecimal(t, "83.1079", totals.TotalVAT)
		assertDecimal(t, "693.0979", totals.TotalWithVAT)

		require.Len(t, totals.ByRate, 2)
		assert.Equal(t, valueobject.VATRateReduced, totals.ByRate[0].Rate)
		assertDecimal(t, "500", totals.ByRate[0].Base)
		assert.Equal(t, valueobject.VATRateBase, totals.ByRate[1].Rate)
		assertDecimal(t, "109.99", totals.ByRate[1].Base)
		assertDecimal(t, "23.1079", totals.ByRate[1].VAT)

		disp := totals.Display(valueobject.CZK)
		assert.Equal(t, "693.10", disp.TotalWithVAT.StringFixed(2))
		assert.Equal(t, "609.99", disp.TotalWithoutVAT.StringFixed(2))
	})
}

func TestValuate_CreditNoteFollowsStoredSign(t *testing.T) {
	// credit notes keep the sign of their stored amounts; the document type never flips it
	negative := Valuate([]InvoiceLine{
		{ItemEAN: "A", Amount: d("-2"), PricePerUnit: d("50"), VATRate: valueobject.VATRateReduced},
	})
	assertDecimal(t, "-100", negative.TotalWithoutVAT)
	assertDecimal(t, "-12", negative.TotalVAT)
	assertDecimal(t, "-112", negative.TotalWithVAT)
	assert.Equal(t, "-112.00", negative.Display(valueobject.CZK).TotalWithVAT.StringFixed(2))

	positive := Valuate([]InvoiceLine{
		{ItemEAN: "A", Amount: d("2"), PricePerUnit: d("50"), VATRate: valueobject.VATRateReduced},
	})
	assertDecimal(t, "112", positive.TotalWithVAT)
	assert.True(t, negative.TotalWithVAT.Neg().Equal(positive.TotalWithVAT))
}
