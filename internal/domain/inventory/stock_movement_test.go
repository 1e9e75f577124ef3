package inventory

import (
	"testing"

	"github.com/invledger/backend/internal/domain/shared"
	"github.com/invledger/backend/internal/domain/shared/valueobject"
	"github.com/invledger/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStockMovement(t *testing.T) {
	key := trade.InvoiceKey{Prefix: "FV", Number: "001"}

	t.Run("creates line", func(t *testing.T) {
		m, err := NewStockMovement(key, " 8594000000011 ", decimal.NewFromInt(3), decimal.RequireFromString("33.33"), valueobject.VATRateBase)
		require.NoError(t, err)
		assert.Equal(t, "8594000000011", m.ItemEAN)
		assert.Equal(t, "FV001/8594000000011", m.MovementKey.String())
		assert.False(t, m.ResetPoint)
	})

	t.Run("negative amount is a correction and allowed", func(t *testing.T) {
		_, err := NewStockMovement(key, "A", decimal.NewFromInt(-2), decimal.NewFromInt(10), valueobject.VATRateZero)
		assert.NoError(t, err)
	})

	tests := []struct {
		name  string
		ean   string
		price string
		vat   valueobject.VATRate
	}{
		{"empty ean", "", "1", valueobject.VATRateBase},
		{"negative price", "A", "-0.01", valueobject.VATRateBase},
		{"unknown vat rate", "A", "1", valueobject.VATRate(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStockMovement(key, tt.ean, decimal.NewFromInt(1), decimal.RequireFromString(tt.price), tt.vat)
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
		})
	}
}

func TestInvoiceLines(t *testing.T) {
	key := trade.InvoiceKey{Number: "1"}
	a, _ := NewStockMovement(key, "A", decimal.NewFromInt(10), decimal.RequireFromString("50.00"), valueobject.VATRateReduced)
	b, _ := NewStockMovement(key, "B", decimal.NewFromInt(3), decimal.RequireFromString("33.33"), valueobject.VATRateBase)

	lines := InvoiceLines([]StockMovement{*a, *b})
	require.Len(t, lines, 2)
	assert.Equal(t, "A", lines[0].ItemEAN)
	assert.Equal(t, valueobject.VATRateBase, lines[1].VATRate)

	totals := trade.Valuate(lines)
	assert.True(t, decimal.RequireFromString("680.9979").Equal(totals.TotalWithVAT))
}
