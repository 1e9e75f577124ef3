package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.RequireFromString("100.50"), CZK)
		require.NoError(t, err)
		assert.Equal(t, CZK, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.RequireFromString("100.5")))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestMoney_Cents(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"120.9879", "120.99"},
		{"120.9979", "121.00"},
		{"0.005", "0.01"},
		{"-0.005", "-0.01"},
		{"560", "560.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m := NewMoneyCZK(decimal.RequireFromString(tt.in))
			assert.Equal(t, tt.want, m.Cents().StringFixed(2))
		})
	}
}

func TestMoney_Format(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"1234.5", "1,234.50 CZK"},
		{"0.005", "0.01 CZK"},
		{"-99.99", "-99.99 CZK"},
		{"123", "123.00 CZK"},
		{"-1234567.891", "-1,234,567.89 CZK"},
		// beyond float64 precision
		{"123456789012345678.99", "123,456,789,012,345,678.99 CZK"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			m := NewMoneyCZK(decimal.RequireFromString(tt.amount))
			assert.Equal(t, tt.want, m.Format(language.English))
		})
	}
}

func TestMoney_MarshalJSON(t *testing.T) {
	m := NewMoneyCZK(decimal.RequireFromString("20.9979"))
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"20.9979","currency":"CZK"}`, string(data))
}

func TestVATRate(t *testing.T) {
	tests := []struct {
		raw     int
		pct     int64
		wantErr bool
	}{
		{0, 0, false},
		{1, 12, false},
		{2, 21, false},
		{3, 0, true},
		{-1, 0, true},
	}
	for _, tt := range tests {
		r, err := NewVATRate(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, "raw=%d", tt.raw)
			continue
		}
		require.NoError(t, err)
		assert.True(t, r.Percentage().Equal(decimal.NewFromInt(tt.pct)))
	}
	assert.Equal(t, "21%", VATRateBase.String())
}
