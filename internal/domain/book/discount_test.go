package book

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDiscount(t *testing.T) {
	tests := []struct {
		price string
		pct   int
		want  string
	}{
		{"100.00", 10, "90.00"},
		{"19.99", 15, "16.99"}, // 16.9915
		{"10.05", 50, "5.02"},  // 5.025 银行家舍入
		{"10.15", 50, "5.08"},  // 5.075
		{"42.00", 0, "42.00"},
		{"42.00", 100, "0.00"},
	}
	for _, tt := range tests {
		got, err := ApplyDiscount(decimal.RequireFromString(tt.price), tt.pct)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.StringFixed(2), "%s × %d%%", tt.price, tt.pct)
	}

	_, err := ApplyDiscount(decimal.NewFromInt(10), 101)
	assert.ErrorIs(t, err, ErrInvalidDiscount)
	_, err = ApplyDiscount(decimal.NewFromInt(10), -1)
	assert.ErrorIs(t, err, ErrInvalidDiscount)
}

func TestBook_DiscountedBy(t *testing.T) {
	b := &Book{Title: "Unpriced"}
	_, err := b.DiscountedBy(10)
	assert.ErrorIs(t, err, ErrMissingPrice)

	price := decimal.RequireFromString("20.00")
	b.Price = &price
	got, err := b.DiscountedBy(25)
	require.NoError(t, err)
	assert.Equal(t, "15.00", got.StringFixed(2))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "", FormatPrice(nil))
	d := decimal.RequireFromString("7.5")
	assert.Equal(t, "7.50", FormatPrice(&d))
}
