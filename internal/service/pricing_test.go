package service

import (
	"testing"

	"shopease/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestRound(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2.345", "2.35"},  // Half rounds up
		{"2.344", "2.34"},  // Below half rounds down
		{"860", "860"},     // Integers untouched
		{"0.005", "0.01"},  // Half at the cent boundary
		{"199.999", "200"}, // Carries across the integer part
	}
	for _, tc := range cases {
		assert.True(t, dec(t, tc.want).Equal(Round(dec(t, tc.in))), "Round(%s)", tc.in)
	}
}

func TestDiscountAmountPercentage(t *testing.T) {
	cases := []struct {
		name     string
		subtotal string
		value    string
		want     string
	}{
		{"uncapped 20 percent", "1000.00", "20", "200.00"},
		{"capped at half the subtotal", "1000.00", "80", "500.00"},
		{"exactly at the cap", "1000.00", "50", "500.00"},
		{"rounds to cents", "99.99", "33", "33.00"}, // 32.9967 rounds up
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &domain.Discount{Type: domain.DiscountPercentage, Value: dec(t, tc.value)}
			got := DiscountAmount(dec(t, tc.subtotal), d)
			assert.True(t, dec(t, tc.want).Equal(got), "got %s", got)
		})
	}
}

func TestDiscountAmountFixed(t *testing.T) {
	cases := []struct {
		name     string
		subtotal string
		value    string
		want     string
	}{
		{"below subtotal", "1000.00", "150.00", "150.00"},
		{"capped at subtotal", "1000.00", "1500.00", "1000.00"},
		{"exactly subtotal", "1000.00", "1000.00", "1000.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &domain.Discount{Type: domain.DiscountFixed, Value: dec(t, tc.value)}
			got := DiscountAmount(dec(t, tc.subtotal), d)
			assert.True(t, dec(t, tc.want).Equal(got), "got %s", got)
		})
	}
}

func TestDiscountAmountNil(t *testing.T) {
	assert.True(t, DiscountAmount(dec(t, "500.00"), nil).IsZero())
}

func TestLoyaltyPoints(t *testing.T) {
	rate := dec(t, "0.01")
	assert.Equal(t, 8, LoyaltyPoints(dec(t, "800.00"), rate))
	assert.Equal(t, 0, LoyaltyPoints(dec(t, "99.99"), rate)) // Truncated, not rounded
	assert.Equal(t, 0, LoyaltyPoints(dec(t, "0.00"), rate))
	assert.Equal(t, 12, LoyaltyPoints(dec(t, "1299.50"), rate))
}

func TestSubtotal(t *testing.T) {
	items := []domain.CartItem{
		{Quantity: 2, Inventory: domain.Inventory{PricePerUnit: dec(t, "500.00")}},
		{Quantity: 1, Inventory: domain.Inventory{PricePerUnit: dec(t, "49.99")}},
	}
	assert.True(t, dec(t, "1049.99").Equal(Subtotal(items)))
	assert.True(t, Subtotal(nil).IsZero())
}
