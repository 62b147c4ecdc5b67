package service

import (
	"shopease/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Currency amounts
)

// Maximum share of the subtotal a percentage discount may cover
var percentageCap = decimal.NewFromFloat(0.5)

var hundred = decimal.NewFromInt(100)

// Round rounds a currency amount to 2 decimal places, half up
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// DiscountAmount computes the capped amount a discount takes off the given
// subtotal. Percentage discounts are capped at 50% of the subtotal, fixed
// discounts at the subtotal itself, so the discounted subtotal never goes
// negative.
func DiscountAmount(subtotal decimal.Decimal, d *domain.Discount) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	var amount decimal.Decimal
	if d.Type == domain.DiscountPercentage {
		amount = subtotal.Mul(d.Value).Div(hundred) // Percent of subtotal
		if cap := subtotal.Mul(percentageCap); amount.GreaterThan(cap) {
			amount = cap // Max 50% discount
		}
	} else {
		amount = d.Value // Flat amount
		if amount.GreaterThan(subtotal) {
			amount = subtotal // Never exceed the subtotal
		}
	}
	return Round(amount)
}

// LoyaltyPoints computes the integer points earned on a discounted
// subtotal. The product is truncated, not rounded.
func LoyaltyPoints(discountedSubtotal, rate decimal.Decimal) int {
	return int(discountedSubtotal.Mul(rate).IntPart())
}

// LineTotal computes one cart line's price at the given unit price
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Subtotal sums cart lines at live inventory prices, keeping the running
// sum rounded to 2 decimals the same way the totals shown at checkout are.
func Subtotal(items []domain.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = Round(sum.Add(LineTotal(it.Quantity, it.Inventory.PricePerUnit)))
	}
	return sum
}
