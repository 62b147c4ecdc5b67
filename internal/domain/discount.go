package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discount Model: a redeemable coupon code. A code is valid while the
// current time falls inside [StartDate, EndDate] and UseLimit is above
// zero; every redemption decrements UseLimit by one.
type Discount struct {
	ID        uint            `gorm:"primaryKey" json:"id"`                     // Primary key
	Code      string          `gorm:"uniqueIndex;not null" json:"code"`         // Coupon code, matched case-insensitively
	Type      DiscountType    `gorm:"type:varchar(16);not null" json:"type"`    // percentage or fixed
	Value     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"value"` // Percent or flat amount depending on Type
	StartDate time.Time       `gorm:"not null" json:"start_date"`               // Validity window start
	EndDate   time.Time       `gorm:"not null" json:"end_date"`                 // Validity window end
	UseLimit  int             `gorm:"not null;default:0" json:"use_limit"`      // Remaining redemptions, never negative
}
