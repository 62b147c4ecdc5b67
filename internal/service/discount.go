package service

import (
	"errors"  // Sentinel comparison
	"strings" // Code normalization
	"time"    // Validity window checks

	"shopease/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// FindValidDiscount resolves a coupon code case-insensitively. A code is
// valid only while now falls inside its window and redemptions remain.
// Returns ErrDiscountInvalid for unknown, expired and exhausted codes
// alike so the caller cannot probe which codes exist.
func FindValidDiscount(db *gorm.DB, code string) (*domain.Discount, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrDiscountInvalid
	}
	var d domain.Discount
	now := time.Now()
	err := db.Where("UPPER(code) = ? AND start_date <= ? AND end_date >= ? AND use_limit > 0",
		code, now, now).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDiscountInvalid
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// PendingDiscount is the session record stored in Redis between
// apply_discount and order placement
type PendingDiscount struct {
	DiscountID uint                `json:"discount_id"` // Resolved discount
	Code       string              `json:"code"`        // Code as stored
	Type       domain.DiscountType `json:"type"`        // percentage or fixed
	Value      string              `json:"value"`       // Discount value, decimal string
	Amount     string              `json:"amount"`      // Capped amount against the cart at apply time
}
