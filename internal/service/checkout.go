package service

import (
	"errors" // Sentinel errors
	"time"   // Discount window checks

	"shopease/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Currency amounts
	"github.com/sirupsen/logrus"    // Logging library
	"gorm.io/gorm"                  // GORM ORM library
)

// Checkout rejection reasons surfaced to the handler
var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrOutOfStock      = errors.New("insufficient stock")
	ErrDiscountInvalid = errors.New("invalid or expired discount code")
)

// CheckoutInput carries everything PlaceOrder needs. DiscountID comes from
// the customer's pending-discount session record and may be nil.
type CheckoutInput struct {
	UserID          uint            // Ordering customer
	DeliveryAddress string          // Shipping destination
	DiscountID      *uint           // Previously applied discount, optional
	DeliveryCharge  decimal.Decimal // Flat surcharge from config
	LoyaltyRate     decimal.Decimal // Points accrual rate from config
}

// CheckoutResult reports the outcome of a successful placement
type CheckoutResult struct {
	OrderID            uint            `json:"order_id"`            // New order ID
	Subtotal           decimal.Decimal `json:"subtotal"`            // Sum of line totals
	DiscountAmount     decimal.Decimal `json:"discount_amount"`     // Capped discount taken off
	DiscountedSubtotal decimal.Decimal `json:"discounted_subtotal"` // Subtotal minus discount
	Total              decimal.Decimal `json:"total"`               // Payment amount incl. delivery
	LoyaltyPoints      int             `json:"loyalty_points"`      // Points credited
}

// PlaceOrder converts the customer's cart into a durable order. Every write
// happens inside one transaction: the order header, one price-snapshot item
// and guarded stock decrement per cart line, the payment row, the loyalty
// credit, the discount redemption and the cart wipe all commit together or
// not at all. On any rejection the cart is left untouched for retry.
//
// Stock is decremented with a conditional UPDATE (current_stock >= qty), so
// two concurrent checkouts racing for the last unit cannot drive stock
// negative: the loser's update matches zero rows and the whole order fails
// with ErrOutOfStock.
func PlaceOrder(db *gorm.DB, in CheckoutInput) (*CheckoutResult, error) {
	var result CheckoutResult
	var purchased []domain.CartItem // Lines to report as purchase activity after commit

	err := db.Transaction(func(tx *gorm.DB) error {
		// Load the cart with live inventory prices
		var items []domain.CartItem
		if err := tx.Preload("Inventory").Where("user_id = ?", in.UserID).Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		// Re-validate the discount inside the transaction, before any
		// mutation: the code may have expired or run out of uses since
		// it was applied.
		var discount *domain.Discount
		if in.DiscountID != nil {
			var d domain.Discount
			now := time.Now()
			err := tx.Where("id = ? AND start_date <= ? AND end_date >= ? AND use_limit > 0",
				*in.DiscountID, now, now).First(&d).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDiscountInvalid
			}
			if err != nil {
				return err
			}
			discount = &d
		}

		// Order header
		order := domain.Order{UserID: in.UserID, Status: domain.OrderPending, DeliveryAddress: in.DeliveryAddress}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		subtotal := decimal.Zero
		for _, it := range items {
			subtotal = Round(subtotal.Add(LineTotal(it.Quantity, it.Inventory.PricePerUnit)))

			// Snapshot the current unit price; it must never change
			// even if the seller later edits the listing
			item := domain.OrderItem{
				OrderID:     order.ID,
				InventoryID: it.InventoryID,
				Quantity:    it.Quantity,
				PriceOnSale: it.Inventory.PricePerUnit,
				DiscountID:  in.DiscountID,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}

			// Guarded decrement: matches zero rows when stock ran out
			res := tx.Model(&domain.Inventory{}).
				Where("id = ? AND current_stock >= ?", it.InventoryID, it.Quantity).
				Update("current_stock", gorm.Expr("current_stock - ?", it.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrOutOfStock
			}
		}

		// Totals: discount recomputed against the live subtotal, never
		// trusted from the session record
		discountAmount := DiscountAmount(subtotal, discount)
		discountedSubtotal := Round(subtotal.Sub(discountAmount))
		total := Round(discountedSubtotal.Add(in.DeliveryCharge))

		// Payment row, cash on delivery only
		payment := domain.Payment{
			OrderID: order.ID,
			Amount:  total,
			Method:  domain.PaymentMethodCOD,
			Status:  domain.PaymentPending,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		// Loyalty credit, truncated to whole points
		points := LoyaltyPoints(discountedSubtotal, in.LoyaltyRate)
		if points > 0 {
			if err := tx.Model(&domain.User{}).Where("id = ?", in.UserID).
				Update("loyalty_points", gorm.Expr("loyalty_points + ?", points)).Error; err != nil {
				return err
			}
		}

		// Redeem the discount; the guard keeps use_limit from going
		// negative under concurrent redemptions
		if discount != nil {
			res := tx.Model(&domain.Discount{}).
				Where("id = ? AND use_limit > 0", discount.ID).
				Update("use_limit", gorm.Expr("use_limit - 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrDiscountInvalid
			}
		}

		// Clear the cart
		if err := tx.Where("user_id = ?", in.UserID).Delete(&domain.CartItem{}).Error; err != nil {
			return err
		}

		purchased = items
		result = CheckoutResult{
			OrderID:            order.ID,
			Subtotal:           subtotal,
			DiscountAmount:     discountAmount,
			DiscountedSubtotal: discountedSubtotal,
			Total:              total,
			LoyaltyPoints:      points,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Purchase activity is best-effort and recorded outside the
	// transaction: a tracking failure must never unwind a placed order
	for _, it := range purchased {
		TrackActivity(db, in.UserID, it.InventoryID, domain.ActivityPurchase)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  in.UserID,
		"order_id": result.OrderID,
		"total":    result.Total,
		"points":   result.LoyaltyPoints,
	}).Info("Order placed")
	return &result, nil
}
