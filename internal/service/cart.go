package service

import (
	"errors"  // Sentinel errors
	"fmt"     // Error formatting
	"strconv" // Message formatting

	"shopease/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Currency amounts
	"gorm.io/gorm"                  // GORM ORM library
)

// Cart rejection reasons
var (
	ErrListingUnavailable = errors.New("product not available")
)

// StockError rejects a cart add that exceeds the units on hand. Available
// carries the count so the handler can tell the customer what is left.
type StockError struct {
	Available int // Units currently in stock
}

func (e *StockError) Error() string {
	return "only " + strconv.Itoa(e.Available) + " items available"
}

// AddToCart puts quantity units of a listing into the customer's cart,
// merging with an existing line. The listing must have stock and belong to
// an active seller, and the merged quantity may not exceed current stock.
func AddToCart(db *gorm.DB, userID, inventoryID uint, quantity int) (*domain.Inventory, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	// The listing must be in stock and its seller active
	var inv domain.Inventory
	err := db.Preload("Product").
		Joins("JOIN users ON users.id = inventories.seller_id").
		Where("inventories.id = ? AND inventories.current_stock > 0 AND users.status = ?",
			inventoryID, domain.StatusActive).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrListingUnavailable
	}
	if err != nil {
		return nil, err
	}
	if quantity > inv.CurrentStock {
		return nil, &StockError{Available: inv.CurrentStock}
	}
	// Merge with an existing line, still capped at current stock
	var line domain.CartItem
	err = db.Where("user_id = ? AND inventory_id = ?", userID, inventoryID).First(&line).Error
	switch {
	case err == nil:
		if line.Quantity+quantity > inv.CurrentStock {
			return nil, &StockError{Available: inv.CurrentStock}
		}
		err = db.Model(&line).Update("quantity", gorm.Expr("quantity + ?", quantity)).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = db.Create(&domain.CartItem{UserID: userID, InventoryID: inventoryID, Quantity: quantity}).Error
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// SetCartQuantity sets a line's quantity; zero or below removes the line
func SetCartQuantity(db *gorm.DB, userID, inventoryID uint, quantity int) error {
	if quantity > 0 {
		return db.Model(&domain.CartItem{}).
			Where("user_id = ? AND inventory_id = ?", userID, inventoryID).
			Update("quantity", quantity).Error
	}
	return db.Where("user_id = ? AND inventory_id = ?", userID, inventoryID).
		Delete(&domain.CartItem{}).Error
}

// CartSummary is a customer's cart priced at live inventory rates
type CartSummary struct {
	Items          []domain.CartItem `json:"items"`           // Lines with listing and product preloaded
	Subtotal       decimal.Decimal   `json:"subtotal"`        // Sum of line totals
	DeliveryCharge decimal.Decimal   `json:"delivery_charge"` // Zero when the cart is empty
	Total          decimal.Decimal   `json:"total"`           // Subtotal plus delivery
}

// LoadCart fetches the cart with live prices and computes its totals.
// Prices here are the current listing prices; snapshots happen only at
// placement.
func LoadCart(db *gorm.DB, userID uint, deliveryCharge decimal.Decimal) (*CartSummary, error) {
	var items []domain.CartItem
	if err := db.Preload("Inventory.Product").Preload("Inventory").
		Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return nil, err
	}
	subtotal := Subtotal(items)
	charge := decimal.Zero
	if len(items) > 0 {
		charge = deliveryCharge // Delivery applies only to non-empty carts
	}
	return &CartSummary{
		Items:          items,
		Subtotal:       subtotal,
		DeliveryCharge: charge,
		Total:          Round(subtotal.Add(charge)),
	}, nil
}
