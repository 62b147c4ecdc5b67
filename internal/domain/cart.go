package domain

import "time"

// CartItem Model: one line of a customer's cart. A customer holds at most
// one line per inventory listing; quantities are merged on repeat adds.
type CartItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`                                 // Primary key
	UserID      uint      `gorm:"uniqueIndex:idx_cart_user_inventory" json:"user_id"`   // Owning customer
	InventoryID uint      `gorm:"uniqueIndex:idx_cart_user_inventory" json:"inventory_id"` // Target listing
	Quantity    int       `gorm:"not null" json:"quantity"`                             // Units requested, always > 0
	DateAdded   time.Time `gorm:"autoCreateTime" json:"date_added"`                     // First added timestamp
	Inventory   Inventory `json:"inventory"`                                            // Listing with live price and stock
}
