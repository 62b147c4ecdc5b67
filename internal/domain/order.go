package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order Model: order header. Items are append-only once attached; only the
// status field changes afterwards.
type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`                           // Primary key
	UserID          uint        `gorm:"index;not null" json:"user_id"`                  // Ordering customer
	OrderDate       time.Time   `gorm:"autoCreateTime" json:"order_date"`               // Placement timestamp
	Status          OrderStatus `gorm:"type:varchar(16);default:pending" json:"status"` // Lifecycle state
	DeliveryAddress string      `json:"delivery_address"`                               // Shipping destination captured at placement
	Items           []OrderItem `json:"items,omitempty"`                                // Line items
}

// OrderItem Model: historical snapshot of a purchased line. PriceOnSale is
// captured at placement and never follows later inventory price changes.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`                      // Primary key
	OrderID     uint            `gorm:"index;not null" json:"order_id"`            // Owning order
	InventoryID uint            `gorm:"index;not null" json:"inventory_id"`        // Purchased listing
	Quantity    int             `gorm:"not null" json:"quantity"`                  // Units purchased
	PriceOnSale decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_on_sale"` // Unit price at placement
	DiscountID  *uint           `json:"discount_id,omitempty"`                     // Discount applied to the order, if any
	Inventory   Inventory       `json:"inventory"`                                 // Listing for joins
}

// Payment Model: one-to-one with Order
type Payment struct {
	ID              uint            `gorm:"primaryKey" json:"id"`                     // Primary key
	OrderID         uint            `gorm:"uniqueIndex;not null" json:"order_id"`     // Paid order
	Amount          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"` // Discounted subtotal plus delivery charge
	Method          string          `gorm:"not null" json:"method"`                   // Payment method, cash_on_delivery only
	Status          PaymentStatus   `gorm:"type:varchar(16);default:pending" json:"status"` // pending, completed or failed
	TransactionDate time.Time       `gorm:"autoCreateTime" json:"transaction_date"`   // Record timestamp
}

// PaymentMethodCOD is the only supported payment method.
const PaymentMethodCOD = "cash_on_delivery"
