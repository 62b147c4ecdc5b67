package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product Model
type Product struct {
	ID        uint      `gorm:"primaryKey" json:"id"`         // Primary key
	Name      string    `gorm:"not null" json:"name"`         // Product name
	Category  string    `gorm:"index" json:"category"`        // Category used for search and recommendations
	Brand     string    `json:"brand"`                        // Brand name
	DateAdded time.Time `gorm:"autoCreateTime" json:"date_added"` // Catalog entry timestamp
}

// Inventory Model: one seller's listing of a product. A product may have
// listings from several sellers at different prices.
type Inventory struct {
	ID           uint            `gorm:"primaryKey" json:"id"`                        // Primary key
	ProductID    uint            `gorm:"index;not null" json:"product_id"`            // Foreign key to Product
	SellerID     uint            `gorm:"index;not null" json:"seller_id"`             // Foreign key to the selling User
	PricePerUnit decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_per_unit"` // Current unit price
	CurrentStock int             `gorm:"not null;default:0" json:"current_stock"`     // Units on hand, never negative
	ReorderLevel int             `gorm:"not null;default:0" json:"reorder_level"`     // Restock threshold for the seller dashboard
	Product      Product         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"product"` // Listed product
	Seller       User            `gorm:"foreignKey:SellerID" json:"-"`                // Listing owner
}
