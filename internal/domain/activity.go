package domain

import "time"

// Wishlist Model: a saved product, keyed by (user, product)
type Wishlist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                                   // Primary key
	UserID    uint      `gorm:"uniqueIndex:idx_wishlist_user_product" json:"user_id"`   // Owning customer
	ProductID uint      `gorm:"uniqueIndex:idx_wishlist_user_product" json:"product_id"` // Saved product
	DateAdded time.Time `gorm:"autoCreateTime" json:"date_added"`                       // Saved timestamp
	Product   Product   `json:"product"`                                                // For listing joins
}

// ProductReview Model
type ProductReview struct {
	ID           uint      `gorm:"primaryKey" json:"id"`             // Primary key
	UserID       uint      `gorm:"index;not null" json:"user_id"`    // Reviewing customer
	ProductID    uint      `gorm:"index;not null" json:"product_id"` // Reviewed product
	Rating       int       `gorm:"not null" json:"rating"`           // 1 to 5
	Review       string    `json:"review"`                           // Free-text feedback
	FeedbackDate time.Time `gorm:"autoCreateTime" json:"feedback_date"` // Submission timestamp
	User         User      `json:"user"`                             // Reviewer for name display
}

// UserActivity Model: best-effort interaction log feeding recommendations.
// Rows are written fire-and-forget and never block the triggering request.
type UserActivity struct {
	ID           uint         `gorm:"primaryKey" json:"id"`                  // Primary key
	UserID       uint         `gorm:"index;not null" json:"user_id"`         // Acting customer
	InventoryID  uint         `gorm:"index;not null" json:"inventory_id"`    // Listing interacted with
	ActivityType ActivityType `gorm:"type:varchar(16);not null" json:"activity_type"` // view, wishlist or purchase
	ActivityDate time.Time    `gorm:"autoCreateTime" json:"activity_date"`   // Event timestamp
}
