package api

import (
	"errors"   // Typed error unwrapping
	"net/http" // HTTP status codes

	"shopease/internal/domain"  // Importing domain models
	"shopease/internal/service" // Cart and catalog operations

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// wishlistEntry pairs a saved product with its best available listing
type wishlistEntry struct {
	ProductID uint             `json:"product_id"` // Saved product
	DateAdded string           `json:"date_added"` // When it was saved
	Listing   *service.Listing `json:"listing"`    // Cheapest in-stock active listing, nil if none
}

// WishlistHandler lists the customer's saved products, each resolved to
// the cheapest in-stock listing from an active seller. Products with no
// sellable listing are omitted, matching the storefront page.
func WishlistHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var saved []domain.Wishlist
		err := db.Where("user_id = ?", userID(c)).
			Order("date_added DESC").
			Find(&saved).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wishlist"})
			return
		}
		entries := make([]wishlistEntry, 0, len(saved))
		for _, w := range saved {
			listing, err := service.CheapestListing(db, w.ProductID)
			if err != nil || listing == nil {
				continue // Nothing sellable for this product right now
			}
			entries = append(entries, wishlistEntry{
				ProductID: w.ProductID,
				DateAdded: w.DateAdded.Format("2006-01-02"),
				Listing:   listing,
			})
		}
		c.JSON(http.StatusOK, gin.H{"wishlist_items": entries})
	}
}

// AddToWishlistHandler saves a product; repeat adds are reported, not
// duplicated
func AddToWishlistHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProductID uint `json:"product_id" binding:"required"` // Product to save
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		uid := userID(c)
		var count int64
		if err := db.Model(&domain.Wishlist{}).
			Where("user_id = ? AND product_id = ?", uid, req.ProductID).
			Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusOK, gin.H{"message": "Item already in wishlist"})
			return
		}
		if err := db.Create(&domain.Wishlist{UserID: uid, ProductID: req.ProductID}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
			return
		}
		// Track against any listing of the product, best-effort
		var inv domain.Inventory
		if err := db.Where("product_id = ?", req.ProductID).First(&inv).Error; err == nil {
			service.TrackActivity(db, uid, inv.ID, domain.ActivityWishlist)
		}
		c.JSON(http.StatusOK, gin.H{"message": "Added to wishlist"})
	}
}

// RemoveFromWishlistHandler drops a saved product
func RemoveFromWishlistHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProductID uint `json:"product_id" binding:"required"` // Product to drop
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		res := db.Where("user_id = ? AND product_id = ?", userID(c), req.ProductID).
			Delete(&domain.Wishlist{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found in wishlist"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from wishlist"})
	}
}

// MoveToCartHandler adds a wishlisted product's listing to the cart and
// removes the wishlist row
func MoveToCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			InventoryID uint `json:"inventory_id" binding:"required"` // Listing to buy
			ProductID   uint `json:"product_id" binding:"required"`   // Wishlist row to drop
			Quantity    int  `json:"quantity"`                        // Units, defaults to 1
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item selected"})
			return
		}
		if req.Quantity <= 0 {
			req.Quantity = 1
		}
		uid := userID(c)
		if _, err := service.AddToCart(db, uid, req.InventoryID, req.Quantity); err != nil {
			var stockErr *service.StockError
			switch {
			case errors.Is(err, service.ErrListingUnavailable):
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not available"})
			case errors.As(err, &stockErr):
				c.JSON(http.StatusBadRequest, gin.H{"error": stockErr.Error(), "available": stockErr.Available})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error moving item to cart"})
			}
			return
		}
		_ = db.Where("user_id = ? AND product_id = ?", uid, req.ProductID).
			Delete(&domain.Wishlist{}).Error
		c.JSON(http.StatusOK, gin.H{"message": "Item moved to cart successfully"})
	}
}

// AddReviewHandler records a product review
func AddReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProductID uint   `json:"product_id" binding:"required"`          // Reviewed product
			Rating    int    `json:"rating" binding:"required,min=1,max=5"`  // 1 to 5 stars
			Review    string `json:"review"`                                 // Free-text feedback
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		review := domain.ProductReview{
			UserID:    userID(c),
			ProductID: req.ProductID,
			Rating:    req.Rating,
			Review:    req.Review,
		}
		if err := db.Create(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add review"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Review added successfully"})
	}
}
