package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // Path parameter parsing
	"time"     // Cache TTLs

	"shopease/internal/domain"     // Importing domain models
	"shopease/internal/middleware" // Context keys
	"shopease/internal/service"    // Catalog queries
	"shopease/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// userID pulls the authenticated user's ID out of the gin context
func userID(c *gin.Context) uint {
	v, _ := c.Get(middleware.CtxUserID)
	id, _ := v.(uint)
	return id
}

// homeSections is the cacheable part of the customer home page
type homeSections struct {
	TopProducts []service.Listing `json:"top_products"` // Newest sellable listings
	Categories  []string          `json:"categories"`   // Distinct categories
	Discounts   []domain.Discount `json:"discounts"`    // Currently redeemable codes
}

// CustomerHomeHandler serves the storefront landing data: newest products,
// categories, live discounts and per-user recommendations. Everything but
// the recommendations is shared across users and cached for 60 seconds.
func CustomerHomeHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Use background context for Redis
		var sections homeSections
		found, err := utils.GetCache(ctx, rdb, utils.HomeKey, &sections)
		if err != nil || !found {
			// Cache miss: build the shared sections from the database
			if sections.TopProducts, err = service.TopListings(db, 4); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
				return
			}
			if sections.Categories, err = service.Categories(db); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load categories"})
				return
			}
			if sections.Discounts, err = service.ActiveDiscounts(db, 5); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load discounts"})
				return
			}
			_ = utils.SetCache(ctx, rdb, utils.HomeKey, sections, 60*time.Second)
		}
		c.JSON(http.StatusOK, gin.H{
			"top_products":         sections.TopProducts,
			"categories":           sections.Categories,
			"discounts":            sections.Discounts,
			"recommended_products": service.Recommend(db, userID(c), 4), // Best-effort, never cached
		})
	}
}

// ProductDetailHandler serves one product with its listings, reviews and
// the viewer's wishlist flag, and tracks a best-effort view event
func ProductDetailHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.Atoi(c.Param("id"))
		if err != nil || productID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product"})
			return
		}
		listings, err := service.ProductListings(db, uint(productID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load product"})
			return
		}
		if len(listings) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		uid := userID(c)
		// Viewing counts as interaction with the first listing
		service.TrackActivity(db, uid, listings[0].InventoryID, domain.ActivityView)

		// Wishlist membership for the viewer
		var wishCount int64
		_ = db.Model(&domain.Wishlist{}).
			Where("user_id = ? AND product_id = ?", uid, productID).
			Count(&wishCount).Error

		// Reviews with reviewer names, newest first
		var reviews []domain.ProductReview
		if err := db.Preload("User").Where("product_id = ?", productID).
			Order("feedback_date DESC").Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviews"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"product":     listings[0],
			"listings":    listings,
			"reviews":     reviews,
			"in_wishlist": wishCount > 0,
		})
	}
}

// SearchHandler filters the catalog by query string and category
func SearchHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")           // Name/brand substring
		category := c.Query("category") // Exact category
		listings, err := service.SearchListings(db, query, category)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"products": listings,
			"query":    query,
			"category": category,
		})
	}
}
