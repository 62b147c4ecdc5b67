package api

import (
	"errors"   // Typed error unwrapping
	"net/http" // HTTP status codes

	"shopease/internal/config"  // Delivery charge
	"shopease/internal/service" // Cart operations

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// AddToCartRequest carries an add-to-cart form
type AddToCartRequest struct {
	InventoryID uint `json:"inventory_id" binding:"required"`      // Target listing
	Quantity    int  `json:"quantity" binding:"required,gt=0"`     // Units to add
}

// UpdateCartRequest carries a quantity change; zero removes the line
type UpdateCartRequest struct {
	InventoryID uint `json:"inventory_id" binding:"required"` // Target listing
	Quantity    int  `json:"quantity"`                        // New quantity, <= 0 deletes
}

// AddToCartHandler puts units of a listing into the customer's cart
func AddToCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddToCartRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product selection"})
			return
		}
		inv, err := service.AddToCart(db, userID(c), req.InventoryID, req.Quantity)
		if err != nil {
			var stockErr *service.StockError
			switch {
			case errors.Is(err, service.ErrListingUnavailable):
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not available"})
			case errors.As(err, &stockErr):
				// Tell the customer how many units are left
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     stockErr.Error(),
					"available": stockErr.Available,
				})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error adding item to cart"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": inv.Product.Name + " added to cart"})
	}
}

// UpdateCartHandler sets a cart line's quantity
func UpdateCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateCartRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if err := service.SetCartQuantity(db, userID(c), req.InventoryID, req.Quantity); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart updated"})
	}
}

// ViewCartHandler returns the cart priced at live listing rates
func ViewCartHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := service.LoadCart(db, userID(c), cfg.DeliveryCharge)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}
