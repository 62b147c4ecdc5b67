package api

import (
	"context"  // Context for Redis operations
	"errors"   // Sentinel comparison
	"net/http" // HTTP status codes
	"strconv"  // Path parameter parsing
	"time"     // Cache TTLs

	"shopease/internal/config"  // Delivery charge and loyalty rate
	"shopease/internal/domain"  // Importing domain models
	"shopease/internal/service" // Checkout unit-of-work
	"shopease/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Currency amounts
	"github.com/sirupsen/logrus"    // Logging library
	"gorm.io/gorm"                  // GORM ORM library
)

// How long an applied discount survives in the session before checkout
const pendingDiscountTTL = 30 * time.Minute

// ApplyDiscountHandler validates a coupon against the live cart and parks
// it in the customer's session. Responds with the {success, message} shape
// the storefront scripts consume.
func ApplyDiscountHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			DiscountCode string `json:"discount_code"` // Coupon code
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.DiscountCode == "" {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Please enter a discount code"})
			return
		}
		discount, err := service.FindValidDiscount(db, req.DiscountCode)
		if errors.Is(err, service.ErrDiscountInvalid) {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid or expired discount code"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to look up discount"})
			return
		}
		uid := userID(c)
		summary, err := service.LoadCart(db, uid, decimal.Zero)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load cart"})
			return
		}
		if len(summary.Items) == 0 {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Your cart is empty"})
			return
		}
		amount := service.DiscountAmount(summary.Subtotal, discount)
		// Park the applied discount server-side until placement
		pending := service.PendingDiscount{
			DiscountID: discount.ID,
			Code:       discount.Code,
			Type:       discount.Type,
			Value:      discount.Value.StringFixed(2),
			Amount:     amount.StringFixed(2),
		}
		ctx := context.Background()
		if err := utils.SetCache(ctx, rdb, utils.PendingDiscountKey(uid), pending, pendingDiscountTTL); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to apply discount"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":         true,
			"message":         "Discount \"" + discount.Code + "\" applied successfully!",
			"discount_amount": amount.StringFixed(2),
			"discount_type":   discount.Type,
			"discount_value":  discount.Value.StringFixed(2),
		})
	}
}

// RemoveDiscountHandler clears the session's pending discount
func RemoveDiscountHandler(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		_ = utils.DeleteCache(ctx, rdb, utils.PendingDiscountKey(userID(c)))
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Discount removed"})
	}
}

// CheckoutHandler previews the order: cart lines, subtotal, the pending
// discount recomputed against the live cart, delivery charge, total and
// the points the order would earn
func CheckoutHandler(db *gorm.DB, rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := userID(c)
		summary, err := service.LoadCart(db, uid, cfg.DeliveryCharge)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
			return
		}
		if len(summary.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			return
		}
		// Recompute the pending discount against the live subtotal
		discountAmount := decimal.Zero
		var pending *service.PendingDiscount
		var cached service.PendingDiscount
		ctx := context.Background()
		if found, err := utils.GetCache(ctx, rdb, utils.PendingDiscountKey(uid), &cached); err == nil && found {
			if d, err := service.FindValidDiscount(db, cached.Code); err == nil {
				discountAmount = service.DiscountAmount(summary.Subtotal, d)
				cached.Amount = discountAmount.StringFixed(2)
				pending = &cached
			}
		}
		discountedSubtotal := service.Round(summary.Subtotal.Sub(discountAmount))
		total := service.Round(discountedSubtotal.Add(cfg.DeliveryCharge))

		var user domain.User
		if err := db.First(&user, uid).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"cart_items":          summary.Items,
			"subtotal":            summary.Subtotal,
			"discount_amount":     discountAmount,
			"discounted_subtotal": discountedSubtotal,
			"delivery_charge":     cfg.DeliveryCharge,
			"total_amount":        total,
			"earnable_points":     service.LoyaltyPoints(discountedSubtotal, cfg.LoyaltyRate),
			"applied_discount":    pending,
			"delivery_address":    user.Address,
		})
	}
}

// PlaceOrderRequest carries the checkout confirmation form
type PlaceOrderRequest struct {
	DeliveryAddress string `json:"delivery_address" binding:"required"` // Shipping destination
}

// PlaceOrderHandler runs the checkout unit-of-work and clears the pending
// discount on success. Rejections map to specific messages; anything else
// is a generic failure with the cart preserved for retry.
func PlaceOrderHandler(db *gorm.DB, rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Delivery address is required"})
			return
		}
		uid := userID(c)
		ctx := context.Background()

		// Pending discount from the session, if any
		var discountID *uint
		var pending service.PendingDiscount
		if found, err := utils.GetCache(ctx, rdb, utils.PendingDiscountKey(uid), &pending); err == nil && found {
			discountID = &pending.DiscountID
		}

		result, err := service.PlaceOrder(db, service.CheckoutInput{
			UserID:          uid,
			DeliveryAddress: req.DeliveryAddress,
			DiscountID:      discountID,
			DeliveryCharge:  cfg.DeliveryCharge,
			LoyaltyRate:     cfg.LoyaltyRate,
		})
		if err != nil {
			switch {
			case errors.Is(err, service.ErrEmptyCart):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			case errors.Is(err, service.ErrOutOfStock):
				c.JSON(http.StatusConflict, gin.H{"error": "One or more items are out of stock"})
			case errors.Is(err, service.ErrDiscountInvalid):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired discount code"})
			default:
				// Log the error with context; the cart is untouched
				logrus.WithFields(logrus.Fields{
					"user_id": uid,
					"error":   err.Error(),
				}).Error("Order placement failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error placing order"})
			}
			return
		}
		// The discount was consumed with the order; drop the session
		// record and the stale points cache
		_ = utils.DeleteCache(ctx, rdb, utils.PendingDiscountKey(uid))
		_ = utils.DeleteCache(ctx, rdb, utils.PointsKey(uid))

		c.JSON(http.StatusCreated, gin.H{
			"message": "Order placed successfully!",
			"order":   result,
		})
	}
}

// OrderHistoryHandler lists the customer's orders with payment info
func OrderHistoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		type orderRow struct {
			domain.Order
			Amount        *decimal.Decimal      `json:"amount"`         // Payment amount, nil if missing
			PaymentMethod *string               `json:"payment_method"` // Payment method
			PaymentStatus *domain.PaymentStatus `json:"payment_status"` // Payment state
		}
		var orders []orderRow
		err := db.Table("orders").
			Select("orders.*, payments.amount as amount, payments.method as payment_method, payments.status as payment_status").
			Joins("LEFT JOIN payments ON payments.order_id = orders.id").
			Where("orders.user_id = ?", userID(c)).
			Order("orders.order_date DESC").
			Find(&orders).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

// OrderDetailHandler returns one of the customer's orders with its items
func OrderDetailHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.Atoi(c.Param("id"))
		if err != nil || orderID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order"})
			return
		}
		var order domain.Order
		err = db.Preload("Items.Inventory.Product").
			Where("id = ? AND user_id = ?", orderID, userID(c)).
			First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		var payment domain.Payment
		_ = db.Where("order_id = ?", order.ID).First(&payment).Error
		c.JSON(http.StatusOK, gin.H{"order": order, "payment": payment})
	}
}

// UserPointsHandler returns the customer's loyalty balance, cached briefly
func UserPointsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := userID(c)
		ctx := context.Background()
		var points int
		if found, err := utils.GetCache(ctx, rdb, utils.PointsKey(uid), &points); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"points": points})
			return
		}
		var user domain.User
		if err := db.First(&user, uid).Error; err != nil {
			c.JSON(http.StatusOK, gin.H{"points": 0})
			return
		}
		_ = utils.SetCache(ctx, rdb, utils.PointsKey(uid), user.LoyaltyPoints, 60*time.Second)
		c.JSON(http.StatusOK, gin.H{"points": user.LoyaltyPoints})
	}
}

// ProfileHandler reads or updates the customer's profile
func ProfileHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := userID(c)
		if c.Request.Method == http.MethodPost {
			var req struct {
				Name    string `json:"name" binding:"required"` // Display name
				Phone   string `json:"phone"`                   // Contact phone
				Address string `json:"address"`                 // Delivery address
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
			err := db.Model(&domain.User{}).Where("id = ?", uid).
				Updates(map[string]any{"name": req.Name, "phone": req.Phone, "address": req.Address}).Error
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
				return
			}
		}
		var user domain.User
		if err := db.First(&user, uid).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}
