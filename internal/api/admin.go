package api

import (
	"context"  // Context for Redis operations
	"errors"   // Sentinel comparison
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation
	"time"     // Time durations

	"shopease/internal/config"  // Delivery charge
	"shopease/internal/domain"  // Importing domain models
	"shopease/internal/service" // Pricing helpers
	"shopease/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Currency amounts
	"gorm.io/gorm"                  // GORM ORM library
)

// pagination reads page/page_size query params with the usual bounds
func pagination(c *gin.Context) (page, pageSize int) {
	page = 1      // Default page number
	pageSize = 20 // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	// Check and set page size within limits
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v // Set page size
		}
	}
	return page, pageSize
}

// AdminDashboardHandler serves platform-wide counters
func AdminDashboardHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var totalUsers, totalOrders, totalProducts, activeDiscounts int64
		if err := db.Model(&domain.User{}).Where("role <> ?", domain.RoleAdmin).Count(&totalUsers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
			return
		}
		if err := db.Model(&domain.Order{}).Count(&totalOrders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
			return
		}
		if err := db.Model(&domain.Product{}).Count(&totalProducts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
			return
		}
		if err := db.Model(&domain.Discount{}).Where("end_date >= ?", time.Now()).Count(&activeDiscounts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"total_users":      totalUsers,
			"total_orders":     totalOrders,
			"total_products":   totalProducts,
			"active_discounts": activeDiscounts,
		})
	}
}

// ListUsersHandler returns all non-admin users, paginated and cached
func ListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Use background context for Redis
		// Create a cache key based on pagination parameters
		cacheKey := "admin:users:page=" + c.DefaultQuery("page", "1") + ":size=" + c.DefaultQuery("page_size", "20")
		// Try to get cached response
		var cached struct {
			Users      []domain.User `json:"users"`       // List of users
			Page       int           `json:"page"`        // Current page
			PageSize   int           `json:"page_size"`   // Page size
			Total      int64         `json:"total"`       // Total number of users
			TotalPages int           `json:"total_pages"` // Total pages
		}
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"users":       cached.Users,      // List of users
				"page":        cached.Page,       // Current page
				"page_size":   cached.PageSize,   // Page size
				"total":       cached.Total,      // Total number of users
				"total_pages": cached.TotalPages, // Total pages
				"cached":      true,              // Indicate response is from cache
			})
			return
		}
		page, pageSize := pagination(c)
		offset := (page - 1) * pageSize // Calculate offset for pagination
		var total int64                 // Total user count
		query := db.Model(&domain.User{}).Where("role <> ?", domain.RoleAdmin)
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"}) // Return on error
			return
		}
		var users []domain.User // Slice to hold users
		err = db.Where("role <> ?", domain.RoleAdmin).
			Order("join_date DESC").
			Offset(offset).Limit(pageSize).
			Find(&users).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"}) // Return on error
			return
		}
		// The total number of pages
		totalPages := (int(total) + pageSize - 1) / pageSize // Calculate total pages
		respData := gin.H{
			"users":       users,      // List of users
			"page":        page,       // Current page
			"page_size":   pageSize,   // Page size
			"total":       total,      // Total number of users
			"total_pages": totalPages, // Total pages
			"cached":      false,      // Indicate response is not from cache
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		c.JSON(http.StatusOK, respData) // Return the response
	}
}

// ToggleUserStatusHandler bans or unbans a non-admin account
func ToggleUserStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			UserID uint   `json:"user_id" binding:"required"`                  // Target account
			Action string `json:"action" binding:"required,oneof=ban unban"`   // ban or unban
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		newStatus := domain.StatusActive
		if req.Action == "ban" {
			newStatus = domain.StatusBanned
		}
		// Admin accounts can never be banned
		res := db.Model(&domain.User{}).
			Where("id = ? AND role <> ?", req.UserID, domain.RoleAdmin).
			Update("status", newStatus)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User " + req.Action + "ned successfully"})
	}
}

// ListOrdersHandler returns all orders with customer and payment info,
// paginated and cached, with optional status and date filters
func ListOrdersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		// Build cache key from all query params
		var keyParts []string // Parts of the cache key
		for _, k := range []string{"status", "from", "to", "page", "page_size"} {
			keyParts = append(keyParts, k+"="+c.DefaultQuery(k, "")) // Append key-value pair
		}
		cacheKey := "admin:orders:" + strings.Join(keyParts, ":")

		type orderRow struct {
			OrderID       uint                  `json:"order_id"`       // Order ID
			UserID        uint                  `json:"user_id"`        // Ordering customer ID
			OrderDate     time.Time             `json:"order_date"`     // Placement time
			Status        domain.OrderStatus    `json:"status"`         // Lifecycle state
			CustomerName  string                `json:"customer_name"`  // Customer display name
			Amount        *decimal.Decimal      `json:"amount"`         // Payment amount, nil if missing
			PaymentStatus *domain.PaymentStatus `json:"payment_status"` // Payment state
		}
		var cached struct {
			Orders     []orderRow `json:"orders"`      // List of orders
			Page       int        `json:"page"`        // Current page
			PageSize   int        `json:"page_size"`   // Page size
			Total      int64      `json:"total"`       // Total number of orders
			TotalPages int        `json:"total_pages"` // Total pages
		}
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"orders":      cached.Orders,
				"page":        cached.Page,
				"page_size":   cached.PageSize,
				"total":       cached.Total,
				"total_pages": cached.TotalPages,
				"cached":      true,
			})
			return
		}
		page, pageSize := pagination(c)
		offset := (page - 1) * pageSize

		query := db.Table("orders").
			Joins("JOIN users ON users.id = orders.user_id").
			Joins("LEFT JOIN payments ON payments.order_id = orders.id")
		if status := c.Query("status"); status != "" {
			query = query.Where("orders.status = ?", status) // Filter by order status
		}
		if from := c.Query("from"); from != "" {
			query = query.Where("orders.order_date >= ?", from) // Filter by start date
		}
		if to := c.Query("to"); to != "" {
			query = query.Where("orders.order_date <= ?", to) // Filter by end date
		}
		var total int64 // Total order count
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count orders"})
			return
		}
		var orders []orderRow
		err = query.
			Select(`orders.id as order_id, orders.user_id as user_id, orders.order_date as order_date,
				orders.status as status, users.name as customer_name,
				payments.amount as amount, payments.status as payment_status`).
			Order("orders.order_date DESC").
			Offset(offset).Limit(pageSize).
			Find(&orders).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		totalPages := (int(total) + pageSize - 1) / pageSize
		respData := gin.H{
			"orders":      orders,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages,
			"cached":      false,
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		c.JSON(http.StatusOK, respData)
	}
}

// orderItemsTotal sums an order's snapshot line totals
func orderItemsTotal(db *gorm.DB, orderID uint) (decimal.Decimal, error) {
	var items []domain.OrderItem
	if err := db.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(service.LineTotal(it.Quantity, it.PriceOnSale))
	}
	return service.Round(sum), nil
}

// UpdatePaymentStatusHandler sets an order's payment status, creating the
// payment row from the order's snapshot totals when it is missing
func UpdatePaymentStatusHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			OrderID       uint   `json:"order_id" binding:"required"`       // Target order
			PaymentStatus string `json:"payment_status" binding:"required"` // New state
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		status := domain.PaymentStatus(req.PaymentStatus)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment status"})
			return
		}
		var payment domain.Payment
		err := db.Where("order_id = ?", req.OrderID).First(&payment).Error
		switch {
		case err == nil:
			err = db.Model(&payment).Update("status", status).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Backfill the payment from the order's snapshot totals
			var subtotal decimal.Decimal
			if subtotal, err = orderItemsTotal(db, req.OrderID); err == nil {
				payment = domain.Payment{
					OrderID: req.OrderID,
					Amount:  service.Round(subtotal.Add(cfg.DeliveryCharge)),
					Method:  domain.PaymentMethodCOD,
					Status:  status,
				}
				err = db.Create(&payment).Error
			}
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment status updated successfully"})
	}
}

// SyncPaymentStatusHandler reconciles payments with order states:
// payments of delivered orders move from pending to completed, and orders
// lacking a payment row get one with a status derived from the order
func SyncPaymentStatusHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Complete pending payments of delivered orders
		deliveredIDs := db.Model(&domain.Order{}).Select("id").Where("status = ?", domain.OrderDelivered)
		err := db.Model(&domain.Payment{}).
			Where("order_id IN (?) AND status = ?", deliveredIDs, domain.PaymentPending).
			Update("status", domain.PaymentCompleted).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sync payments"})
			return
		}
		// Backfill payment rows for orders that never got one
		var missing []domain.Order
		err = db.Where("id NOT IN (?)", db.Model(&domain.Payment{}).Select("order_id")).
			Find(&missing).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sync payments"})
			return
		}
		created := 0
		for _, order := range missing {
			subtotal, err := orderItemsTotal(db, order.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sync payments"})
				return
			}
			// Payment state follows the order state
			status := domain.PaymentPending
			switch order.Status {
			case domain.OrderDelivered:
				status = domain.PaymentCompleted
			case domain.OrderCancelled:
				status = domain.PaymentFailed
			}
			payment := domain.Payment{
				OrderID: order.ID,
				Amount:  service.Round(subtotal.Add(cfg.DeliveryCharge)),
				Method:  domain.PaymentMethodCOD,
				Status:  status,
			}
			if err := db.Create(&payment).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sync payments"})
				return
			}
			created++
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Payment status synchronized successfully. Created " + strconv.Itoa(created) + " missing payment records.",
			"created": created,
		})
	}
}

// ListDiscountsHandler returns every discount, newest window first
func ListDiscountsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var discounts []domain.Discount
		if err := db.Order("start_date DESC").Find(&discounts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch discounts"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"discounts": discounts})
	}
}

// AddDiscountRequest carries a new coupon definition
type AddDiscountRequest struct {
	DiscountCode  string          `json:"discount_code" binding:"required"`                        // Coupon code
	DiscountType  string          `json:"discount_type" binding:"required,oneof=percentage fixed"` // Kind
	DiscountValue decimal.Decimal `json:"discount_value" binding:"required"`                       // Percent or amount
	StartDate     string          `json:"start_date" binding:"required"`                           // YYYY-MM-DD
	EndDate       string          `json:"end_date" binding:"required"`                             // YYYY-MM-DD
	UseLimit      int             `json:"use_limit" binding:"gte=0"`                               // Redemption budget
}

// AddDiscountHandler creates a coupon
func AddDiscountHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddDiscountRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date"})
			return
		}
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil || end.Before(start) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end date"})
			return
		}
		discount := domain.Discount{
			Code:      strings.ToUpper(strings.TrimSpace(req.DiscountCode)),
			Type:      domain.DiscountType(req.DiscountType),
			Value:     service.Round(req.DiscountValue),
			StartDate: start,
			EndDate:   end,
			UseLimit:  req.UseLimit,
		}
		if err := db.Create(&discount).Error; err != nil {
			// Duplicate code is the expected failure here
			c.JSON(http.StatusBadRequest, gin.H{"error": "Discount code already exists"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Discount added successfully", "discount": discount})
	}
}
