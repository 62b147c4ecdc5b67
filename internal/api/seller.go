package api

import (
	"errors"   // Sentinel comparison
	"net/http" // HTTP status codes
	"strconv"  // Path parameter parsing
	"time"     // Analytics clock

	"shopease/internal/domain"  // Importing domain models
	"shopease/internal/service" // Seller analytics

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Currency amounts
	"github.com/sirupsen/logrus"    // Logging library
	"gorm.io/gorm"                  // GORM ORM library
)

// sellerOrderRow summarizes one order touching the seller's inventory
type sellerOrderRow struct {
	OrderID      uint               `json:"order_id"`      // Order ID
	OrderDate    time.Time          `json:"order_date"`    // Placement time
	Status       domain.OrderStatus `json:"status"`        // Lifecycle state
	CustomerName string             `json:"customer_name"` // Ordering customer
	Address      string             `json:"address"`       // Customer address
	Amount       decimal.Decimal    `json:"amount"`        // Seller's share of the order
}

// sellerOrders lists orders containing the seller's items, with the
// seller's own revenue per order
func sellerOrders(db *gorm.DB, sellerID uint, limit int) ([]sellerOrderRow, error) {
	q := db.Table("orders").
		Select(`orders.id as order_id, orders.order_date as order_date, orders.status as status,
			users.name as customer_name, users.address as address,
			SUM(order_items.quantity * order_items.price_on_sale) as amount`).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Joins("JOIN inventories ON inventories.id = order_items.inventory_id").
		Joins("JOIN users ON users.id = orders.user_id").
		Where("inventories.seller_id = ?", sellerID).
		Group("orders.id, orders.order_date, orders.status, users.name, users.address").
		Order("orders.order_date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []sellerOrderRow
	err := q.Find(&rows).Error
	return rows, err
}

// SellerDashboardHandler serves the seller's listings, recent orders and
// sales statistics
func SellerDashboardHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := userID(c)
		var listings []domain.Inventory
		err := db.Preload("Product").
			Where("seller_id = ?", sellerID).
			Find(&listings).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
			return
		}
		orders, err := sellerOrders(db, sellerID, 10)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
			return
		}
		now := time.Now()
		stats, err := service.SellerMonthlyStats(db, sellerID, now)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
			return
		}
		analytics, err := service.SellerAnalytics(db, sellerID, now)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"products":      listings,
			"orders":        orders,
			"monthly_stats": stats,
			"analytics":     analytics,
		})
	}
}

// AddProductRequest carries a new product listing
type AddProductRequest struct {
	ProductName  string          `json:"product_name" binding:"required"` // Product name
	Category     string          `json:"category" binding:"required"`     // Category
	Brand        string          `json:"brand"`                           // Brand
	Price        decimal.Decimal `json:"price" binding:"required"`        // Unit price
	Stock        int             `json:"stock" binding:"gte=0"`           // Initial stock
	ReorderLevel int             `json:"reorder_level" binding:"gte=0"`   // Restock threshold
}

// AddProductHandler creates a product and the seller's listing for it in
// one transaction
func AddProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddProductRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Price.LessThanOrEqual(decimal.Zero) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be positive"})
			return
		}
		sellerID := userID(c)
		var inv domain.Inventory
		err := db.Transaction(func(tx *gorm.DB) error {
			product := domain.Product{Name: req.ProductName, Category: req.Category, Brand: req.Brand}
			if err := tx.Create(&product).Error; err != nil {
				return err // Return error to rollback
			}
			inv = domain.Inventory{
				ProductID:    product.ID,
				SellerID:     sellerID,
				PricePerUnit: service.Round(req.Price),
				CurrentStock: req.Stock,
				ReorderLevel: req.ReorderLevel,
			}
			return tx.Create(&inv).Error
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"seller_id": sellerID,
				"error":     err.Error(),
			}).Error("Failed to add product")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error adding product"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Product added successfully", "inventory_id": inv.ID})
	}
}

// EditProductRequest carries listing changes
type EditProductRequest struct {
	Price        decimal.Decimal `json:"price" binding:"required"`      // New unit price
	Stock        int             `json:"stock" binding:"gte=0"`         // New stock count
	ReorderLevel int             `json:"reorder_level" binding:"gte=0"` // New restock threshold
}

// EditProductHandler updates price, stock and reorder level of one of the
// seller's own listings. Existing order items keep their snapshot prices.
func EditProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		inventoryID, err := strconv.Atoi(c.Param("id"))
		if err != nil || inventoryID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing"})
			return
		}
		var req EditProductRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Price.LessThanOrEqual(decimal.Zero) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be positive"})
			return
		}
		// Scoped to the seller so one seller cannot edit another's listing
		res := db.Model(&domain.Inventory{}).
			Where("id = ? AND seller_id = ?", inventoryID, userID(c)).
			Updates(map[string]any{
				"price_per_unit": service.Round(req.Price),
				"current_stock":  req.Stock,
				"reorder_level":  req.ReorderLevel,
			})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
	}
}

// SellerOrdersHandler lists every order touching the seller's inventory
func SellerOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := sellerOrders(db, userID(c), 0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

// SellerOrderDetailHandler returns one order the seller participates in,
// with the seller's own items and earnings
func SellerOrderDetailHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.Atoi(c.Param("id"))
		if err != nil || orderID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order"})
			return
		}
		sellerID := userID(c)
		// Only the seller's own lines of the order are visible
		var items []domain.OrderItem
		err = db.Preload("Inventory.Product").
			Joins("JOIN inventories ON inventories.id = order_items.inventory_id").
			Where("order_items.order_id = ? AND inventories.seller_id = ?", orderID, sellerID).
			Find(&items).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
			return
		}
		if len(items) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found or access denied"})
			return
		}
		var order domain.Order
		if err := db.First(&order, orderID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
			return
		}
		var customer domain.User
		if err := db.First(&customer, order.UserID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
			return
		}
		earnings := decimal.Zero
		for _, it := range items {
			earnings = earnings.Add(service.LineTotal(it.Quantity, it.PriceOnSale))
		}
		var payment domain.Payment
		_ = db.Where("order_id = ?", order.ID).First(&payment).Error
		c.JSON(http.StatusOK, gin.H{
			"order": order,
			"customer": gin.H{
				"name":    customer.Name,
				"email":   customer.Email,
				"phone":   customer.Phone,
				"address": customer.Address,
			},
			"order_items":     items,
			"seller_earnings": service.Round(earnings),
			"payment":         payment,
		})
	}
}

// UpdateOrderStatusHandler moves an order the seller participates in to a
// new lifecycle state
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			OrderID uint   `json:"order_id" binding:"required"` // Target order
			Status  string `json:"status" binding:"required"`   // New state
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		status := domain.OrderStatus(req.Status)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
			return
		}
		// The order must contain at least one of the seller's items
		var count int64
		err := db.Table("order_items").
			Joins("JOIN inventories ON inventories.id = order_items.inventory_id").
			Where("order_items.order_id = ? AND inventories.seller_id = ?", req.OrderID, userID(c)).
			Count(&count).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
			return
		}
		if count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found or access denied"})
			return
		}
		err = db.Model(&domain.Order{}).Where("id = ?", req.OrderID).
			Update("status", status).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated"})
	}
}

// SellerAnalyticsHandler serves the analytics popup payload
func SellerAnalyticsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		analytics, err := service.SellerAnalytics(db, userID(c), time.Now())
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"analytics": analytics})
	}
}
