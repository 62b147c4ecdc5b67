package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"shopease/internal/api"        // Custom package for API handlers
	"shopease/internal/config"     // Custom package for configuration
	"shopease/internal/domain"     // Role enumeration for route gating
	"shopease/internal/middleware" // Custom package for middleware

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Auth routes
	r.POST("/signup", api.SignupHandler(db))                     // Registration endpoint
	r.POST("/login", api.LoginHandler(db, cfg.JWTSecret))        // Login endpoint
	r.POST("/forgot_password", api.ForgotPasswordHandler(db))    // Password reset acknowledgement

	// Customer routes (protected, customer only)
	customer := r.Group("/customer")
	customer.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.RequireRole(db, domain.RoleCustomer))
	customer.GET("/home", api.CustomerHomeHandler(db, redisClient))                    // Storefront landing data
	customer.GET("/product/:id", api.ProductDetailHandler(db))                        // Product detail
	customer.GET("/search", api.SearchHandler(db))                                    // Catalog search
	customer.GET("/cart", api.ViewCartHandler(db, cfg))                               // View cart
	customer.POST("/add_to_cart", api.AddToCartHandler(db))                           // Add cart line
	customer.POST("/update_cart", api.UpdateCartHandler(db))                          // Change cart line
	customer.GET("/checkout", api.CheckoutHandler(db, redisClient, cfg))              // Checkout preview
	customer.POST("/apply_discount", api.ApplyDiscountHandler(db, redisClient))       // Apply coupon
	customer.POST("/remove_discount", api.RemoveDiscountHandler(redisClient))         // Drop coupon
	customer.POST("/place_order", api.PlaceOrderHandler(db, redisClient, cfg))        // Place order
	customer.GET("/orders", api.OrderHistoryHandler(db))                              // Order history
	customer.GET("/order/:id", api.OrderDetailHandler(db))                            // Order detail
	customer.GET("/profile", api.ProfileHandler(db))                                  // Read profile
	customer.POST("/profile", api.ProfileHandler(db))                                 // Update profile
	customer.GET("/wishlist", api.WishlistHandler(db))                                // Saved products
	customer.POST("/add_to_wishlist", api.AddToWishlistHandler(db))                   // Save product
	customer.POST("/remove_from_wishlist", api.RemoveFromWishlistHandler(db))         // Drop product
	customer.POST("/move_to_cart", api.MoveToCartHandler(db))                         // Wishlist to cart
	customer.POST("/add_review", api.AddReviewHandler(db))                            // Product review
	customer.GET("/api/user_points", api.UserPointsHandler(db, redisClient))          // Loyalty balance

	// Seller routes (protected, seller only)
	seller := r.Group("/seller")
	seller.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.RequireRole(db, domain.RoleSeller))
	seller.GET("/dashboard", api.SellerDashboardHandler(db))               // Listings, orders, stats
	seller.POST("/add_product", api.AddProductHandler(db))                 // New product + listing
	seller.POST("/edit_product/:id", api.EditProductHandler(db))           // Edit listing
	seller.GET("/orders", api.SellerOrdersHandler(db))                     // Orders with own items
	seller.GET("/order/:id", api.SellerOrderDetailHandler(db))             // Order detail + earnings
	seller.POST("/update_order_status", api.UpdateOrderStatusHandler(db))  // Move order state
	seller.GET("/analytics_popup", api.SellerAnalyticsHandler(db))         // Analytics summary

	// Admin routes (protected, admin only)
	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.RequireRole(db, domain.RoleAdmin))
	admin.GET("/dashboard", api.AdminDashboardHandler(db))                        // Platform counters
	admin.GET("/users", api.ListUsersHandler(db, redisClient))                    // List users endpoint
	admin.POST("/toggle_user_status", api.ToggleUserStatusHandler(db))            // Ban / unban
	admin.GET("/orders", api.ListOrdersHandler(db, redisClient))                  // List orders endpoint
	admin.POST("/update_payment_status", api.UpdatePaymentStatusHandler(db, cfg)) // Set payment state
	admin.POST("/sync_payment_status", api.SyncPaymentStatusHandler(db, cfg))     // Reconcile payments
	admin.GET("/discounts", api.ListDiscountsHandler(db))                         // List coupons
	admin.POST("/add_discount", api.AddDiscountHandler(db))                       // Create coupon

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
