package db

import (
	"shopease/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
)

// Models lists every table in migration order, parents before children.
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Product{},
		&domain.Inventory{},
		&domain.CartItem{},
		&domain.Discount{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.Payment{},
		&domain.Wishlist{},
		&domain.ProductReview{},
		&domain.UserActivity{},
	}
}

// Migrate performs automatic migration for the database schema
func Migrate(dsn string) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{}) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(Models()...); err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	logrus.Info("Migration completed.") // Log successful migration
}
