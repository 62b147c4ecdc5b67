package service

import (
	"testing"
	"time"

	shopdb "shopease/internal/db"
	"shopease/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema. The
// pool is pinned to one connection so every query sees the same memory DB.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	require.NoError(t, db.AutoMigrate(shopdb.Models()...))
	return db
}

// seedUser creates an account with the given role and status
func seedUser(t *testing.T, db *gorm.DB, name string, role domain.Role, status domain.UserStatus) domain.User {
	t.Helper()
	user := domain.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "x",
		Role:     role,
		Status:   status,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// seedListing creates a product and one listing of it for the seller
func seedListing(t *testing.T, db *gorm.DB, sellerID uint, name, category, price string, stock int) domain.Inventory {
	t.Helper()
	product := domain.Product{Name: name, Category: category, Brand: "Acme"}
	require.NoError(t, db.Create(&product).Error)
	p, err := decimal.NewFromString(price)
	require.NoError(t, err)
	inv := domain.Inventory{
		ProductID:    product.ID,
		SellerID:     sellerID,
		PricePerUnit: p,
		CurrentStock: stock,
	}
	require.NoError(t, db.Create(&inv).Error)
	return inv
}

// seedCartLine puts quantity units of a listing into a user's cart
func seedCartLine(t *testing.T, db *gorm.DB, userID, inventoryID uint, quantity int) {
	t.Helper()
	require.NoError(t, db.Create(&domain.CartItem{
		UserID:      userID,
		InventoryID: inventoryID,
		Quantity:    quantity,
	}).Error)
}

// seedDiscount creates a coupon valid for the given window around now
func seedDiscount(t *testing.T, db *gorm.DB, code string, kind domain.DiscountType, value string, useLimit int, start, end time.Time) domain.Discount {
	t.Helper()
	v, err := decimal.NewFromString(value)
	require.NoError(t, err)
	d := domain.Discount{
		Code:      code,
		Type:      kind,
		Value:     v,
		StartDate: start,
		EndDate:   end,
		UseLimit:  useLimit,
	}
	require.NoError(t, db.Create(&d).Error)
	return d
}
