package service

import (
	"time" // Discount window filter

	"shopease/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// TopListings returns the newest in-stock listings of active sellers
func TopListings(db *gorm.DB, limit int) ([]Listing, error) {
	var listings []Listing
	err := sellableListings(db).
		Order("products.date_added DESC").
		Limit(limit).
		Find(&listings).Error
	return listings, err
}

// Categories returns every distinct product category, sorted
func Categories(db *gorm.DB) ([]string, error) {
	var categories []string
	err := db.Model(&domain.Product{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}

// ActiveDiscounts returns up to limit currently redeemable discounts
func ActiveDiscounts(db *gorm.DB, limit int) ([]domain.Discount, error) {
	var discounts []domain.Discount
	now := time.Now()
	err := db.Where("start_date <= ? AND end_date >= ? AND use_limit > 0", now, now).
		Limit(limit).
		Find(&discounts).Error
	return discounts, err
}

// ProductListings returns a product's listings from active sellers
func ProductListings(db *gorm.DB, productID uint) ([]Listing, error) {
	var listings []Listing
	err := db.Table("inventories").
		Select(listingSelect).
		Joins("JOIN products ON products.id = inventories.product_id").
		Joins("JOIN users ON users.id = inventories.seller_id").
		Where("products.id = ? AND users.status = ?", productID, domain.StatusActive).
		Find(&listings).Error
	return listings, err
}

// SearchListings filters sellable listings by an optional name/brand
// substring and an optional exact category, newest first
func SearchListings(db *gorm.DB, query, category string) ([]Listing, error) {
	q := sellableListings(db)
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("products.name LIKE ? OR products.brand LIKE ?", like, like)
	}
	if category != "" {
		q = q.Where("products.category = ?", category)
	}
	var listings []Listing
	err := q.Order("products.date_added DESC").Find(&listings).Error
	return listings, err
}

// CheapestListing picks the best available listing for a product: lowest
// price first, deepest stock as the tie-break. Used by the wishlist page.
func CheapestListing(db *gorm.DB, productID uint) (*Listing, error) {
	var listings []Listing
	err := sellableListings(db).
		Where("products.id = ?", productID).
		Order("inventories.price_per_unit ASC, inventories.current_stock DESC").
		Limit(1).
		Find(&listings).Error
	if err != nil || len(listings) == 0 {
		return nil, err
	}
	return &listings[0], nil
}
