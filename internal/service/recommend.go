package service

import (
	"math/rand" // Sampling stage-one candidates

	"shopease/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Listing is a sellable inventory row flattened for catalog responses
type Listing struct {
	InventoryID  uint   `json:"inventory_id"`   // Listing ID
	ProductID    uint   `json:"product_id"`     // Product ID
	Name         string `json:"name"`           // Product name
	Category     string `json:"category"`       // Product category
	Brand        string `json:"brand"`          // Product brand
	PricePerUnit string `json:"price_per_unit"` // Unit price as decimal string
	CurrentStock int    `json:"current_stock"`  // Units on hand
	SellerName   string `json:"seller_name"`    // Listing owner
}

const listingSelect = `inventories.id as inventory_id, products.id as product_id,
	products.name as name, products.category as category, products.brand as brand,
	inventories.price_per_unit as price_per_unit, inventories.current_stock as current_stock,
	users.name as seller_name`

// sellableListings starts a query over in-stock listings of active sellers
func sellableListings(db *gorm.DB) *gorm.DB {
	return db.Table("inventories").
		Select(listingSelect).
		Joins("JOIN products ON products.id = inventories.product_id").
		Joins("JOIN users ON users.id = inventories.seller_id").
		Where("inventories.current_stock > 0 AND users.status = ?", domain.StatusActive)
}

// Recommend suggests up to limit listings for a customer. Stage one draws
// from categories the customer has interacted with, excluding listings
// already purchased; stage two pads with the most-interacted-with listings
// under the same exclusion, de-duplicated by listing. Recommendations are
// best-effort: on any error the slice built so far is returned and the
// page renders without the rest.
func Recommend(db *gorm.DB, userID uint, limit int) []Listing {
	recs := make([]Listing, 0, limit)
	if limit <= 0 {
		return recs
	}

	purchased := db.Table("user_activities").
		Select("inventory_id").
		Where("user_id = ? AND activity_type = ?", userID, domain.ActivityPurchase)
	interactedCategories := db.Table("user_activities").
		Select("DISTINCT p2.category").
		Joins("JOIN inventories i2 ON i2.id = user_activities.inventory_id").
		Joins("JOIN products p2 ON p2.id = i2.product_id").
		Where("user_activities.user_id = ?", userID)

	// Stage one: familiar categories, randomly sampled
	var familiar []Listing
	err := sellableListings(db).
		Where("products.category IN (?)", interactedCategories).
		Where("inventories.id NOT IN (?)", purchased).
		Find(&familiar).Error
	if err != nil {
		logrus.WithError(err).Debug("recommendation stage skipped")
		return recs
	}
	rand.Shuffle(len(familiar), func(i, j int) { familiar[i], familiar[j] = familiar[j], familiar[i] })
	if len(familiar) > limit {
		familiar = familiar[:limit]
	}
	recs = append(recs, familiar...)
	if len(recs) >= limit {
		return recs
	}

	// Stage two: pad with globally popular listings
	var popular []Listing
	err = sellableListings(db).
		Select(listingSelect + ", COUNT(user_activities.id) as activity_count").
		Joins("LEFT JOIN user_activities ON user_activities.inventory_id = inventories.id").
		Where("inventories.id NOT IN (?)", purchased).
		Group("inventories.id").
		Order("activity_count DESC, products.date_added DESC").
		Limit(limit).
		Find(&popular).Error
	if err != nil {
		logrus.WithError(err).Debug("recommendation fallback skipped")
		return recs
	}

	// De-duplicate by listing identity across the two stages
	seen := make(map[uint]bool, len(recs))
	for _, r := range recs {
		seen[r.InventoryID] = true
	}
	for _, r := range popular {
		if len(recs) >= limit {
			break
		}
		if !seen[r.InventoryID] {
			seen[r.InventoryID] = true
			recs = append(recs, r)
		}
	}
	return recs
}
