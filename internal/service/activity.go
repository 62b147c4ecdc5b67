package service

import (
	"shopease/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// TrackActivity records an interaction event for the recommendation
// engine. Tracking is strictly best-effort: failures are logged at debug
// level and never propagate to the caller.
func TrackActivity(db *gorm.DB, userID, inventoryID uint, kind domain.ActivityType) {
	event := domain.UserActivity{
		UserID:       userID,
		InventoryID:  inventoryID,
		ActivityType: kind,
	}
	if err := db.Create(&event).Error; err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id":      userID,
			"inventory_id": inventoryID,
			"activity":     kind,
		}).WithError(err).Debug("activity tracking skipped")
	}
}
