package domain

import "time"

// User Model
type User struct {
	ID            uint       `gorm:"primaryKey" json:"id"`                                // Primary key
	Name          string     `gorm:"not null" json:"name"`                                // Display name
	Email         string     `gorm:"unique;not null" json:"email"`                        // Unique login email
	Phone         string     `json:"phone"`                                               // Contact phone
	Password      string     `gorm:"not null" json:"-"`                                   // Hashed password, never serialized
	Role          Role       `gorm:"type:varchar(16);default:customer" json:"role"`       // customer, seller or admin
	Address       string     `json:"address"`                                             // Delivery address
	JoinDate      time.Time  `gorm:"autoCreateTime" json:"join_date"`                     // Signup timestamp
	LoyaltyPoints int        `gorm:"not null;default:0" json:"loyalty_points"`            // Non-negative reward balance
	Status        UserStatus `gorm:"type:varchar(16);default:active;index" json:"status"` // active or banned
}
