package models

import (
	"time"
)

// Settings is the per-user preferences and billing linkage row.
// Exactly one row per user; created with defaults on first read.
type Settings struct {
	ID                    uint      `json:"id" gorm:"primaryKey"`
	UserID                uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	Theme                 string    `json:"theme" gorm:"size:20;default:system"`
	Currency              string    `json:"currency" gorm:"size:10;default:BRL"`
	NotificationsEnabled  bool      `json:"notifications_enabled" gorm:"default:true"`
	BillingCustomerID     string    `json:"billing_customer_id" gorm:"size:64"`
	BillingSubscriptionID string    `json:"billing_subscription_id" gorm:"size:64"`
	IsPro                 bool      `json:"is_pro" gorm:"default:false"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
	User                  User      `json:"-" gorm:"foreignKey:UserID"`
}

func (Settings) TableName() string {
	return "settings"
}

// DefaultSettings returns the settings row created for a new user.
func DefaultSettings(userID uint) Settings {
	return Settings{
		UserID:               userID,
		Theme:                "system",
		Currency:             "BRL",
		NotificationsEnabled: true,
	}
}
