package models

import (
	"time"
)

// Notification types.
const (
	NotificationBudgetExceeded = "budget_exceeded"
	NotificationGoalCompleted  = "goal_completed"
	NotificationBillUpcoming   = "bill_upcoming"
)

// Notification is an in-app message for a user. The composite unique
// index deduplicates per (user, type, related entity); a duplicate
// insert is dropped with ON CONFLICT DO NOTHING.
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_notifications_dedup"`
	Type      string    `json:"type" gorm:"size:30;not null;uniqueIndex:idx_notifications_dedup"`
	Message   string    `json:"message" gorm:"size:255;not null"`
	RelatedID uint      `json:"related_id" gorm:"default:0;uniqueIndex:idx_notifications_dedup"`
	Read      bool      `json:"read" gorm:"default:false;index"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
}

func (Notification) TableName() string {
	return "notifications"
}
