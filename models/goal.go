package models

import (
	"time"

	"gorm.io/gorm"
)

// Goal statuses.
const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
	GoalStatusPaused    = "paused"
)

// Goal is a savings target.
type Goal struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	UserID        uint           `json:"user_id" gorm:"index;not null"`
	Title         string         `json:"title" gorm:"size:100;not null"`
	TargetAmount  float64        `json:"target_amount" gorm:"type:decimal(12,2);not null"`
	CurrentAmount float64        `json:"current_amount" gorm:"type:decimal(12,2);default:0"`
	Deadline      *time.Time     `json:"deadline" gorm:"index"`
	Status        string         `json:"status" gorm:"size:20;default:active;index"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
	User          User           `json:"-" gorm:"foreignKey:UserID"`
}

func (Goal) TableName() string {
	return "goals"
}
