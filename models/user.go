package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// UserStatusLocked means the account cannot log in.
	UserStatusLocked = "locked"
	// UserStatusActive means the account can log in.
	UserStatusActive = "active"
)

// User is an account holder. Every other entity is scoped to a user.
type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Username     string         `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Password     string         `json:"-" gorm:"size:255;not null"`
	Email        string         `json:"email" gorm:"size:100"`
	Status       string         `json:"status" gorm:"size:20;default:active;index"`
	OAuthSubject *string        `json:"-" gorm:"size:128;uniqueIndex"` // identity-provider subject, NULL when password-only
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
