package models

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// PasswordReset is a short-lived reset code emailed to a user.
type PasswordReset struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Code      string    `json:"-" gorm:"size:10;not null;index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	Used      bool      `json:"used" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
}

func (PasswordReset) TableName() string {
	return "password_resets"
}

// IsValid reports whether the code is unused and unexpired.
func (p *PasswordReset) IsValid() bool {
	return !p.Used && time.Now().Before(p.ExpiresAt)
}

// GenerateResetCode returns a random 6-digit code.
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
