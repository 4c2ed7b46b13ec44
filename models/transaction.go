package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction is a single income or expense entry. Amounts are stored
// as entered; expense aggregation always sums absolute values so the
// sign convention of the client does not change totals.
type Transaction struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	UserID     uint           `json:"user_id" gorm:"index;not null"`
	Title      string         `json:"title" gorm:"size:100;not null"`
	CategoryID *uint          `json:"category_id" gorm:"index"`
	Amount     float64        `json:"amount" gorm:"type:decimal(12,2);not null"`
	Type       string         `json:"type" gorm:"size:10;not null;index"`
	Date       time.Time      `json:"date" gorm:"not null;index"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
	User       User           `json:"-" gorm:"foreignKey:UserID"`
	Category   *Category      `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (Transaction) TableName() string {
	return "transactions"
}
