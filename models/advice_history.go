package models

import (
	"time"

	"gorm.io/gorm"
)

// AdviceHistory stores generated spending-advice copy per user.
type AdviceHistory struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"index;not null"`
	StartDate string         `json:"start_date" gorm:"size:10"`
	EndDate   string         `json:"end_date" gorm:"size:10"`
	Content   string         `json:"content" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	User      User           `json:"-" gorm:"foreignKey:UserID"`
}

func (AdviceHistory) TableName() string {
	return "advice_histories"
}
