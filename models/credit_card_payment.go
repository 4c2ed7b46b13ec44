package models

import (
	"time"

	"gorm.io/gorm"
)

// CreditCardPayment is one installment owed on a credit-card account.
// The composite unique index makes the generator insert race-free:
// a duplicate (user, card, title, due date) insert is a no-op under
// ON CONFLICT DO NOTHING.
type CreditCardPayment struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	UserID            uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_ccp_dedup"`
	AccountID         uint           `json:"account_id" gorm:"not null;uniqueIndex:idx_ccp_dedup"`
	Title             string         `json:"title" gorm:"size:100;not null;uniqueIndex:idx_ccp_dedup"`
	Amount            float64        `json:"amount" gorm:"type:decimal(12,2);not null"`
	DueDate           time.Time      `json:"due_date" gorm:"not null;uniqueIndex:idx_ccp_dedup"` // normalized to start of day
	InstallmentNo     int            `json:"installment_no" gorm:"default:1"`
	TotalInstallments int            `json:"total_installments" gorm:"default:1"`
	Paid              bool           `json:"paid" gorm:"default:false;index"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
	User              User           `json:"-" gorm:"foreignKey:UserID"`
	Account           *Account       `json:"account,omitempty" gorm:"foreignKey:AccountID"`
}

func (CreditCardPayment) TableName() string {
	return "credit_card_payments"
}
