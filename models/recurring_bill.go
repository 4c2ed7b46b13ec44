package models

import (
	"time"

	"gorm.io/gorm"
)

// Recurring-bill frequencies.
const (
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

// RecurringBill is a repeating charge. NextDueDate advances by the
// frequency step; credit-card bills also get an installment row per
// due date.
type RecurringBill struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"index;not null"`
	AccountID   *uint          `json:"account_id" gorm:"index"`
	Title       string         `json:"title" gorm:"size:100;not null"`
	Amount      float64        `json:"amount" gorm:"type:decimal(12,2);not null"`
	Frequency   string         `json:"frequency" gorm:"size:10;not null"`
	NextDueDate time.Time      `json:"next_due_date" gorm:"not null;index"`
	Active      bool           `json:"active" gorm:"default:true;index"`
	AutoPayment bool           `json:"auto_payment" gorm:"default:false"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	User        User           `json:"-" gorm:"foreignKey:UserID"`
	Account     *Account       `json:"account,omitempty" gorm:"foreignKey:AccountID"`
}

func (RecurringBill) TableName() string {
	return "recurring_bills"
}

// ValidFrequency reports whether f is a known recurrence frequency.
func ValidFrequency(f string) bool {
	switch f {
	case FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}
