package models

import (
	"time"

	"gorm.io/gorm"
)

// Account types.
const (
	AccountTypeBank       = "bank"
	AccountTypeCreditCard = "credit_card"
	AccountTypeCash       = "cash"
	AccountTypeEWallet    = "e_wallet"
	AccountTypeInvestment = "investment"
)

// Account is a money holding place (bank account, card, wallet...).
type Account struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"index;not null"`
	Name        string         `json:"name" gorm:"size:100;not null"`
	Type        string         `json:"type" gorm:"size:20;not null;index"`
	Balance     float64        `json:"balance" gorm:"type:decimal(12,2);default:0"`
	Institution string         `json:"institution" gorm:"size:100"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	User        User           `json:"-" gorm:"foreignKey:UserID"`
}

func (Account) TableName() string {
	return "accounts"
}

// ValidAccountType reports whether t is a known account type.
func ValidAccountType(t string) bool {
	switch t {
	case AccountTypeBank, AccountTypeCreditCard, AccountTypeCash, AccountTypeEWallet, AccountTypeInvestment:
		return true
	}
	return false
}
