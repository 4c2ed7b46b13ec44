package models

import (
	"time"

	"gorm.io/gorm"
)

// Entry types shared by categories and transactions.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Category groups transactions and optionally carries a monthly budget
// ceiling. Name is unique per owner among live rows; the partial index
// frees the name again after a soft delete.
type Category struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_categories_owner_name"`
	Name      string         `json:"name" gorm:"size:50;not null;uniqueIndex:idx_categories_owner_name,where:deleted_at IS NULL"`
	Type      string         `json:"type" gorm:"size:10;not null;index"`
	Icon      string         `json:"icon" gorm:"size:50"`
	Color     string         `json:"color" gorm:"size:20;default:#64748b"`
	Budget    *float64       `json:"budget" gorm:"type:decimal(12,2)"` // monthly ceiling, NULL = no budget
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	User      User           `json:"-" gorm:"foreignKey:UserID"`
}

func (Category) TableName() string {
	return "categories"
}

// DefaultCategorySeed describes the category set created for a new user.
type DefaultCategorySeed struct {
	Name  string
	Type  string
	Icon  string
	Color string
}

// DefaultCategories returns the starter categories seeded at registration.
func DefaultCategories() []DefaultCategorySeed {
	return []DefaultCategorySeed{
		{"Groceries", TypeExpense, "shopping-cart", "#ef4444"},
		{"Transport", TypeExpense, "car", "#3b82f6"},
		{"Housing", TypeExpense, "home", "#14b8a6"},
		{"Entertainment", TypeExpense, "film", "#ec4899"},
		{"Health", TypeExpense, "heart", "#10b981"},
		{"Education", TypeExpense, "book", "#f59e0b"},
		{"Other", TypeExpense, "tag", "#64748b"},
		{"Salary", TypeIncome, "briefcase", "#10b981"},
		{"Investments", TypeIncome, "trending-up", "#a855f7"},
		{"Other income", TypeIncome, "tag", "#64748b"},
	}
}
