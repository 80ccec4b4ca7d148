package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single income or expense entry owned by one user.
// Negative amounts are expenses.
type Transaction struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Description string          `json:"description" gorm:"size:255;not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	OccurredAt  time.Time       `json:"occurred_at" gorm:"not null;index"`
	UserID      uint            `json:"user_id" gorm:"not null;index"`
	CategoryID  uint            `json:"category_id" gorm:"not null;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations
	User     User     `json:"-" gorm:"foreignKey:UserID"`
	Category Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}
