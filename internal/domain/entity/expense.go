package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Expense represents an operating expense recorded for the accounting view.
// Expenses feed the profit projection on the dashboard.
type Expense struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ExpenseDate time.Time      `gorm:"type:date;not null;index" json:"date"`
	Category    string         `gorm:"size:50;not null" json:"category"` // Rent, Salary, Electricity, Supplies, Other
	Description string         `gorm:"size:255" json:"description"`
	Amount      int64          `gorm:"not null" json:"-"` // In paise
	PaymentMode string         `gorm:"size:20;default:'Cash'" json:"payment_mode"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert paise to decimal for API responses
func (e Expense) MarshalJSON() ([]byte, error) {
	type Alias Expense
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(e),
		Amount: float64(e.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new expense
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Expense model
func (Expense) TableName() string {
	return "expenses"
}
