package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/trustmeds/pharmacy-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Medicine represents a catalog entry. Stock is held exclusively by its
// batches; the medicine itself carries no quantity column.
type Medicine struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name         string          `gorm:"size:255;not null;index" json:"name"`
	GenericName  string          `gorm:"size:255" json:"generic_name"`
	Brand        string          `gorm:"size:255" json:"brand"`
	Manufacturer string          `gorm:"size:255" json:"manufacturer"`
	Department   enum.Department `gorm:"default:0" json:"department"`
	Category     enum.Category   `gorm:"default:7" json:"category"`
	Price        int64           `gorm:"default:0" json:"-"` // Unit sale price in paise
	GSTRate      int             `gorm:"default:12" json:"gst_rate"`
	MinThreshold int             `gorm:"default:0" json:"min_threshold"`
	Barcode      *string         `gorm:"size:100;uniqueIndex" json:"barcode,omitempty"`
	Ingredients  *string         `gorm:"type:text" json:"ingredients,omitempty"`
	Description  *string         `gorm:"type:text" json:"description,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Batches []Batch `gorm:"foreignKey:MedicineID" json:"batches"`
}

// BeforeCreate generates a UUID before creating a new medicine
func (m *Medicine) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Medicine model
func (Medicine) TableName() string {
	return "medicines"
}

// GetPriceDecimal returns the sale price in rupees (for display)
func (m *Medicine) GetPriceDecimal() float64 {
	return float64(m.Price) / 100
}

// SetPriceFromDecimal sets the sale price from a rupee value
func (m *Medicine) SetPriceFromDecimal(price float64) {
	m.Price = int64(price * 100)
}

// MarshalJSON converts Medicine to JSON with decimal prices
func (m Medicine) MarshalJSON() ([]byte, error) {
	type Alias Medicine
	return json.Marshal(&struct {
		Alias
		Price float64 `json:"price"`
	}{
		Alias: Alias(m),
		Price: m.GetPriceDecimal(),
	})
}

// Batch represents a dated lot of one medicine. A batch is never deleted
// automatically when its stock reaches zero; it stays as a historical record.
type Batch struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	MedicineID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"medicine_id"`
	BatchNumber   string         `gorm:"size:100;not null" json:"batch_number"`
	ExpiryDate    time.Time      `gorm:"type:date;not null" json:"expiry_date"`
	Stock         int            `gorm:"default:0" json:"stock"`
	PurchasePrice int64          `gorm:"default:0" json:"-"` // In paise, for valuation/margin
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Medicine    Medicine          `gorm:"foreignKey:MedicineID" json:"-"`
	Adjustments []StockAdjustment `gorm:"foreignKey:BatchID" json:"adjustments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new batch
func (b *Batch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Batch model
func (Batch) TableName() string {
	return "batches"
}

// MarshalJSON converts Batch to JSON with a decimal purchase price
func (b Batch) MarshalJSON() ([]byte, error) {
	type Alias Batch
	return json.Marshal(&struct {
		Alias
		PurchasePrice float64 `json:"purchase_price"`
	}{
		Alias:         Alias(b),
		PurchasePrice: float64(b.PurchasePrice) / 100,
	})
}

// IsExpired reports whether the batch expiry date is strictly before asOf.
func (b *Batch) IsExpired(asOf time.Time) bool {
	return b.ExpiryDate.Before(asOf)
}

// StockAdjustment records one manual stock correction against a batch.
type StockAdjustment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BatchID   uuid.UUID `gorm:"type:uuid;not null;index" json:"batch_id"`
	Delta     int       `gorm:"not null" json:"delta"`
	NewTotal  int       `gorm:"not null" json:"new_total"`
	Reason    *string   `gorm:"size:255" json:"reason,omitempty"`
	UserName  string    `gorm:"size:255" json:"user"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Batch Batch `gorm:"foreignKey:BatchID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new stock adjustment
func (a *StockAdjustment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockAdjustment model
func (StockAdjustment) TableName() string {
	return "stock_adjustments"
}
