package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/trustmeds/pharmacy-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Invoice represents a completed sale. Once created it is immutable and
// references medicines by id only; deleting a medicine never rewrites it.
type Invoice struct {
	ID                uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNo         string             `gorm:"size:100;unique;not null" json:"invoice_no"`
	CustomerID        *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CustomerName      string             `gorm:"size:255;not null" json:"customer_name"`
	CustomerPhone     string             `gorm:"size:20;not null" json:"customer_phone"`
	AbhaID            *string            `gorm:"size:50" json:"abha_id,omitempty"`
	InvoiceDate       time.Time          `gorm:"not null;index" json:"date"`
	TotalAmount       int64              `gorm:"default:0" json:"-"` // In paise
	GSTTotal          int64              `gorm:"default:0" json:"-"` // In paise
	PaymentMethod     enum.PaymentMethod `gorm:"default:0" json:"payment_method"`
	RefillReminder    bool               `gorm:"default:false" json:"refill_reminder"`
	IsChronic         bool               `gorm:"default:false" json:"is_chronic"`
	TreatmentDuration *int               `json:"treatment_duration,omitempty"` // Days of supply
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
	DeletedAt         gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer     `gorm:"foreignKey:CustomerID" json:"-"`
	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert paise to decimal for API responses
func (i Invoice) MarshalJSON() ([]byte, error) {
	type Alias Invoice
	return json.Marshal(&struct {
		Alias
		TotalAmount float64 `json:"total_amount"`
		GSTTotal    float64 `json:"gst_total"`
	}{
		Alias:       Alias(i),
		TotalAmount: float64(i.TotalAmount) / 100,
		GSTTotal:    float64(i.GSTTotal) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// GetTotalDecimal returns the invoice total in rupees
func (i *Invoice) GetTotalDecimal() float64 {
	return float64(i.TotalAmount) / 100
}

// InvoiceItem is a snapshot of one sold line: name and unit price are
// denormalized at time of sale so later catalog edits never alter history.
type InvoiceItem struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"invoice_id"`
	MedicineID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"medicine_id"`
	MedicineName string         `gorm:"size:255;not null" json:"name"`
	Quantity     int            `gorm:"not null" json:"quantity"`
	UnitPrice    int64          `gorm:"not null" json:"-"` // In paise, frozen at checkout
	Total        int64          `gorm:"not null" json:"-"` // In paise
	GSTRate      int            `gorm:"default:12" json:"gst_rate"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Invoice     Invoice               `gorm:"foreignKey:InvoiceID" json:"-"`
	Allocations []InvoiceItemAllocation `gorm:"foreignKey:InvoiceItemID" json:"allocations,omitempty"`
}

// MarshalJSON custom marshaler to convert paise to decimal for API responses
func (it InvoiceItem) MarshalJSON() ([]byte, error) {
	type Alias InvoiceItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"price_per_unit"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(it),
		UnitPrice: float64(it.UnitPrice) / 100,
		Total:     float64(it.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new invoice item
func (it *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// InvoiceItemAllocation records which batch fulfilled how much of a line,
// at what purchase cost. This is what makes exact per-invoice COGS possible.
type InvoiceItemAllocation struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceItemID uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_item_id"`
	BatchID       uuid.UUID `gorm:"type:uuid;not null;index" json:"batch_id"`
	BatchNumber   string    `gorm:"size:100;not null" json:"batch_number"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	PurchasePrice int64     `gorm:"not null" json:"-"` // In paise, frozen at checkout
	CreatedAt     time.Time `json:"created_at"`

	// Relationships
	InvoiceItem InvoiceItem `gorm:"foreignKey:InvoiceItemID" json:"-"`
}

// MarshalJSON custom marshaler to convert paise to decimal for API responses
func (a InvoiceItemAllocation) MarshalJSON() ([]byte, error) {
	type Alias InvoiceItemAllocation
	return json.Marshal(&struct {
		Alias
		PurchasePrice float64 `json:"purchase_price"`
	}{
		Alias:         Alias(a),
		PurchasePrice: float64(a.PurchasePrice) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new allocation row
func (a *InvoiceItemAllocation) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItemAllocation model
func (InvoiceItemAllocation) TableName() string {
	return "invoice_item_allocations"
}
