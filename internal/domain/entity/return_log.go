package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/trustmeds/pharmacy-api/internal/domain/enum"
	"gorm.io/gorm"
)

// ReturnLog records stock leaving inventory for a non-sale reason (RMA).
// The log itself is an append-only fact; the batch deduction is a separate
// step performed in the same operation by the inventory service.
type ReturnLog struct {
	ID           uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	RMANumber    string            `gorm:"size:50;unique;not null" json:"rma_number"`
	MedicineID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"medicine_id"`
	MedicineName string            `gorm:"size:255;not null" json:"medicine_name"`
	BatchID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"batch_id"`
	BatchNumber  string            `gorm:"size:100;not null" json:"batch_number"`
	Quantity     int               `gorm:"not null" json:"quantity"`
	Reason       enum.ReturnReason `gorm:"default:3" json:"reason"`
	ReasonNote   *string           `gorm:"size:255" json:"reason_note,omitempty"`
	Manufacturer string            `gorm:"size:255" json:"manufacturer"`
	CreatedAt    time.Time         `json:"date"`
	DeletedAt    gorm.DeletedAt    `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new return log
func (r *ReturnLog) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReturnLog model
func (ReturnLog) TableName() string {
	return "return_logs"
}
