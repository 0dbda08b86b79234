package request

import "github.com/google/uuid"

// ReturnRequest represents a return-to-supplier (RMA) request
type ReturnRequest struct {
	MedicineID uuid.UUID `json:"medicine_id" binding:"required"`
	BatchID    uuid.UUID `json:"batch_id" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,min=1"`
	Reason     string    `json:"reason" binding:"omitempty,oneof=Expired Damaged Recall Other"`
	ReasonNote *string   `json:"reason_note" binding:"omitempty,max=255"`
}

// AdjustmentRequest represents a manual stock correction
type AdjustmentRequest struct {
	MedicineID uuid.UUID `json:"medicine_id" binding:"required"`
	BatchID    uuid.UUID `json:"batch_id" binding:"required"`
	Delta      int       `json:"delta" binding:"required"`
	Reason     *string   `json:"reason" binding:"omitempty,max=255"`
}

// AddBatchRequest represents a goods receipt of a new batch
type AddBatchRequest struct {
	BatchNumber   string  `json:"batch_number" binding:"required,max=100"`
	ExpiryDate    string  `json:"expiry_date" binding:"required"` // YYYY-MM-DD
	Stock         int     `json:"stock" binding:"required,min=1"`
	PurchasePrice float64 `json:"purchase_price" binding:"min=0"` // In rupees
}
