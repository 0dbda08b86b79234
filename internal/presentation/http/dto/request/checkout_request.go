package request

import "github.com/google/uuid"

// CheckoutItemRequest is one cart line
type CheckoutItemRequest struct {
	MedicineID uuid.UUID `json:"medicine_id" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,min=1"`
}

// CheckoutRequest represents a point-of-sale checkout
type CheckoutRequest struct {
	CustomerID        *uuid.UUID            `json:"customer_id"`
	CustomerName      string                `json:"customer_name" binding:"omitempty,max=255"`
	CustomerPhone     string                `json:"customer_phone" binding:"omitempty,max=20"`
	AbhaID            *string               `json:"abha_id" binding:"omitempty,max=50"`
	PaymentMethod     string                `json:"payment_method" binding:"omitempty,oneof=Cash Card UPI"`
	RefillReminder    bool                  `json:"refill_reminder"`
	IsChronic         bool                  `json:"is_chronic"`
	TreatmentDuration *int                  `json:"treatment_duration" binding:"omitempty,min=1"`
	OverrideHold      bool                  `json:"override_hold"`
	Items             []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
}

// InvoiceFilterRequest represents invoice history filter parameters
type InvoiceFilterRequest struct {
	Search     string `form:"search"`
	CustomerID string `form:"customer_id"`
	StartDate  string `form:"start_date"` // YYYY-MM-DD
	EndDate    string `form:"end_date"`   // YYYY-MM-DD
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
