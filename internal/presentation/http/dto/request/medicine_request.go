package request

// BatchRequest represents one batch in a medicine creation or goods receipt
type BatchRequest struct {
	BatchNumber   string  `json:"batch_number" binding:"required,max=100"`
	ExpiryDate    string  `json:"expiry_date" binding:"required"` // YYYY-MM-DD
	Stock         int     `json:"stock" binding:"min=0"`
	PurchasePrice float64 `json:"purchase_price" binding:"min=0"` // In rupees
}

// CreateMedicineRequest represents a catalog creation request
type CreateMedicineRequest struct {
	Name         string         `json:"name" binding:"required,min=2,max=255"`
	GenericName  string         `json:"generic_name" binding:"omitempty,max=255"`
	Brand        string         `json:"brand" binding:"omitempty,max=255"`
	Manufacturer string         `json:"manufacturer" binding:"omitempty,max=255"`
	Department   string         `json:"department" binding:"omitempty,oneof=Pharmacy Surgical FMCG"`
	Category     string         `json:"category"`
	Price        float64        `json:"price" binding:"min=0"` // In rupees
	GSTRate      *int           `json:"gst_rate" binding:"omitempty,min=0,max=100"`
	MinThreshold int            `json:"min_threshold" binding:"min=0"`
	Barcode      *string        `json:"barcode" binding:"omitempty,max=100"`
	Ingredients  *string        `json:"ingredients"`
	Description  *string        `json:"description"`
	Batches      []BatchRequest `json:"batches" binding:"omitempty,dive"`
}

// UpdateMedicineRequest represents a catalog update request. Stock fields are
// deliberately absent.
type UpdateMedicineRequest struct {
	Name         *string  `json:"name" binding:"omitempty,min=2,max=255"`
	GenericName  *string  `json:"generic_name" binding:"omitempty,max=255"`
	Brand        *string  `json:"brand" binding:"omitempty,max=255"`
	Manufacturer *string  `json:"manufacturer" binding:"omitempty,max=255"`
	Price        *float64 `json:"price" binding:"omitempty,min=0"` // In rupees
	GSTRate      *int     `json:"gst_rate" binding:"omitempty,min=0,max=100"`
	MinThreshold *int     `json:"min_threshold" binding:"omitempty,min=0"`
	Barcode      *string  `json:"barcode" binding:"omitempty,max=100"`
	Ingredients  *string  `json:"ingredients"`
	Description  *string  `json:"description"`
}

// MedicineFilterRequest represents catalog filter parameters
type MedicineFilterRequest struct {
	Search     string `form:"search"`
	Department string `form:"department"`
	Category   string `form:"category"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
