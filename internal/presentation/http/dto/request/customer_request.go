package request

// CreateCustomerRequest represents a patient registration request
type CreateCustomerRequest struct {
	Name      string  `json:"name" binding:"required,min=2,max=255"`
	Phone     string  `json:"phone" binding:"required,min=7,max=20"`
	AbhaID    *string `json:"abha_id" binding:"omitempty,max=50"`
	IsChronic bool    `json:"is_chronic"`
}

// UpdateCustomerRequest represents a patient update request
type UpdateCustomerRequest struct {
	Name      string  `json:"name" binding:"omitempty,min=2,max=255"`
	Phone     string  `json:"phone" binding:"omitempty,min=7,max=20"`
	AbhaID    *string `json:"abha_id" binding:"omitempty,max=50"`
	IsChronic *bool   `json:"is_chronic"`
}
