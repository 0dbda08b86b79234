package request

// CreateExpenseRequest represents an expense entry
type CreateExpenseRequest struct {
	Date        string  `json:"date" binding:"omitempty"` // YYYY-MM-DD, defaults to today
	Category    string  `json:"category" binding:"required,oneof=Rent Salary Electricity Supplies Other"`
	Description string  `json:"description" binding:"omitempty,max=255"`
	Amount      float64 `json:"amount" binding:"required,gt=0"` // In rupees
	PaymentMode string  `json:"payment_mode" binding:"omitempty,oneof=Cash Card UPI Bank"`
}
