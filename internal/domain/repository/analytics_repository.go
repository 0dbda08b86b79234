package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DailySales is one day's aggregated revenue
type DailySales struct {
	Day     time.Time `json:"day"`
	Revenue int64     `json:"revenue"`
	Orders  int64     `json:"orders"`
}

// MedicineSales aggregates quantity and revenue per medicine
type MedicineSales struct {
	MedicineID   uuid.UUID `json:"medicine_id"`
	MedicineName string    `json:"medicine_name"`
	Quantity     int64     `json:"quantity"`
	Revenue      int64     `json:"revenue"`
}

// AnalyticsRepository defines the interface for sales aggregate queries
type AnalyticsRepository interface {
	// SalesBetween returns total invoice revenue in paise for [start, end)
	SalesBetween(ctx context.Context, start, end time.Time) (int64, error)
	// COGSBetween returns the cost of goods sold in paise for [start, end),
	// computed from per-batch allocations recorded at checkout
	COGSBetween(ctx context.Context, start, end time.Time) (int64, error)
	// InvoiceCountBetween returns the number of invoices in [start, end)
	InvoiceCountBetween(ctx context.Context, start, end time.Time) (int64, error)
	// DailySalesBetween returns one row per day with revenue and order counts
	DailySalesBetween(ctx context.Context, start, end time.Time) ([]DailySales, error)
	// TopMedicines returns the best selling medicines by quantity in [start, end)
	TopMedicines(ctx context.Context, start, end time.Time, limit int) ([]MedicineSales, error)
}
