package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/trustmeds/pharmacy-api/internal/domain/entity"
	"github.com/trustmeds/pharmacy-api/pkg/pagination"
)

// InvoiceRepository defines the interface for the append-only sales history
type InvoiceRepository interface {
	// Create persists the invoice together with its items and batch
	// allocations in one transaction.
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	// ListBetween returns invoices dated within [start, end), items included.
	ListBetween(ctx context.Context, start, end time.Time) ([]entity.Invoice, error)
	// ListChronic returns invoices flagged chronic with a treatment duration,
	// newest first, for the refill-due projection.
	ListChronic(ctx context.Context) ([]entity.Invoice, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string // matches invoice no, customer name or phone
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}
