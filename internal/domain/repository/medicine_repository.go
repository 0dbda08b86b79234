package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/trustmeds/pharmacy-api/internal/domain/entity"
	"github.com/trustmeds/pharmacy-api/pkg/pagination"
)

// MedicineRepository defines the interface for catalog and batch persistence.
// Batch stock writes go through UpdateBatchStocks only, so the ledger's
// non-negativity guard cannot be bypassed at the storage layer either.
type MedicineRepository interface {
	Create(ctx context.Context, medicine *entity.Medicine) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Medicine, error)
	// GetByIDs retrieves multiple medicines with their batches in a single
	// query (prevents N+1 during checkout planning)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Medicine, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Medicine, error)
	Update(ctx context.Context, medicine *entity.Medicine) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *MedicineFilterParams) ([]entity.Medicine, int64, error)
	// ListAll loads the whole catalog with batches, for stock-health scans
	ListAll(ctx context.Context) ([]entity.Medicine, error)

	// Batch ledger persistence
	CreateBatch(ctx context.Context, batch *entity.Batch) error
	GetBatch(ctx context.Context, id uuid.UUID) (*entity.Batch, error)
	// UpdateBatchStocks writes the new absolute stock levels for a set of
	// batches in one transaction; all rows commit together or none do.
	UpdateBatchStocks(ctx context.Context, stocks map[uuid.UUID]int) error
	CreateAdjustment(ctx context.Context, adjustment *entity.StockAdjustment) error
}

// MedicineFilterParams contains filtering parameters for catalog queries
type MedicineFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string // matches name, generic name or brand
	Department *int
	Category   *int
	SortBy     string
	SortOrder  string
}
