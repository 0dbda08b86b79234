package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/trustmeds/pharmacy-api/internal/domain/entity"
	"github.com/trustmeds/pharmacy-api/pkg/pagination"
)

// ReturnRepository defines the interface for the append-only RMA history
type ReturnRepository interface {
	Create(ctx context.Context, log *entity.ReturnLog) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ReturnLog, error)
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.ReturnLog, int64, error)
	ListByMedicine(ctx context.Context, medicineID uuid.UUID) ([]entity.ReturnLog, error)
}
