package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/trustmeds/pharmacy-api/internal/domain/entity"
	"github.com/trustmeds/pharmacy-api/pkg/pagination"
)

// ExpenseRepository defines the interface for accounting expense persistence
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Expense, int64, error)
	// SumBetween returns the expense total in paise for [start, end).
	SumBetween(ctx context.Context, start, end time.Time) (int64, error)
}
