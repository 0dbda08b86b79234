package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/trustmeds/pharmacy-api/internal/domain/entity"
	domainRepo "github.com/trustmeds/pharmacy-api/internal/domain/repository"
	"github.com/trustmeds/pharmacy-api/pkg/pagination"
	"gorm.io/gorm"
)

type returnRepository struct {
	db *gorm.DB
}

// NewReturnRepository creates a new return repository
func NewReturnRepository(db *gorm.DB) domainRepo.ReturnRepository {
	return &returnRepository{db: db}
}

func (r *returnRepository) Create(ctx context.Context, log *entity.ReturnLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *returnRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ReturnLog, error) {
	var log entity.ReturnLog
	err := r.db.WithContext(ctx).First(&log, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &log, err
}

func (r *returnRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.ReturnLog, int64, error) {
	var logs []entity.ReturnLog
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ReturnLog{})

	if search != "" {
		s := "%" + search + "%"
		query = query.Where("rma_number ILIKE ? OR medicine_name ILIKE ? OR batch_number ILIKE ?",
			s, s, s)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&logs).Error

	return logs, total, err
}

func (r *returnRepository) ListByMedicine(ctx context.Context, medicineID uuid.UUID) ([]entity.ReturnLog, error) {
	var logs []entity.ReturnLog
	err := r.db.WithContext(ctx).
		Where("medicine_id = ?", medicineID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
