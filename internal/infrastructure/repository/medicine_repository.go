package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/trustmeds/pharmacy-api/internal/domain/entity"
	domainRepo "github.com/trustmeds/pharmacy-api/internal/domain/repository"
	"gorm.io/gorm"
)

type medicineRepository struct {
	db *gorm.DB
}

// NewMedicineRepository creates a new medicine repository
func NewMedicineRepository(db *gorm.DB) domainRepo.MedicineRepository {
	return &medicineRepository{db: db}
}

func (r *medicineRepository) Create(ctx context.Context, medicine *entity.Medicine) error {
	return r.db.WithContext(ctx).Create(medicine).Error
}

func (r *medicineRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Medicine, error) {
	var medicine entity.Medicine
	err := r.db.WithContext(ctx).
		Preload("Batches", func(db *gorm.DB) *gorm.DB {
			return db.Order("expiry_date ASC, created_at ASC")
		}).
		First(&medicine, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &medicine, err
}

func (r *medicineRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Medicine, error) {
	var medicines []entity.Medicine
	err := r.db.WithContext(ctx).
		Preload("Batches", func(db *gorm.DB) *gorm.DB {
			return db.Order("expiry_date ASC, created_at ASC")
		}).
		Where("id IN ?", ids).
		Find(&medicines).Error
	return medicines, err
}

func (r *medicineRepository) GetByBarcode(ctx context.Context, barcode string) (*entity.Medicine, error) {
	var medicine entity.Medicine
	err := r.db.WithContext(ctx).
		Preload("Batches", func(db *gorm.DB) *gorm.DB {
			return db.Order("expiry_date ASC, created_at ASC")
		}).
		First(&medicine, "barcode = ?", barcode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &medicine, err
}

func (r *medicineRepository) Update(ctx context.Context, medicine *entity.Medicine) error {
	return r.db.WithContext(ctx).Omit("Batches").Save(medicine).Error
}

func (r *medicineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("medicine_id = ?", id).Delete(&entity.Batch{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Medicine{}, "id = ?", id).Error
	})
}

func (r *medicineRepository) List(ctx context.Context, params *domainRepo.MedicineFilterParams) ([]entity.Medicine, int64, error) {
	var medicines []entity.Medicine
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Medicine{})

	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR generic_name ILIKE ? OR brand ILIKE ?",
			search, search, search)
	}
	if params.Department != nil {
		query = query.Where("department = ?", *params.Department)
	}
	if params.Category != nil {
		query = query.Where("category = ?", *params.Category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Whitelist sortable columns to keep the order clause injection-safe
	sortBy := "name"
	switch params.SortBy {
	case "name", "brand", "price", "created_at":
		sortBy = params.SortBy
	}
	sortOrder := "ASC"
	if params.SortOrder == "desc" {
		sortOrder = "DESC"
	}

	params.Pagination.Validate()
	err := query.
		Preload("Batches", func(db *gorm.DB) *gorm.DB {
			return db.Order("expiry_date ASC, created_at ASC")
		}).
		Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order(fmt.Sprintf("%s %s", sortBy, sortOrder)).
		Find(&medicines).Error

	return medicines, total, err
}

func (r *medicineRepository) ListAll(ctx context.Context) ([]entity.Medicine, error) {
	var medicines []entity.Medicine
	err := r.db.WithContext(ctx).
		Preload("Batches", func(db *gorm.DB) *gorm.DB {
			return db.Order("expiry_date ASC, created_at ASC")
		}).
		Order("name ASC").
		Find(&medicines).Error
	return medicines, err
}

func (r *medicineRepository) CreateBatch(ctx context.Context, batch *entity.Batch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

func (r *medicineRepository) GetBatch(ctx context.Context, id uuid.UUID) (*entity.Batch, error) {
	var batch entity.Batch
	err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &batch, err
}

// UpdateBatchStocks writes absolute stock levels for a set of batches in one
// transaction. Negative values are rejected before any row is touched.
func (r *medicineRepository) UpdateBatchStocks(ctx context.Context, stocks map[uuid.UUID]int) error {
	for id, stock := range stocks {
		if stock < 0 {
			return fmt.Errorf("negative stock %d for batch %s", stock, id)
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, stock := range stocks {
			result := tx.Model(&entity.Batch{}).
				Where("id = ?", id).
				Update("stock", stock)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("batch %s not found", id)
			}
		}
		return nil
	})
}

func (r *medicineRepository) CreateAdjustment(ctx context.Context, adjustment *entity.StockAdjustment) error {
	return r.db.WithContext(ctx).Create(adjustment).Error
}
