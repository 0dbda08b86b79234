package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/trustmeds/pharmacy-api/internal/domain/entity"
	"github.com/trustmeds/pharmacy-api/internal/domain/inventory"
	"github.com/trustmeds/pharmacy-api/internal/domain/repository"
	"github.com/trustmeds/pharmacy-api/pkg/apperror"
	"github.com/trustmeds/pharmacy-api/pkg/pagination"
)

// MedicineService handles catalog operations
type MedicineService struct {
	medicineRepo repository.MedicineRepository
}

// NewMedicineService creates a new medicine service
func NewMedicineService(medicineRepo repository.MedicineRepository) *MedicineService {
	return &MedicineService{medicineRepo: medicineRepo}
}

// CreateMedicine registers a catalog entry, optionally with opening batches
func (s *MedicineService) CreateMedicine(ctx context.Context, medicine *entity.Medicine) (*entity.Medicine, error) {
	if medicine.Name == "" {
		return nil, apperror.NewBadRequestError("Medicine name is required")
	}
	if medicine.Price < 0 {
		return nil, apperror.NewBadRequestError("Price cannot be negative")
	}
	for _, b := range medicine.Batches {
		if b.Stock < 0 {
			return nil, inventory.ErrInvalidQuantity
		}
	}

	if medicine.Barcode != nil && *medicine.Barcode != "" {
		existing, err := s.medicineRepo.GetByBarcode(ctx, *medicine.Barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Barcode already assigned to " + existing.Name)
		}
	}

	if err := s.medicineRepo.Create(ctx, medicine); err != nil {
		return nil, err
	}
	return s.medicineRepo.GetByID(ctx, medicine.ID)
}

// GetMedicine retrieves a medicine with its batches
func (s *MedicineService) GetMedicine(ctx context.Context, id uuid.UUID) (*entity.Medicine, error) {
	medicine, err := s.medicineRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, inventory.ErrUnknownMedicine
	}
	return medicine, nil
}

// GetByBarcode looks a medicine up by its barcode for counter scanning
func (s *MedicineService) GetByBarcode(ctx context.Context, barcode string) (*entity.Medicine, error) {
	if barcode == "" {
		return nil, apperror.NewBadRequestError("Barcode is required")
	}
	medicine, err := s.medicineRepo.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, inventory.ErrUnknownMedicine
	}
	return medicine, nil
}

// UpdateMedicineInput holds the editable catalog fields. Stock is absent on
// purpose: it moves only through checkout, returns and adjustments.
type UpdateMedicineInput struct {
	Name         *string
	GenericName  *string
	Brand        *string
	Manufacturer *string
	Price        *int64
	GSTRate      *int
	MinThreshold *int
	Barcode      *string
	Ingredients  *string
	Description  *string
}

// UpdateMedicine edits catalog fields of an existing medicine
func (s *MedicineService) UpdateMedicine(ctx context.Context, id uuid.UUID, input *UpdateMedicineInput) (*entity.Medicine, error) {
	medicine, err := s.medicineRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, inventory.ErrUnknownMedicine
	}

	if input.Name != nil {
		medicine.Name = *input.Name
	}
	if input.GenericName != nil {
		medicine.GenericName = *input.GenericName
	}
	if input.Brand != nil {
		medicine.Brand = *input.Brand
	}
	if input.Manufacturer != nil {
		medicine.Manufacturer = *input.Manufacturer
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperror.NewBadRequestError("Price cannot be negative")
		}
		medicine.Price = *input.Price
	}
	if input.GSTRate != nil {
		medicine.GSTRate = *input.GSTRate
	}
	if input.MinThreshold != nil {
		medicine.MinThreshold = *input.MinThreshold
	}
	if input.Barcode != nil {
		if *input.Barcode != "" {
			existing, err := s.medicineRepo.GetByBarcode(ctx, *input.Barcode)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != medicine.ID {
				return nil, apperror.NewConflictError("Barcode already assigned to " + existing.Name)
			}
		}
		medicine.Barcode = input.Barcode
	}
	if input.Ingredients != nil {
		medicine.Ingredients = input.Ingredients
	}
	if input.Description != nil {
		medicine.Description = input.Description
	}

	if err := s.medicineRepo.Update(ctx, medicine); err != nil {
		return nil, err
	}
	return s.medicineRepo.GetByID(ctx, medicine.ID)
}

// DeleteMedicine removes a medicine and its batches from the catalog.
// Invoices keep their denormalized snapshots, so sales history is untouched.
func (s *MedicineService) DeleteMedicine(ctx context.Context, id uuid.UUID) error {
	medicine, err := s.medicineRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if medicine == nil {
		return inventory.ErrUnknownMedicine
	}
	return s.medicineRepo.Delete(ctx, id)
}

// ListMedicines lists the catalog with filtering
func (s *MedicineService) ListMedicines(ctx context.Context, params *repository.MedicineFilterParams) (*pagination.PaginatedResult[entity.Medicine], error) {
	medicines, total, err := s.medicineRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(medicines, pag), nil
}

// LowStockMedicines returns catalog entries at or below their threshold
func (s *MedicineService) LowStockMedicines(ctx context.Context) ([]entity.Medicine, error) {
	medicines, err := s.medicineRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	low := make([]entity.Medicine, 0)
	for _, m := range medicines {
		if inventory.IsLowStock(&m) {
			low = append(low, m)
		}
	}
	return low, nil
}

// ExpiringBatches returns, per medicine, the batches expiring inside the
// window. Already expired batches are reported separately.
func (s *MedicineService) ExpiringBatches(ctx context.Context, windowDays int) (map[uuid.UUID][]entity.Batch, map[uuid.UUID][]entity.Batch, error) {
	medicines, err := s.medicineRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	expiring := make(map[uuid.UUID][]entity.Batch)
	expired := make(map[uuid.UUID][]entity.Batch)
	for i := range medicines {
		if batches := inventory.ExpiringWithin(&medicines[i], windowDays, now); len(batches) > 0 {
			expiring[medicines[i].ID] = batches
		}
		if batches := inventory.Expired(&medicines[i], now); len(batches) > 0 {
			expired[medicines[i].ID] = batches
		}
	}
	return expiring, expired, nil
}
