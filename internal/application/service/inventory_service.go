package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/trustmeds/pharmacy-api/internal/domain/entity"
	"github.com/trustmeds/pharmacy-api/internal/domain/enum"
	"github.com/trustmeds/pharmacy-api/internal/domain/inventory"
	"github.com/trustmeds/pharmacy-api/internal/domain/repository"
	"github.com/trustmeds/pharmacy-api/pkg/apperror"
	"github.com/trustmeds/pharmacy-api/pkg/keylock"
	"github.com/trustmeds/pharmacy-api/pkg/pagination"
	"github.com/trustmeds/pharmacy-api/pkg/utils"
)

// InventoryService handles stock movements that are not sales: RMA returns
// to supplier, manual adjustments and goods receipt of new batches. All of
// them go through the same per-medicine lock as checkout.
type InventoryService struct {
	medicineRepo repository.MedicineRepository
	returnRepo   repository.ReturnRepository
	locks        *keylock.KeyLock
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	medicineRepo repository.MedicineRepository,
	returnRepo repository.ReturnRepository,
	locks *keylock.KeyLock,
) *InventoryService {
	return &InventoryService{
		medicineRepo: medicineRepo,
		returnRepo:   returnRepo,
		locks:        locks,
	}
}

// ReturnInput represents a return-to-supplier request against one batch
type ReturnInput struct {
	MedicineID uuid.UUID
	BatchID    uuid.UUID
	Quantity   int
	Reason     enum.ReturnReason
	ReasonNote *string
}

// ReturnToSupplier deducts quantity from the exact batch being sent back and
// records the RMA. Unlike a sale, the batch is addressed directly; FEFO does
// not apply because the physical goods leaving are a specific lot.
func (s *InventoryService) ReturnToSupplier(ctx context.Context, input *ReturnInput) (*entity.ReturnLog, error) {
	if input.Quantity <= 0 {
		return nil, inventory.ErrInvalidQuantity
	}

	s.locks.Lock(input.MedicineID)
	defer s.locks.Unlock(input.MedicineID)

	medicine, err := s.medicineRepo.GetByID(ctx, input.MedicineID)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, inventory.ErrUnknownMedicine
	}

	var batch *entity.Batch
	for i := range medicine.Batches {
		if medicine.Batches[i].ID == input.BatchID {
			batch = &medicine.Batches[i]
			break
		}
	}
	if batch == nil {
		return nil, inventory.ErrUnknownBatch
	}

	if err := inventory.Deduct(batch, input.Quantity); err != nil {
		// Quantity was validated positive, so the only failure left is the
		// batch not holding enough units.
		return nil, fmt.Errorf("batch %s: %w", batch.BatchNumber, inventory.ErrInvalidQuantity)
	}

	stocks := map[uuid.UUID]int{batch.ID: batch.Stock}
	if err := s.medicineRepo.UpdateBatchStocks(ctx, stocks); err != nil {
		return nil, fmt.Errorf("%w: %v", inventory.ErrTransactionAborted, err)
	}

	log := &entity.ReturnLog{
		RMANumber:    utils.GenerateRMANumber(),
		MedicineID:   medicine.ID,
		MedicineName: medicine.Name,
		BatchID:      batch.ID,
		BatchNumber:  batch.BatchNumber,
		Quantity:     input.Quantity,
		Reason:       input.Reason,
		ReasonNote:   input.ReasonNote,
		Manufacturer: medicine.Manufacturer,
	}
	if err := s.returnRepo.Create(ctx, log); err != nil {
		// Restore the deducted stock so the ledger matches reality
		_ = s.medicineRepo.UpdateBatchStocks(ctx, map[uuid.UUID]int{batch.ID: batch.Stock + input.Quantity})
		return nil, fmt.Errorf("%w: %v", inventory.ErrTransactionAborted, err)
	}

	return log, nil
}

// AdjustmentInput represents a manual stock correction against one batch
type AdjustmentInput struct {
	MedicineID uuid.UUID
	BatchID    uuid.UUID
	Delta      int
	Reason     *string
	UserName   string
}

// AdjustStock applies a manual +/- delta to a batch. Negative deltas larger
// than the current stock zero the batch out rather than fail; the recorded
// adjustment carries the delta actually applied.
func (s *InventoryService) AdjustStock(ctx context.Context, input *AdjustmentInput) (*entity.StockAdjustment, error) {
	if input.Delta == 0 {
		return nil, apperror.NewBadRequestError("Adjustment delta must be non-zero")
	}

	s.locks.Lock(input.MedicineID)
	defer s.locks.Unlock(input.MedicineID)

	batch, err := s.medicineRepo.GetBatch(ctx, input.BatchID)
	if err != nil {
		return nil, err
	}
	if batch == nil || batch.MedicineID != input.MedicineID {
		return nil, inventory.ErrUnknownBatch
	}

	applied := inventory.AdjustClamped(batch, input.Delta)

	if err := s.medicineRepo.UpdateBatchStocks(ctx, map[uuid.UUID]int{batch.ID: batch.Stock}); err != nil {
		return nil, fmt.Errorf("%w: %v", inventory.ErrTransactionAborted, err)
	}

	adjustment := &entity.StockAdjustment{
		BatchID:  batch.ID,
		Delta:    applied,
		NewTotal: batch.Stock,
		Reason:   input.Reason,
		UserName: input.UserName,
	}
	if err := s.medicineRepo.CreateAdjustment(ctx, adjustment); err != nil {
		return nil, err
	}

	return adjustment, nil
}

// AddBatchInput represents a goods receipt of a new dated lot
type AddBatchInput struct {
	MedicineID    uuid.UUID
	BatchNumber   string
	ExpiryDate    time.Time
	Stock         int
	PurchasePrice int64
}

// AddBatch registers a new batch for a medicine. Receiving an already-expired
// lot is rejected outright.
func (s *InventoryService) AddBatch(ctx context.Context, input *AddBatchInput) (*entity.Batch, error) {
	if input.Stock < 0 {
		return nil, inventory.ErrInvalidQuantity
	}
	if input.ExpiryDate.Before(time.Now()) {
		return nil, apperror.NewBadRequestError("Cannot register an expired batch")
	}

	s.locks.Lock(input.MedicineID)
	defer s.locks.Unlock(input.MedicineID)

	medicine, err := s.medicineRepo.GetByID(ctx, input.MedicineID)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, inventory.ErrUnknownMedicine
	}

	batch := &entity.Batch{
		MedicineID:    medicine.ID,
		BatchNumber:   input.BatchNumber,
		ExpiryDate:    input.ExpiryDate,
		Stock:         input.Stock,
		PurchasePrice: input.PurchasePrice,
	}
	if err := s.medicineRepo.CreateBatch(ctx, batch); err != nil {
		return nil, err
	}

	return batch, nil
}

// ListReturns lists RMA logs with pagination and search
func (s *InventoryService) ListReturns(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.ReturnLog], error) {
	logs, total, err := s.returnRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(logs, pag), nil
}

// ListReturnsByMedicine lists RMA logs for one medicine
func (s *InventoryService) ListReturnsByMedicine(ctx context.Context, medicineID uuid.UUID) ([]entity.ReturnLog, error) {
	return s.returnRepo.ListByMedicine(ctx, medicineID)
}
