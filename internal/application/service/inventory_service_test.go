package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trustmeds/pharmacy-api/internal/domain/enum"
	"github.com/trustmeds/pharmacy-api/internal/domain/inventory"
	"github.com/trustmeds/pharmacy-api/pkg/keylock"
)

func newInventoryFixture() (*InventoryService, *fakeMedicineRepo, *fakeReturnRepo) {
	medRepo := newFakeMedicineRepo()
	retRepo := &fakeReturnRepo{}
	svc := NewInventoryService(medRepo, retRepo, keylock.New())
	return svc, medRepo, retRepo
}

func TestReturnToSupplier(t *testing.T) {
	ctx := context.Background()

	t.Run("deducts the addressed batch and writes the RMA log", func(t *testing.T) {
		svc, medRepo, retRepo := newInventoryFixture()

		early := expiringBatch("B-EARLY", 1, 20)
		late := expiringBatch("B-LATE", 12, 20)
		med := testMedicine("Amoxicillin 250mg", 850, early, late)
		med.Manufacturer = "GSK"
		medRepo.add(med)

		// Return against the LATER batch; FEFO must not redirect it
		log, err := svc.ReturnToSupplier(ctx, &ReturnInput{
			MedicineID: med.ID,
			BatchID:    late.ID,
			Quantity:   5,
			Reason:     enum.ReturnReasonDamaged,
		})
		require.NoError(t, err)

		assert.Equal(t, 20, medRepo.batchStock(early.ID))
		assert.Equal(t, 15, medRepo.batchStock(late.ID))

		assert.Contains(t, log.RMANumber, "RMA-")
		assert.Equal(t, "B-LATE", log.BatchNumber)
		assert.Equal(t, "GSK", log.Manufacturer)
		assert.Equal(t, 5, log.Quantity)
		require.Len(t, retRepo.logs, 1)
	})

	t.Run("rejects more than the batch holds", func(t *testing.T) {
		svc, medRepo, retRepo := newInventoryFixture()

		b := expiringBatch("B1", 6, 3)
		med := testMedicine("Calpol", 250, b)
		medRepo.add(med)

		_, err := svc.ReturnToSupplier(ctx, &ReturnInput{
			MedicineID: med.ID,
			BatchID:    b.ID,
			Quantity:   4,
			Reason:     enum.ReturnReasonExpired,
		})
		assert.ErrorIs(t, err, inventory.ErrInvalidQuantity)
		assert.Equal(t, 3, medRepo.batchStock(b.ID))
		assert.Empty(t, retRepo.logs)
	})

	t.Run("unknown batch", func(t *testing.T) {
		svc, medRepo, _ := newInventoryFixture()
		med := testMedicine("Calpol", 250, expiringBatch("B1", 6, 3))
		medRepo.add(med)

		_, err := svc.ReturnToSupplier(ctx, &ReturnInput{
			MedicineID: med.ID,
			BatchID:    uuid.New(),
			Quantity:   1,
			Reason:     enum.ReturnReasonRecall,
		})
		assert.ErrorIs(t, err, inventory.ErrUnknownBatch)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		svc, _, _ := newInventoryFixture()

		_, err := svc.ReturnToSupplier(ctx, &ReturnInput{
			MedicineID: uuid.New(),
			BatchID:    uuid.New(),
			Quantity:   0,
			Reason:     enum.ReturnReasonOther,
		})
		assert.ErrorIs(t, err, inventory.ErrInvalidQuantity)
	})
}

func TestAdjustStock(t *testing.T) {
	ctx := context.Background()

	t.Run("applies a positive delta", func(t *testing.T) {
		svc, medRepo, _ := newInventoryFixture()
		b := expiringBatch("B1", 6, 40)
		med := testMedicine("Calpol", 250, b)
		medRepo.add(med)

		adj, err := svc.AdjustStock(ctx, &AdjustmentInput{
			MedicineID: med.ID,
			BatchID:    b.ID,
			Delta:      10,
			UserName:   "asha",
		})
		require.NoError(t, err)
		assert.Equal(t, 10, adj.Delta)
		assert.Equal(t, 50, adj.NewTotal)
		assert.Equal(t, 50, medRepo.batchStock(b.ID))
	})

	t.Run("clamps an over-large negative delta at zero", func(t *testing.T) {
		svc, medRepo, _ := newInventoryFixture()
		b := expiringBatch("B1", 6, 40)
		med := testMedicine("Calpol", 250, b)
		medRepo.add(med)

		adj, err := svc.AdjustStock(ctx, &AdjustmentInput{
			MedicineID: med.ID,
			BatchID:    b.ID,
			Delta:      -100,
			UserName:   "asha",
		})
		require.NoError(t, err)
		// Recorded delta is what was actually applied, not what was asked
		assert.Equal(t, -40, adj.Delta)
		assert.Equal(t, 0, adj.NewTotal)
		assert.Equal(t, 0, medRepo.batchStock(b.ID))
	})

	t.Run("rejects a zero delta", func(t *testing.T) {
		svc, _, _ := newInventoryFixture()

		_, err := svc.AdjustStock(ctx, &AdjustmentInput{
			MedicineID: uuid.New(),
			BatchID:    uuid.New(),
			Delta:      0,
		})
		assert.Error(t, err)
	})

	t.Run("batch must belong to the named medicine", func(t *testing.T) {
		svc, medRepo, _ := newInventoryFixture()
		b := expiringBatch("B1", 6, 10)
		med := testMedicine("Calpol", 250, b)
		other := testMedicine("Dolo", 300, expiringBatch("B2", 6, 10))
		medRepo.add(med)
		medRepo.add(other)

		_, err := svc.AdjustStock(ctx, &AdjustmentInput{
			MedicineID: other.ID,
			BatchID:    b.ID,
			Delta:      5,
		})
		assert.ErrorIs(t, err, inventory.ErrUnknownBatch)
	})
}

func TestAddBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a new lot", func(t *testing.T) {
		svc, medRepo, _ := newInventoryFixture()
		med := testMedicine("Calpol", 250)
		medRepo.add(med)

		batch, err := svc.AddBatch(ctx, &AddBatchInput{
			MedicineID:    med.ID,
			BatchNumber:   "PCM-2501",
			ExpiryDate:    time.Now().AddDate(1, 0, 0),
			Stock:         300,
			PurchasePrice: 140,
		})
		require.NoError(t, err)
		assert.Equal(t, 300, medRepo.batchStock(batch.ID))

		stored, err := medRepo.GetByID(ctx, med.ID)
		require.NoError(t, err)
		assert.Equal(t, 300, inventory.TotalStock(stored))
	})

	t.Run("rejects an already expired lot", func(t *testing.T) {
		svc, medRepo, _ := newInventoryFixture()
		med := testMedicine("Calpol", 250)
		medRepo.add(med)

		_, err := svc.AddBatch(ctx, &AddBatchInput{
			MedicineID:  med.ID,
			BatchNumber: "OLD-1",
			ExpiryDate:  time.Now().AddDate(0, -1, 0),
			Stock:       10,
		})
		assert.Error(t, err)
	})

	t.Run("unknown medicine", func(t *testing.T) {
		svc, _, _ := newInventoryFixture()

		_, err := svc.AddBatch(ctx, &AddBatchInput{
			MedicineID:  uuid.New(),
			BatchNumber: "X-1",
			ExpiryDate:  time.Now().AddDate(1, 0, 0),
			Stock:       10,
		})
		assert.ErrorIs(t, err, inventory.ErrUnknownMedicine)
	})
}
