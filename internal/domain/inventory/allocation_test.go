package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trustmeds/pharmacy-api/internal/domain/entity"
)

func testBatch(batchNumber string, expiry time.Time, stock int) entity.Batch {
	return entity.Batch{
		ID:            uuid.New(),
		BatchNumber:   batchNumber,
		ExpiryDate:    expiry,
		Stock:         stock,
		PurchasePrice: 11000,
		CreatedAt:     time.Now(),
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPlanDeduction(t *testing.T) {
	medID := uuid.New()

	t.Run("rejects zero and negative quantities", func(t *testing.T) {
		batches := []entity.Batch{testBatch("B001", date(2025, 6, 1), 100)}

		_, err := PlanDeduction(medID, batches, 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)

		_, err = PlanDeduction(medID, batches, -5)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("fails with no batches", func(t *testing.T) {
		_, err := PlanDeduction(medID, nil, 10)
		assert.ErrorIs(t, err, ErrInsufficientStock)
	})

	t.Run("single batch covers request", func(t *testing.T) {
		batches := []entity.Batch{testBatch("B001", date(2025, 6, 1), 100)}

		plan, err := PlanDeduction(medID, batches, 30)
		require.NoError(t, err)
		require.Len(t, plan.Deductions, 1)
		assert.Equal(t, 30, plan.Deductions[0].Quantity)
		assert.Equal(t, "B001", plan.Deductions[0].BatchNumber)
		assert.Equal(t, 30, plan.TotalQuantity())
	})

	t.Run("deducts in expiry order across batches", func(t *testing.T) {
		b1 := testBatch("B1", date(2025, 1, 1), 5)
		b2 := testBatch("B2", date(2025, 6, 1), 10)
		// Register in reverse order; the plan must still drain B1 first.
		batches := []entity.Batch{b2, b1}

		plan, err := PlanDeduction(medID, batches, 8)
		require.NoError(t, err)
		require.Len(t, plan.Deductions, 2)
		assert.Equal(t, b1.ID, plan.Deductions[0].BatchID)
		assert.Equal(t, 5, plan.Deductions[0].Quantity)
		assert.Equal(t, b2.ID, plan.Deductions[1].BatchID)
		assert.Equal(t, 3, plan.Deductions[1].Quantity)
	})

	t.Run("skips zero stock batches", func(t *testing.T) {
		empty := testBatch("EMPTY", date(2025, 1, 1), 0)
		full := testBatch("FULL", date(2025, 6, 1), 20)
		batches := []entity.Batch{empty, full}

		plan, err := PlanDeduction(medID, batches, 15)
		require.NoError(t, err)
		require.Len(t, plan.Deductions, 1)
		assert.Equal(t, full.ID, plan.Deductions[0].BatchID)
	})

	t.Run("equal expiries break ties by registration time", func(t *testing.T) {
		exp := date(2025, 6, 1)
		older := testBatch("OLD", exp, 10)
		older.CreatedAt = time.Now().Add(-48 * time.Hour)
		newer := testBatch("NEW", exp, 10)

		plan, err := PlanDeduction(medID, []entity.Batch{newer, older}, 12)
		require.NoError(t, err)
		require.Len(t, plan.Deductions, 2)
		assert.Equal(t, older.ID, plan.Deductions[0].BatchID)
		assert.Equal(t, 10, plan.Deductions[0].Quantity)
		assert.Equal(t, newer.ID, plan.Deductions[1].BatchID)
		assert.Equal(t, 2, plan.Deductions[1].Quantity)
	})

	t.Run("all or nothing on stockout", func(t *testing.T) {
		b1 := testBatch("B1", date(2025, 1, 1), 5)
		b2 := testBatch("B2", date(2025, 6, 1), 10)
		batches := []entity.Batch{b1, b2}

		plan, err := PlanDeduction(medID, batches, 16)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Nil(t, plan)
		// Snapshot untouched
		assert.Equal(t, 5, batches[0].Stock)
		assert.Equal(t, 10, batches[1].Stock)
	})

	t.Run("exact stock is still fulfillable", func(t *testing.T) {
		batches := []entity.Batch{
			testBatch("B1", date(2025, 1, 1), 5),
			testBatch("B2", date(2025, 6, 1), 10),
		}

		plan, err := PlanDeduction(medID, batches, 15)
		require.NoError(t, err)
		assert.Equal(t, 15, plan.TotalQuantity())
	})
}

func TestDeductionPlanApply(t *testing.T) {
	medID := uuid.New()

	t.Run("applies FEFO deductions to the live batch set", func(t *testing.T) {
		b1 := testBatch("B1", date(2025, 1, 1), 5)
		b2 := testBatch("B2", date(2025, 6, 1), 10)
		batches := []entity.Batch{b1, b2}

		plan, err := PlanDeduction(medID, batches, 8)
		require.NoError(t, err)
		require.NoError(t, plan.Apply(batches))

		assert.Equal(t, 0, batches[0].Stock)
		assert.Equal(t, 7, batches[1].Stock)
	})

	t.Run("conserves total stock", func(t *testing.T) {
		batches := []entity.Batch{
			testBatch("B1", date(2025, 3, 1), 40),
			testBatch("B2", date(2025, 4, 1), 25),
			testBatch("B3", date(2025, 5, 1), 60),
		}
		before := 0
		for _, b := range batches {
			before += b.Stock
		}

		plan, err := PlanDeduction(medID, batches, 70)
		require.NoError(t, err)
		require.NoError(t, plan.Apply(batches))

		after := 0
		for _, b := range batches {
			after += b.Stock
			assert.GreaterOrEqual(t, b.Stock, 0)
		}
		assert.Equal(t, before-70, after)
	})

	t.Run("fails on a batch missing from the live set", func(t *testing.T) {
		batches := []entity.Batch{testBatch("B1", date(2025, 1, 1), 10)}
		plan, err := PlanDeduction(medID, batches, 5)
		require.NoError(t, err)

		err = plan.Apply([]entity.Batch{testBatch("OTHER", date(2025, 1, 1), 10)})
		assert.ErrorIs(t, err, ErrUnknownBatch)
	})
}

func TestLedgerPrimitives(t *testing.T) {
	t.Run("Deduct rejects overdraw and leaves stock untouched", func(t *testing.T) {
		b := testBatch("B1", date(2025, 6, 1), 10)
		err := Deduct(&b, 11)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		assert.Equal(t, 10, b.Stock)
	})

	t.Run("Deduct to exactly zero keeps the batch", func(t *testing.T) {
		b := testBatch("B1", date(2025, 6, 1), 10)
		require.NoError(t, Deduct(&b, 10))
		assert.Equal(t, 0, b.Stock)
	})

	t.Run("Add rejects negative quantities", func(t *testing.T) {
		b := testBatch("B1", date(2025, 6, 1), 10)
		assert.ErrorIs(t, Add(&b, -1), ErrInvalidQuantity)
		require.NoError(t, Add(&b, 5))
		assert.Equal(t, 15, b.Stock)
	})

	t.Run("AdjustClamped floors at zero", func(t *testing.T) {
		b := testBatch("B1", date(2025, 6, 1), 40)
		applied := AdjustClamped(&b, -100)
		assert.Equal(t, 0, b.Stock)
		assert.Equal(t, -40, applied)
	})

	t.Run("AdjustClamped applies positive deltas in full", func(t *testing.T) {
		b := testBatch("B1", date(2025, 6, 1), 40)
		applied := AdjustClamped(&b, 12)
		assert.Equal(t, 52, b.Stock)
		assert.Equal(t, 12, applied)
	})
}
