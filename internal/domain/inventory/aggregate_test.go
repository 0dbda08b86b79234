package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trustmeds/pharmacy-api/internal/domain/entity"
)

func testMedicine(price int64, minThreshold int, batches ...entity.Batch) *entity.Medicine {
	return &entity.Medicine{
		Name:         "Amoxicillin",
		Price:        price,
		MinThreshold: minThreshold,
		Batches:      batches,
	}
}

func TestTotalStock(t *testing.T) {
	t.Run("sums stock across batches", func(t *testing.T) {
		med := testMedicine(15000, 20,
			testBatch("B1", date(2025, 5, 1), 100),
			testBatch("B2", date(2026, 1, 1), 50),
		)
		assert.Equal(t, 150, TotalStock(med))
	})

	t.Run("empty batch set means zero stock, not deleted", func(t *testing.T) {
		med := testMedicine(15000, 20)
		assert.Equal(t, 0, TotalStock(med))
	})

	t.Run("matches ledger after a sale", func(t *testing.T) {
		med := testMedicine(15000, 20,
			testBatch("B1", date(2025, 5, 1), 100),
			testBatch("B2", date(2026, 1, 1), 50),
		)

		plan, err := PlanDeduction(med.ID, med.Batches, 120)
		require.NoError(t, err)
		require.NoError(t, plan.Apply(med.Batches))

		// Recomputed aggregate equals ledger truth.
		assert.Equal(t, 30, TotalStock(med))
	})
}

func TestIsLowStock(t *testing.T) {
	t.Run("at threshold is low", func(t *testing.T) {
		med := testMedicine(15000, 20, testBatch("B1", date(2025, 5, 1), 20))
		assert.True(t, IsLowStock(med))
	})

	t.Run("above threshold is not low", func(t *testing.T) {
		med := testMedicine(15000, 20, testBatch("B1", date(2025, 5, 1), 21))
		assert.False(t, IsLowStock(med))
	})
}

func TestExpiryWindows(t *testing.T) {
	asOf := date(2025, 1, 15)
	med := testMedicine(15000, 20,
		testBatch("PAST", date(2025, 1, 1), 10),
		testBatch("NEAR", date(2025, 2, 1), 10),
		testBatch("MID", date(2025, 3, 30), 10),
		testBatch("FAR", date(2026, 1, 1), 10),
	)

	t.Run("ExpiringWithin 30 days excludes expired and far batches", func(t *testing.T) {
		got := ExpiringWithin(med, 30, asOf)
		require.Len(t, got, 1)
		assert.Equal(t, "NEAR", got[0].BatchNumber)
	})

	t.Run("ExpiringWithin 90 days includes the mid batch", func(t *testing.T) {
		got := ExpiringWithin(med, 90, asOf)
		require.Len(t, got, 2)
		assert.Equal(t, "NEAR", got[0].BatchNumber)
		assert.Equal(t, "MID", got[1].BatchNumber)
	})

	t.Run("window boundary is inclusive", func(t *testing.T) {
		boundary := testMedicine(15000, 0, testBatch("EDGE", asOf.AddDate(0, 0, 30), 5))
		assert.Len(t, ExpiringWithin(boundary, 30, asOf), 1)
	})

	t.Run("Expired is strictly before asOf", func(t *testing.T) {
		got := Expired(med, asOf)
		require.Len(t, got, 1)
		assert.Equal(t, "PAST", got[0].BatchNumber)

		onDay := testMedicine(15000, 0, testBatch("TODAY", asOf, 5))
		assert.Empty(t, Expired(onDay, asOf))
	})

	t.Run("repeated reads with no mutation are identical", func(t *testing.T) {
		first := ExpiringWithin(med, 90, asOf)
		second := ExpiringWithin(med, 90, asOf)
		assert.Equal(t, first, second)
		assert.Equal(t, TotalStock(med), TotalStock(med))
	})
}

func TestStockValue(t *testing.T) {
	t.Run("price times total stock in rupees", func(t *testing.T) {
		med := testMedicine(15000, 20, testBatch("B1", date(2025, 5, 1), 100))
		assert.True(t, StockValue(med).Equal(decimal.NewFromInt(15000)))
	})

	t.Run("zero stock values at zero", func(t *testing.T) {
		med := testMedicine(15000, 20)
		assert.True(t, StockValue(med).IsZero())
	})
}
