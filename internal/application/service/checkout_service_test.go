package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trustmeds/pharmacy-api/internal/domain/entity"
	"github.com/trustmeds/pharmacy-api/internal/domain/enum"
	"github.com/trustmeds/pharmacy-api/internal/domain/inventory"
	"github.com/trustmeds/pharmacy-api/pkg/advisory"
	"github.com/trustmeds/pharmacy-api/pkg/keylock"
)

func testMedicine(name string, price int64, batches ...entity.Batch) *entity.Medicine {
	return &entity.Medicine{
		ID:      uuid.New(),
		Name:    name,
		Price:   price,
		GSTRate: 12,
		Batches: batches,
	}
}

func expiringBatch(batchNumber string, monthsOut, stock int) entity.Batch {
	return entity.Batch{
		ID:          uuid.New(),
		BatchNumber: batchNumber,
		ExpiryDate:  time.Now().AddDate(0, monthsOut, 0),
		Stock:       stock,
		CreatedAt:   time.Now(),
	}
}

func newCheckoutFixture() (*CheckoutService, *fakeMedicineRepo, *fakeInvoiceRepo, *fakeCustomerRepo) {
	medRepo := newFakeMedicineRepo()
	invRepo := newFakeInvoiceRepo()
	custRepo := newFakeCustomerRepo()
	svc := NewCheckoutService(medRepo, invRepo, custRepo, advisory.NewNullChecker(), keylock.New())
	return svc, medRepo, invRepo, custRepo
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("drains earliest expiring batch first", func(t *testing.T) {
		svc, medRepo, _, _ := newCheckoutFixture()

		early := expiringBatch("B-EARLY", 2, 5)
		late := expiringBatch("B-LATE", 12, 10)
		med := testMedicine("Amoxicillin 250mg", 850, late, early)
		medRepo.add(med)

		invoice, err := svc.Checkout(ctx, &CheckoutInput{
			CustomerName:  "Asha",
			CustomerPhone: "9800000001",
			PaymentMethod: enum.PaymentMethodCash,
			Items:         []CheckoutItemInput{{MedicineID: med.ID, Quantity: 8}},
		})
		require.NoError(t, err)
		require.Len(t, invoice.Items, 1)

		allocs := invoice.Items[0].Allocations
		require.Len(t, allocs, 2)
		assert.Equal(t, "B-EARLY", allocs[0].BatchNumber)
		assert.Equal(t, 5, allocs[0].Quantity)
		assert.Equal(t, "B-LATE", allocs[1].BatchNumber)
		assert.Equal(t, 3, allocs[1].Quantity)

		assert.Equal(t, 0, medRepo.batchStock(early.ID))
		assert.Equal(t, 7, medRepo.batchStock(late.ID))
	})

	t.Run("insufficient stock leaves every batch untouched", func(t *testing.T) {
		svc, medRepo, invRepo, _ := newCheckoutFixture()

		b1 := expiringBatch("B1", 2, 5)
		b2 := expiringBatch("B2", 6, 5)
		med := testMedicine("Paracetamol 500mg", 250, b1, b2)
		medRepo.add(med)

		_, err := svc.Checkout(ctx, &CheckoutInput{
			CustomerName: "Ravi",
			Items:        []CheckoutItemInput{{MedicineID: med.ID, Quantity: 11}},
		})
		assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
		assert.ErrorIs(t, err, inventory.ErrTransactionAborted)

		assert.Equal(t, 5, medRepo.batchStock(b1.ID))
		assert.Equal(t, 5, medRepo.batchStock(b2.ID))
		assert.Empty(t, invRepo.invoices)
	})

	t.Run("multi line cart is all or nothing", func(t *testing.T) {
		svc, medRepo, invRepo, _ := newCheckoutFixture()

		okBatch := expiringBatch("OK1", 3, 50)
		shortBatch := expiringBatch("SHORT1", 3, 2)
		okMed := testMedicine("Cetirizine", 300, okBatch)
		shortMed := testMedicine("Ibuprofen", 400, shortBatch)
		medRepo.add(okMed)
		medRepo.add(shortMed)

		_, err := svc.Checkout(ctx, &CheckoutInput{
			CustomerName: "Meera",
			Items: []CheckoutItemInput{
				{MedicineID: okMed.ID, Quantity: 10},
				{MedicineID: shortMed.ID, Quantity: 5},
			},
		})
		assert.ErrorIs(t, err, inventory.ErrInsufficientStock)

		// The coverable line must not have been deducted either
		assert.Equal(t, 50, medRepo.batchStock(okBatch.ID))
		assert.Empty(t, invRepo.invoices)
	})

	t.Run("two lines of the same medicine share batches without double counting", func(t *testing.T) {
		svc, medRepo, _, _ := newCheckoutFixture()

		b := expiringBatch("B1", 4, 10)
		med := testMedicine("ORS Sachet", 150, b)
		medRepo.add(med)

		invoice, err := svc.Checkout(ctx, &CheckoutInput{
			CustomerName: "Kiran",
			Items: []CheckoutItemInput{
				{MedicineID: med.ID, Quantity: 6},
				{MedicineID: med.ID, Quantity: 4},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, medRepo.batchStock(b.ID))
		require.Len(t, invoice.Items, 2)

		// And an eleventh unit would have failed the whole cart
		_, err = svc.Checkout(ctx, &CheckoutInput{
			CustomerName: "Kiran",
			Items:        []CheckoutItemInput{{MedicineID: med.ID, Quantity: 1}},
		})
		assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
	})

	t.Run("unknown medicine fails the cart", func(t *testing.T) {
		svc, _, _, _ := newCheckoutFixture()

		_, err := svc.Checkout(ctx, &CheckoutInput{
			CustomerName: "Asha",
			Items:        []CheckoutItemInput{{MedicineID: uuid.New(), Quantity: 1}},
		})
		assert.ErrorIs(t, err, inventory.ErrUnknownMedicine)
	})

	t.Run("zero quantity line is rejected before planning", func(t *testing.T) {
		svc, medRepo, _, _ := newCheckoutFixture()
		med := testMedicine("Calpol", 250, expiringBatch("B1", 6, 10))
		medRepo.add(med)

		_, err := svc.Checkout(ctx, &CheckoutInput{
			CustomerName: "Asha",
			Items:        []CheckoutItemInput{{MedicineID: med.ID, Quantity: 0}},
		})
		assert.ErrorIs(t, err, inventory.ErrInvalidQuantity)
	})

	t.Run("totals freeze unit price and extract inclusive gst", func(t *testing.T) {
		svc, medRepo, _, _ := newCheckoutFixture()

		// 10 units at Rs 1.12 inclusive of 12% GST: total 1120 paise,
		// GST portion 1120*12/112 = 120 paise
		med := testMedicine("Dolo 650", 112, expiringBatch("B1", 6, 20))
		medRepo.add(med)

		invoice, err := svc.Checkout(ctx, &CheckoutInput{
			CustomerName: "Asha",
			Items:        []CheckoutItemInput{{MedicineID: med.ID, Quantity: 10}},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1120), invoice.TotalAmount)
		assert.Equal(t, int64(120), invoice.GSTTotal)
		assert.Equal(t, int64(112), invoice.Items[0].UnitPrice)
	})

	t.Run("advisory hold blocks checkout until overridden", func(t *testing.T) {
		medRepo := newFakeMedicineRepo()
		invRepo := newFakeInvoiceRepo()
		checker := &holdChecker{warning: "warfarin + aspirin"}
		svc := NewCheckoutService(medRepo, invRepo, newFakeCustomerRepo(), checker, keylock.New())

		b := expiringBatch("B1", 6, 10)
		med := testMedicine("Warfarin", 500, b)
		medRepo.add(med)

		input := &CheckoutInput{
			CustomerName: "Asha",
			Items:        []CheckoutItemInput{{MedicineID: med.ID, Quantity: 2}},
		}
		_, err := svc.Checkout(ctx, input)
		assert.ErrorIs(t, err, inventory.ErrSafetyHold)
		assert.Contains(t, err.Error(), "warfarin + aspirin")
		assert.Equal(t, 10, medRepo.batchStock(b.ID))

		input.OverrideHold = true
		invoice, err := svc.Checkout(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, 8, medRepo.batchStock(b.ID))
		assert.NotNil(t, invoice)
		// The checker must not have been consulted on the override pass
		assert.Equal(t, 1, checker.calls)
	})

	t.Run("failed invoice write restores committed stock", func(t *testing.T) {
		svc, medRepo, invRepo, _ := newCheckoutFixture()
		invRepo.failCreate = true

		b := expiringBatch("B1", 6, 10)
		med := testMedicine("Azithromycin", 900, b)
		medRepo.add(med)

		_, err := svc.Checkout(ctx, &CheckoutInput{
			CustomerName: "Asha",
			Items:        []CheckoutItemInput{{MedicineID: med.ID, Quantity: 4}},
		})
		assert.ErrorIs(t, err, inventory.ErrTransactionAborted)
		assert.Equal(t, 10, medRepo.batchStock(b.ID))
	})

	t.Run("failed stock commit aborts before the invoice", func(t *testing.T) {
		svc, medRepo, invRepo, _ := newCheckoutFixture()
		medRepo.failStock = true

		med := testMedicine("Aspirin", 200, expiringBatch("B1", 6, 10))
		medRepo.add(med)

		_, err := svc.Checkout(ctx, &CheckoutInput{
			CustomerName: "Asha",
			Items:        []CheckoutItemInput{{MedicineID: med.ID, Quantity: 1}},
		})
		assert.ErrorIs(t, err, inventory.ErrTransactionAborted)
		assert.Empty(t, invRepo.invoices)
	})

	t.Run("walk-in phone registers a patient and links the invoice", func(t *testing.T) {
		svc, medRepo, _, custRepo := newCheckoutFixture()

		med := testMedicine("Calpol", 250, expiringBatch("B1", 6, 10))
		medRepo.add(med)

		invoice, err := svc.Checkout(ctx, &CheckoutInput{
			CustomerName:  "Asha",
			CustomerPhone: "9800000042",
			Items:         []CheckoutItemInput{{MedicineID: med.ID, Quantity: 1}},
		})
		require.NoError(t, err)
		require.NotNil(t, invoice.CustomerID)

		created, err := custRepo.GetByPhone(ctx, "9800000042")
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, created.ID, *invoice.CustomerID)

		// A second sale on the same phone reuses the record
		invoice2, err := svc.Checkout(ctx, &CheckoutInput{
			CustomerName:  "Asha",
			CustomerPhone: "9800000042",
			Items:         []CheckoutItemInput{{MedicineID: med.ID, Quantity: 1}},
		})
		require.NoError(t, err)
		assert.Equal(t, created.ID, *invoice2.CustomerID)
		assert.Equal(t, 1, custRepo.count())
	})

	t.Run("aborted cart does not register the walk-in patient", func(t *testing.T) {
		svc, medRepo, invRepo, custRepo := newCheckoutFixture()

		med := testMedicine("Calpol", 250, expiringBatch("B1", 6, 3))
		medRepo.add(med)

		_, err := svc.Checkout(ctx, &CheckoutInput{
			CustomerName:  "Asha",
			CustomerPhone: "9800000043",
			Items:         []CheckoutItemInput{{MedicineID: med.ID, Quantity: 5}},
		})
		assert.ErrorIs(t, err, inventory.ErrTransactionAborted)

		assert.Equal(t, 0, custRepo.count())
		assert.Empty(t, invRepo.invoices)
	})
}

func TestCheckoutConcurrent(t *testing.T) {
	ctx := context.Background()
	svc, medRepo, invRepo, _ := newCheckoutFixture()

	// 30 units total; 40 concurrent buyers of 1 unit each. Exactly 30 must
	// succeed and the final stock must be zero, never negative.
	med := testMedicine("Metformin", 300, expiringBatch("B1", 6, 12), expiringBatch("B2", 9, 18))
	medRepo.add(med)

	const buyers = 40
	errs := make(chan error, buyers)
	for i := 0; i < buyers; i++ {
		go func() {
			_, err := svc.Checkout(ctx, &CheckoutInput{
				CustomerName: "Load",
				Items:        []CheckoutItemInput{{MedicineID: med.ID, Quantity: 1}},
			})
			errs <- err
		}()
	}

	succeeded := 0
	for i := 0; i < buyers; i++ {
		if err := <-errs; err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
		}
	}

	assert.Equal(t, 30, succeeded)
	assert.Len(t, invRepo.invoices, 30)

	stored, err := medRepo.GetByID(ctx, med.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, inventory.TotalStock(stored))
}
