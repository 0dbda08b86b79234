package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trustmeds/pharmacy-api/internal/domain/entity"
	"github.com/trustmeds/pharmacy-api/internal/domain/enum"
	"github.com/trustmeds/pharmacy-api/internal/domain/inventory"
	"github.com/trustmeds/pharmacy-api/internal/domain/repository"
	"github.com/trustmeds/pharmacy-api/pkg/advisory"
	"github.com/trustmeds/pharmacy-api/pkg/apperror"
	"github.com/trustmeds/pharmacy-api/pkg/keylock"
	"github.com/trustmeds/pharmacy-api/pkg/pagination"
	"github.com/trustmeds/pharmacy-api/pkg/utils"
)

// CheckoutService turns a cart into an invoice. It owns the critical section
// around batch stock: plan deductions against a snapshot, commit them and the
// invoice while holding every involved medicine's lock.
type CheckoutService struct {
	medicineRepo repository.MedicineRepository
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	checker      advisory.Checker
	locks        *keylock.KeyLock
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	medicineRepo repository.MedicineRepository,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	checker advisory.Checker,
	locks *keylock.KeyLock,
) *CheckoutService {
	return &CheckoutService{
		medicineRepo: medicineRepo,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		checker:      checker,
		locks:        locks,
	}
}

// CheckoutItemInput is one cart line
type CheckoutItemInput struct {
	MedicineID uuid.UUID
	Quantity   int
}

// CheckoutInput represents the checkout request
type CheckoutInput struct {
	CustomerID        *uuid.UUID
	CustomerName      string
	CustomerPhone     string
	AbhaID            *string
	PaymentMethod     enum.PaymentMethod
	RefillReminder    bool
	IsChronic         bool
	TreatmentDuration *int
	OverrideHold      bool
	Items             []CheckoutItemInput
}

// Checkout plans FEFO deductions for every cart line, verifies the cart
// against the interaction advisory, then commits stock and invoice. The
// whole sale is all-or-nothing: if any line cannot be covered no batch is
// touched, and if the invoice write fails the committed stock is restored.
func (s *CheckoutService) Checkout(ctx context.Context, input *CheckoutInput) (*entity.Invoice, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Cart is empty")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, inventory.ErrInvalidQuantity
		}
	}

	// Look the patient up front so a bad customer id fails before any stock
	// moves. Walk-in registration waits until the sale has committed, so an
	// aborted cart leaves no new patient row behind.
	customer, err := s.lookupCustomer(ctx, input)
	if err != nil {
		return nil, err
	}

	medicineIDs := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		medicineIDs = append(medicineIDs, item.MedicineID)
	}

	// Resolve the cart and run the advisory check before taking any lock.
	// The advisory call can stall for its whole timeout and must not hold
	// up other terminals selling the same medicines.
	medicines, err := s.medicineRepo.GetByIDs(ctx, medicineIDs)
	if err != nil {
		return nil, err
	}
	medicineMap := make(map[uuid.UUID]*entity.Medicine, len(medicines))
	for i := range medicines {
		medicineMap[medicines[i].ID] = &medicines[i]
	}
	for _, item := range input.Items {
		if _, ok := medicineMap[item.MedicineID]; !ok {
			return nil, fmt.Errorf("%w: %s", inventory.ErrUnknownMedicine, item.MedicineID)
		}
	}

	if !input.OverrideHold {
		names := make([]string, 0, len(medicineMap))
		for _, m := range medicineMap {
			names = append(names, m.Name)
		}
		if hold := s.checker.CheckInteractions(ctx, names); hold != nil {
			return nil, fmt.Errorf("%w: %s", inventory.ErrSafetyHold, hold.Warning)
		}
	}

	// Hold every involved medicine's lock for the full plan+commit window.
	// LockAll acquires in sorted id order, so concurrent checkouts over
	// overlapping carts cannot deadlock.
	release := s.locks.LockAll(medicineIDs)
	defer release()

	// Re-read batch state under the lock; the pre-lock snapshot may have
	// been changed by a sale that finished while the advisory ran.
	medicines, err = s.medicineRepo.GetByIDs(ctx, medicineIDs)
	if err != nil {
		return nil, err
	}
	medicineMap = make(map[uuid.UUID]*entity.Medicine, len(medicines))
	for i := range medicines {
		medicineMap[medicines[i].ID] = &medicines[i]
	}
	for _, item := range input.Items {
		if _, ok := medicineMap[item.MedicineID]; !ok {
			return nil, fmt.Errorf("%w: %s", inventory.ErrUnknownMedicine, item.MedicineID)
		}
	}

	// Plan each line against the evolving in-memory snapshot. Applying each
	// plan before planning the next lets two lines of the same medicine
	// share batches without double-counting stock.
	originalStocks := make(map[uuid.UUID]int)
	for _, m := range medicineMap {
		for _, b := range m.Batches {
			originalStocks[b.ID] = b.Stock
		}
	}

	items := make([]entity.InvoiceItem, 0, len(input.Items))
	var totalAmount, gstTotal int64

	for _, line := range input.Items {
		medicine := medicineMap[line.MedicineID]

		plan, err := inventory.PlanDeduction(medicine.ID, medicine.Batches, line.Quantity)
		if err != nil {
			// The whole cart aborts; callers can match the cart-level
			// sentinel or the line's stockout.
			return nil, fmt.Errorf("%s: %w: %w", medicine.Name, inventory.ErrTransactionAborted, err)
		}
		if err := plan.Apply(medicine.Batches); err != nil {
			return nil, err
		}

		lineTotal := medicine.Price * int64(line.Quantity)
		totalAmount += lineTotal
		gstTotal += gstPortion(lineTotal, medicine.GSTRate)

		allocations := make([]entity.InvoiceItemAllocation, 0, len(plan.Deductions))
		for _, d := range plan.Deductions {
			allocations = append(allocations, entity.InvoiceItemAllocation{
				BatchID:       d.BatchID,
				BatchNumber:   d.BatchNumber,
				Quantity:      d.Quantity,
				PurchasePrice: d.PurchasePrice,
			})
		}

		items = append(items, entity.InvoiceItem{
			MedicineID:   medicine.ID,
			MedicineName: medicine.Name,
			Quantity:     line.Quantity,
			UnitPrice:    medicine.Price,
			Total:        lineTotal,
			GSTRate:      medicine.GSTRate,
			Allocations:  allocations,
		})
	}

	// Commit the new absolute stock levels in one transaction
	newStocks := make(map[uuid.UUID]int)
	for _, m := range medicineMap {
		for _, b := range m.Batches {
			if b.Stock != originalStocks[b.ID] {
				newStocks[b.ID] = b.Stock
			}
		}
	}
	if err := s.medicineRepo.UpdateBatchStocks(ctx, newStocks); err != nil {
		return nil, fmt.Errorf("%w: %v", inventory.ErrTransactionAborted, err)
	}

	restoreStocks := func() {
		restore := make(map[uuid.UUID]int, len(newStocks))
		for id := range newStocks {
			restore[id] = originalStocks[id]
		}
		_ = s.medicineRepo.UpdateBatchStocks(ctx, restore)
	}

	if customer == nil && input.CustomerPhone != "" {
		customer, err = s.registerWalkIn(ctx, input)
		if err != nil {
			restoreStocks()
			return nil, fmt.Errorf("%w: %v", inventory.ErrTransactionAborted, err)
		}
	}

	invoice := &entity.Invoice{
		InvoiceNo:         utils.GenerateInvoiceNo(),
		CustomerName:      input.CustomerName,
		CustomerPhone:     input.CustomerPhone,
		AbhaID:            input.AbhaID,
		InvoiceDate:       time.Now(),
		TotalAmount:       totalAmount,
		GSTTotal:          gstTotal,
		PaymentMethod:     input.PaymentMethod,
		RefillReminder:    input.RefillReminder,
		IsChronic:         input.IsChronic,
		TreatmentDuration: input.TreatmentDuration,
		Items:             items,
	}
	if customer != nil {
		invoice.CustomerID = &customer.ID
		if invoice.CustomerName == "" {
			invoice.CustomerName = customer.Name
		}
		if invoice.CustomerPhone == "" {
			invoice.CustomerPhone = customer.Phone
		}
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		// Stock was already committed; restore the original levels so the
		// failed sale leaves no trace in the ledger.
		restoreStocks()
		return nil, fmt.Errorf("%w: %v", inventory.ErrTransactionAborted, err)
	}

	return s.invoiceRepo.GetByID(ctx, invoice.ID)
}

// lookupCustomer links the sale to the patient master without creating
// anything: an explicit id must exist, a phone may match an existing
// patient, and an unmatched phone returns nil for later registration.
func (s *CheckoutService) lookupCustomer(ctx context.Context, input *CheckoutInput) (*entity.Customer, error) {
	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		return customer, nil
	}

	if input.CustomerPhone == "" {
		return nil, nil
	}
	return s.customerRepo.GetByPhone(ctx, input.CustomerPhone)
}

// registerWalkIn creates the patient row for a committed walk-in sale. The
// phone is re-checked first in case a parallel sale registered it since the
// pre-commit lookup.
func (s *CheckoutService) registerWalkIn(ctx context.Context, input *CheckoutInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByPhone(ctx, input.CustomerPhone)
	if err != nil {
		return nil, err
	}
	if customer != nil {
		return customer, nil
	}

	customer = &entity.Customer{
		Name:      input.CustomerName,
		Phone:     input.CustomerPhone,
		AbhaID:    input.AbhaID,
		IsChronic: input.IsChronic,
	}
	if customer.Name == "" {
		customer.Name = "Walk-in"
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetInvoice retrieves an invoice by ID
func (s *CheckoutService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices lists invoices with filtering
func (s *CheckoutService) ListInvoices(ctx context.Context, params *repository.InvoiceFilterParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	invoices, total, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// gstPortion extracts the GST component of a GST-inclusive paise amount,
// amount * rate / (100 + rate), rounded half up to the paisa.
func gstPortion(amount int64, rate int) int64 {
	if rate <= 0 {
		return 0
	}
	gst := decimal.NewFromInt(amount).
		Mul(decimal.NewFromInt(int64(rate))).
		Div(decimal.NewFromInt(int64(100 + rate)))
	return gst.Round(0).IntPart()
}
