package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/trustmeds/pharmacy-api/internal/domain/entity"
	"github.com/trustmeds/pharmacy-api/internal/domain/repository"
	"github.com/trustmeds/pharmacy-api/pkg/advisory"
	"github.com/trustmeds/pharmacy-api/pkg/pagination"
)

// In-memory repository fakes. They hold entities in maps and implement just
// enough behavior for the service tests; no filtering beyond what the tests
// exercise. Each fake guards its state with a mutex so concurrent-checkout
// tests stay clean under the race detector.

type fakeMedicineRepo struct {
	mu        sync.Mutex
	medicines map[uuid.UUID]*entity.Medicine
	failStock bool // force UpdateBatchStocks to fail
	failCount int  // fail the next N UpdateBatchStocks calls
}

func newFakeMedicineRepo() *fakeMedicineRepo {
	return &fakeMedicineRepo{medicines: make(map[uuid.UUID]*entity.Medicine)}
}

func (f *fakeMedicineRepo) add(m *entity.Medicine) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	for i := range m.Batches {
		if m.Batches[i].ID == uuid.Nil {
			m.Batches[i].ID = uuid.New()
		}
		m.Batches[i].MedicineID = m.ID
	}
	f.medicines[m.ID] = m
}

func (f *fakeMedicineRepo) Create(ctx context.Context, m *entity.Medicine) error {
	f.add(m)
	return nil
}

func (f *fakeMedicineRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Medicine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.medicines[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	cp.Batches = make([]entity.Batch, len(m.Batches))
	copy(cp.Batches, m.Batches)
	return &cp, nil
}

func (f *fakeMedicineRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Medicine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Medicine, 0, len(ids))
	seen := make(map[uuid.UUID]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if m, ok := f.medicines[id]; ok {
			cp := *m
			cp.Batches = make([]entity.Batch, len(m.Batches))
			copy(cp.Batches, m.Batches)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (f *fakeMedicineRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Medicine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.medicines {
		if m.Barcode != nil && *m.Barcode == barcode {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMedicineRepo) Update(ctx context.Context, m *entity.Medicine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.medicines[m.ID] = m
	return nil
}

func (f *fakeMedicineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.medicines, id)
	return nil
}

func (f *fakeMedicineRepo) List(ctx context.Context, params *repository.MedicineFilterParams) ([]entity.Medicine, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Medicine, 0, len(f.medicines))
	for _, m := range f.medicines {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (f *fakeMedicineRepo) ListAll(ctx context.Context) ([]entity.Medicine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Medicine, 0, len(f.medicines))
	for _, m := range f.medicines {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeMedicineRepo) CreateBatch(ctx context.Context, b *entity.Batch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.medicines[b.MedicineID]
	if !ok {
		return errors.New("medicine not found")
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = time.Now()
	m.Batches = append(m.Batches, *b)
	return nil
}

func (f *fakeMedicineRepo) GetBatch(ctx context.Context, id uuid.UUID) (*entity.Batch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.medicines {
		for i := range m.Batches {
			if m.Batches[i].ID == id {
				cp := m.Batches[i]
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeMedicineRepo) UpdateBatchStocks(ctx context.Context, stocks map[uuid.UUID]int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failStock {
		return errors.New("storage failure")
	}
	if f.failCount > 0 {
		f.failCount--
		return errors.New("storage failure")
	}
	for id, stock := range stocks {
		found := false
		for _, m := range f.medicines {
			for i := range m.Batches {
				if m.Batches[i].ID == id {
					m.Batches[i].Stock = stock
					found = true
				}
			}
		}
		if !found {
			return errors.New("batch not found")
		}
	}
	return nil
}

func (f *fakeMedicineRepo) CreateAdjustment(ctx context.Context, a *entity.StockAdjustment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// batchStock reads the stored stock level of one batch
func (f *fakeMedicineRepo) batchStock(id uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.medicines {
		for i := range m.Batches {
			if m.Batches[i].ID == id {
				return m.Batches[i].Stock
			}
		}
	}
	return -1
}

type fakeInvoiceRepo struct {
	mu         sync.Mutex
	invoices   map[uuid.UUID]*entity.Invoice
	failCreate bool
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[uuid.UUID]*entity.Invoice)}
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return errors.New("storage failure")
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	f.invoices[inv.ID] = inv
	return nil
}

func (f *fakeInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id]
	if !ok {
		return nil, nil
	}
	return inv, nil
}

func (f *fakeInvoiceRepo) List(ctx context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Invoice, 0, len(f.invoices))
	for _, inv := range f.invoices {
		if params.CustomerID != nil && (inv.CustomerID == nil || *inv.CustomerID != *params.CustomerID) {
			continue
		}
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

func (f *fakeInvoiceRepo) ListBetween(ctx context.Context, start, end time.Time) ([]entity.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Invoice, 0)
	for _, inv := range f.invoices {
		if !inv.InvoiceDate.Before(start) && inv.InvoiceDate.Before(end) {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (f *fakeInvoiceRepo) ListChronic(ctx context.Context) ([]entity.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Invoice, 0)
	for _, inv := range f.invoices {
		if inv.IsChronic && inv.TreatmentDuration != nil {
			out = append(out, *inv)
		}
	}
	return out, nil
}

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
}

func (f *fakeCustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.customers[c.ID] = c
	return nil
}

func (f *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.customers[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (f *fakeCustomerRepo) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.customers {
		if c.Phone == phone {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customers[c.ID] = c
	return nil
}

func (f *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.customers, id)
	return nil
}

func (f *fakeCustomerRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Customer, 0, len(f.customers))
	for _, c := range f.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

// count reads the number of stored patients
func (f *fakeCustomerRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.customers)
}

type fakeReturnRepo struct {
	logs []*entity.ReturnLog
}

func (f *fakeReturnRepo) Create(ctx context.Context, log *entity.ReturnLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	f.logs = append(f.logs, log)
	return nil
}

func (f *fakeReturnRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.ReturnLog, error) {
	for _, l := range f.logs {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, nil
}

func (f *fakeReturnRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.ReturnLog, int64, error) {
	out := make([]entity.ReturnLog, 0, len(f.logs))
	for _, l := range f.logs {
		out = append(out, *l)
	}
	return out, int64(len(out)), nil
}

func (f *fakeReturnRepo) ListByMedicine(ctx context.Context, medicineID uuid.UUID) ([]entity.ReturnLog, error) {
	out := make([]entity.ReturnLog, 0)
	for _, l := range f.logs {
		if l.MedicineID == medicineID {
			out = append(out, *l)
		}
	}
	return out, nil
}

type fakeExpenseRepo struct {
	expenses []*entity.Expense
}

func (f *fakeExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	f.expenses = append(f.expenses, e)
	return nil
}

func (f *fakeExpenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, e := range f.expenses {
		if e.ID == id {
			f.expenses = append(f.expenses[:i], f.expenses[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeExpenseRepo) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Expense, int64, error) {
	out := make([]entity.Expense, 0, len(f.expenses))
	for _, e := range f.expenses {
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (f *fakeExpenseRepo) SumBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var total int64
	for _, e := range f.expenses {
		if !e.ExpenseDate.Before(start) && e.ExpenseDate.Before(end) {
			total += e.Amount
		}
	}
	return total, nil
}

// fakeAnalyticsRepo derives its aggregates from a fakeInvoiceRepo so tests
// stay consistent between the two views of the same sales
type fakeAnalyticsRepo struct {
	invoices *fakeInvoiceRepo
}

func (f *fakeAnalyticsRepo) SalesBetween(ctx context.Context, start, end time.Time) (int64, error) {
	invs, _ := f.invoices.ListBetween(ctx, start, end)
	var total int64
	for _, inv := range invs {
		total += inv.TotalAmount
	}
	return total, nil
}

func (f *fakeAnalyticsRepo) COGSBetween(ctx context.Context, start, end time.Time) (int64, error) {
	invs, _ := f.invoices.ListBetween(ctx, start, end)
	var total int64
	for _, inv := range invs {
		for _, item := range inv.Items {
			for _, a := range item.Allocations {
				total += int64(a.Quantity) * a.PurchasePrice
			}
		}
	}
	return total, nil
}

func (f *fakeAnalyticsRepo) InvoiceCountBetween(ctx context.Context, start, end time.Time) (int64, error) {
	invs, _ := f.invoices.ListBetween(ctx, start, end)
	return int64(len(invs)), nil
}

func (f *fakeAnalyticsRepo) DailySalesBetween(ctx context.Context, start, end time.Time) ([]repository.DailySales, error) {
	invs, _ := f.invoices.ListBetween(ctx, start, end)
	byDay := make(map[string]*repository.DailySales)
	for _, inv := range invs {
		day := time.Date(inv.InvoiceDate.Year(), inv.InvoiceDate.Month(), inv.InvoiceDate.Day(), 0, 0, 0, 0, inv.InvoiceDate.Location())
		key := day.Format("2006-01-02")
		if byDay[key] == nil {
			byDay[key] = &repository.DailySales{Day: day}
		}
		byDay[key].Revenue += inv.TotalAmount
		byDay[key].Orders++
	}
	out := make([]repository.DailySales, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakeAnalyticsRepo) TopMedicines(ctx context.Context, start, end time.Time, limit int) ([]repository.MedicineSales, error) {
	invs, _ := f.invoices.ListBetween(ctx, start, end)
	byMed := make(map[uuid.UUID]*repository.MedicineSales)
	for _, inv := range invs {
		for _, item := range inv.Items {
			if byMed[item.MedicineID] == nil {
				byMed[item.MedicineID] = &repository.MedicineSales{
					MedicineID:   item.MedicineID,
					MedicineName: item.MedicineName,
				}
			}
			byMed[item.MedicineID].Quantity += int64(item.Quantity)
			byMed[item.MedicineID].Revenue += item.Total
		}
	}
	out := make([]repository.MedicineSales, 0, len(byMed))
	for _, m := range byMed {
		out = append(out, *m)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// holdChecker always raises a hold with the given warning
type holdChecker struct {
	warning string
	calls   int
}

func (c *holdChecker) CheckInteractions(ctx context.Context, medicineNames []string) *advisory.Hold {
	c.calls++
	return &advisory.Hold{Warning: c.warning}
}

var _ advisory.Checker = (*holdChecker)(nil)
