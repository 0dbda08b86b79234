package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trustmeds/pharmacy-api/internal/domain/entity"
	"github.com/trustmeds/pharmacy-api/internal/domain/inventory"
	"github.com/trustmeds/pharmacy-api/internal/domain/repository"
)

// DashboardService provides the store dashboard: stock health, sales and
// profit figures and the chronic patient refill projection.
type DashboardService struct {
	medicineRepo  repository.MedicineRepository
	invoiceRepo   repository.InvoiceRepository
	expenseRepo   repository.ExpenseRepository
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	medicineRepo repository.MedicineRepository,
	invoiceRepo repository.InvoiceRepository,
	expenseRepo repository.ExpenseRepository,
	analyticsRepo repository.AnalyticsRepository,
) *DashboardService {
	return &DashboardService{
		medicineRepo:  medicineRepo,
		invoiceRepo:   invoiceRepo,
		expenseRepo:   expenseRepo,
		analyticsRepo: analyticsRepo,
	}
}

// DashboardStats represents the store overview
type DashboardStats struct {
	TotalMedicines   int64             `json:"total_medicines"`
	StockValue       float64           `json:"stock_value"` // At sale price, in rupees
	LowStockCount    int               `json:"low_stock_count"`
	ExpiringIn30Days int               `json:"expiring_in_30_days"`
	ExpiringIn90Days int               `json:"expiring_in_90_days"`
	ExpiredBatches   int               `json:"expired_batches"`
	TodaySales       float64           `json:"today_sales"`
	TodayOrders      int64             `json:"today_orders"`
	MonthSales       float64           `json:"month_sales"`
	MonthProfit      float64           `json:"month_profit"` // Sales - COGS - expenses
	DailySalesData   []DailySalesPoint `json:"daily_sales_data"`
	TopMedicines     []TopMedicine     `json:"top_medicines"`
}

// DailySalesPoint represents a daily sales data point
type DailySalesPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

// TopMedicine represents a best seller entry
type TopMedicine struct {
	Name     string  `json:"name"`
	Quantity int64   `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// GetDashboardStats returns the store overview
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	now := time.Now()

	// Walk the full catalog for the stock-health figures. Store catalogs are
	// a few thousand entries at most, so loading everything is acceptable.
	medicines, err := s.medicineRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalMedicines = int64(len(medicines))

	stockValue := decimal.Zero
	for i := range medicines {
		m := &medicines[i]
		stockValue = stockValue.Add(inventory.StockValue(m))
		if inventory.IsLowStock(m) {
			stats.LowStockCount++
		}
		stats.ExpiringIn30Days += len(inventory.ExpiringWithin(m, 30, now))
		stats.ExpiringIn90Days += len(inventory.ExpiringWithin(m, 90, now))
		stats.ExpiredBatches += len(inventory.Expired(m, now))
	}
	stats.StockValue, _ = stockValue.Float64()

	// Sales figures
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	tomorrow := startOfDay.Add(24 * time.Hour)

	todaySales, err := s.analyticsRepo.SalesBetween(ctx, startOfDay, tomorrow)
	if err != nil {
		return nil, err
	}
	stats.TodaySales = float64(todaySales) / 100

	todayOrders, err := s.analyticsRepo.InvoiceCountBetween(ctx, startOfDay, tomorrow)
	if err != nil {
		return nil, err
	}
	stats.TodayOrders = todayOrders

	monthSales, err := s.analyticsRepo.SalesBetween(ctx, startOfMonth, tomorrow)
	if err != nil {
		return nil, err
	}
	stats.MonthSales = float64(monthSales) / 100

	monthCOGS, err := s.analyticsRepo.COGSBetween(ctx, startOfMonth, tomorrow)
	if err != nil {
		return nil, err
	}
	monthExpenses, err := s.expenseRepo.SumBetween(ctx, startOfMonth, tomorrow)
	if err != nil {
		return nil, err
	}
	stats.MonthProfit = float64(monthSales-monthCOGS-monthExpenses) / 100

	// Last 7 days, zero-filled so the chart always has a point per day
	weekAgo := startOfDay.AddDate(0, 0, -6)
	daily, err := s.analyticsRepo.DailySalesBetween(ctx, weekAgo, tomorrow)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]repository.DailySales, len(daily))
	for _, d := range daily {
		byDay[d.Day.Format("2006-01-02")] = d
	}
	stats.DailySalesData = make([]DailySalesPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		day := startOfDay.AddDate(0, 0, -i)
		point := DailySalesPoint{Date: day.Format("Jan 02")}
		if d, ok := byDay[day.Format("2006-01-02")]; ok {
			point.Revenue = float64(d.Revenue) / 100
			point.Orders = d.Orders
		}
		stats.DailySalesData = append(stats.DailySalesData, point)
	}

	top, err := s.analyticsRepo.TopMedicines(ctx, startOfMonth, tomorrow, 5)
	if err != nil {
		return nil, err
	}
	stats.TopMedicines = make([]TopMedicine, 0, len(top))
	for _, t := range top {
		stats.TopMedicines = append(stats.TopMedicines, TopMedicine{
			Name:     t.MedicineName,
			Quantity: t.Quantity,
			Revenue:  float64(t.Revenue) / 100,
		})
	}

	return stats, nil
}

// RefillDue represents one chronic patient whose supply runs out soon
type RefillDue struct {
	InvoiceID     string    `json:"invoice_id"`
	InvoiceNo     string    `json:"invoice_no"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	DueDate       time.Time `json:"due_date"`
	OverdueDays   int       `json:"overdue_days"`
}

// RefillsDue projects, from chronic invoices with a treatment duration, which
// patients run out of supply within the next windowDays (or already have).
func (s *DashboardService) RefillsDue(ctx context.Context, windowDays int) ([]RefillDue, error) {
	invoices, err := s.invoiceRepo.ListChronic(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	cutoff := now.AddDate(0, 0, windowDays)

	// Keep only the latest invoice per patient phone; an older sale's refill
	// date is superseded by the newer purchase.
	seen := make(map[string]bool)
	due := make([]RefillDue, 0)
	for _, inv := range invoices {
		if inv.TreatmentDuration == nil {
			continue
		}
		if seen[inv.CustomerPhone] {
			continue
		}
		seen[inv.CustomerPhone] = true

		dueDate := inv.InvoiceDate.AddDate(0, 0, *inv.TreatmentDuration)
		if dueDate.After(cutoff) {
			continue
		}

		entry := RefillDue{
			InvoiceID:     inv.ID.String(),
			InvoiceNo:     inv.InvoiceNo,
			CustomerName:  inv.CustomerName,
			CustomerPhone: inv.CustomerPhone,
			DueDate:       dueDate,
		}
		if dueDate.Before(now) {
			entry.OverdueDays = int(now.Sub(dueDate).Hours() / 24)
		}
		due = append(due, entry)
	}

	return due, nil
}

// SalesReport summarizes revenue, GST, COGS and expenses over a period
type SalesReport struct {
	Start      time.Time        `json:"start"`
	End        time.Time        `json:"end"`
	Revenue    float64          `json:"revenue"`
	GSTTotal   float64          `json:"gst_total"`
	COGS       float64          `json:"cogs"`
	Expenses   float64          `json:"expenses"`
	NetProfit  float64          `json:"net_profit"`
	OrderCount int64            `json:"order_count"`
	Invoices   []entity.Invoice `json:"invoices,omitempty"`
}

// GetSalesReport builds the accounting report for [start, end)
func (s *DashboardService) GetSalesReport(ctx context.Context, start, end time.Time, includeInvoices bool) (*SalesReport, error) {
	report := &SalesReport{Start: start, End: end}

	revenue, err := s.analyticsRepo.SalesBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	report.Revenue = float64(revenue) / 100

	cogs, err := s.analyticsRepo.COGSBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	report.COGS = float64(cogs) / 100

	expenses, err := s.expenseRepo.SumBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	report.Expenses = float64(expenses) / 100

	count, err := s.analyticsRepo.InvoiceCountBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	report.OrderCount = count

	invoices, err := s.invoiceRepo.ListBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	var gstTotal int64
	for _, inv := range invoices {
		gstTotal += inv.GSTTotal
	}
	report.GSTTotal = float64(gstTotal) / 100
	if includeInvoices {
		report.Invoices = invoices
	}

	report.NetProfit = float64(revenue-cogs-expenses) / 100
	return report, nil
}
