package repository

import (
	"context"
	"time"

	domainRepo "github.com/trustmeds/pharmacy-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) SalesBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total_amount), 0)
		FROM invoices
		WHERE invoice_date >= ? AND invoice_date < ? AND deleted_at IS NULL
	`, start, end).Scan(&total).Error
	return total, err
}

// COGSBetween sums purchase cost across the batch allocations recorded at
// checkout, so the figure reflects the actual batches each sale drew from.
func (r *analyticsRepository) COGSBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(a.quantity * a.purchase_price), 0)
		FROM invoice_item_allocations a
		JOIN invoice_items it ON it.id = a.invoice_item_id
		JOIN invoices i ON i.id = it.invoice_id
		WHERE i.invoice_date >= ? AND i.invoice_date < ? AND i.deleted_at IS NULL
	`, start, end).Scan(&total).Error
	return total, err
}

func (r *analyticsRepository) InvoiceCountBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM invoices
		WHERE invoice_date >= ? AND invoice_date < ? AND deleted_at IS NULL
	`, start, end).Scan(&count).Error
	return count, err
}

func (r *analyticsRepository) DailySalesBetween(ctx context.Context, start, end time.Time) ([]domainRepo.DailySales, error) {
	var results []domainRepo.DailySales
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			date_trunc('day', invoice_date) AS day,
			COALESCE(SUM(total_amount), 0) AS revenue,
			COUNT(*) AS orders
		FROM invoices
		WHERE invoice_date >= ? AND invoice_date < ? AND deleted_at IS NULL
		GROUP BY day
		ORDER BY day ASC
	`, start, end).Scan(&results).Error
	return results, err
}

func (r *analyticsRepository) TopMedicines(ctx context.Context, start, end time.Time, limit int) ([]domainRepo.MedicineSales, error) {
	var results []domainRepo.MedicineSales
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			it.medicine_id AS medicine_id,
			it.medicine_name AS medicine_name,
			COALESCE(SUM(it.quantity), 0) AS quantity,
			COALESCE(SUM(it.total), 0) AS revenue
		FROM invoice_items it
		JOIN invoices i ON i.id = it.invoice_id
		WHERE i.invoice_date >= ? AND i.invoice_date < ? AND i.deleted_at IS NULL
		GROUP BY it.medicine_id, it.medicine_name
		ORDER BY quantity DESC
		LIMIT ?
	`, start, end, limit).Scan(&results).Error
	return results, err
}
