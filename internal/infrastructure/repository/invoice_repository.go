package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/trustmeds/pharmacy-api/internal/domain/entity"
	domainRepo "github.com/trustmeds/pharmacy-api/internal/domain/repository"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

// Create persists the invoice with its items and allocations in one
// transaction. gorm cascades the nested slices through the association
// foreign keys, so a partial invoice can never be committed.
func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(invoice).Error
	})
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items.Allocations").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{})

	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("invoice_no ILIKE ? OR customer_name ILIKE ? OR customer_phone ILIKE ?",
			search, search, search)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.StartDate != nil {
		query = query.Where("invoice_date >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("invoice_date < ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.
		Preload("Items").
		Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("invoice_date DESC").
		Find(&invoices).Error

	return invoices, total, err
}

func (r *invoiceRepository) ListBetween(ctx context.Context, start, end time.Time) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("invoice_date >= ? AND invoice_date < ?", start, end).
		Order("invoice_date ASC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) ListChronic(ctx context.Context) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("is_chronic = ? AND treatment_duration IS NOT NULL", true).
		Order("invoice_date DESC").
		Find(&invoices).Error
	return invoices, err
}
