package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/trustmeds/pharmacy-api/internal/domain/entity"
	"github.com/trustmeds/pharmacy-api/internal/domain/repository"
	"github.com/trustmeds/pharmacy-api/pkg/apperror"
	"github.com/trustmeds/pharmacy-api/pkg/pagination"
)

// CustomerService handles patient master operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository, invoiceRepo repository.InvoiceRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
	}
}

// CreateCustomer registers a patient
func (s *CustomerService) CreateCustomer(ctx context.Context, customer *entity.Customer) (*entity.Customer, error) {
	if customer.Name == "" {
		return nil, apperror.NewBadRequestError("Customer name is required")
	}
	if customer.Phone == "" {
		return nil, apperror.NewBadRequestError("Customer phone is required")
	}

	existing, err := s.customerRepo.GetByPhone(ctx, customer.Phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Phone number already registered")
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a patient by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// UpdateCustomer edits a patient record
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, name, phone string, abhaID *string, isChronic *bool) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if name != "" {
		customer.Name = name
	}
	if phone != "" && phone != customer.Phone {
		existing, err := s.customerRepo.GetByPhone(ctx, phone)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != customer.ID {
			return nil, apperror.NewConflictError("Phone number already registered")
		}
		customer.Phone = phone
	}
	if abhaID != nil {
		customer.AbhaID = abhaID
	}
	if isChronic != nil {
		customer.IsChronic = *isChronic
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer removes a patient. Their invoices keep the denormalized
// name and phone snapshots.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}
	return s.customerRepo.Delete(ctx, id)
}

// ListCustomers lists patients with pagination and search
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// CustomerHistory returns a patient's purchase history
func (s *CustomerService) CustomerHistory(ctx context.Context, id uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	invoices, total, err := s.invoiceRepo.List(ctx, &repository.InvoiceFilterParams{
		Pagination: params,
		CustomerID: &id,
	})
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}
