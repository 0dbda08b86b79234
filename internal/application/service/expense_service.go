package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/trustmeds/pharmacy-api/internal/domain/entity"
	"github.com/trustmeds/pharmacy-api/internal/domain/repository"
	"github.com/trustmeds/pharmacy-api/pkg/apperror"
	"github.com/trustmeds/pharmacy-api/pkg/pagination"
)

// ExpenseService records operating expenses for the accounting view
type ExpenseService struct {
	expenseRepo repository.ExpenseRepository
}

// NewExpenseService creates a new expense service
func NewExpenseService(expenseRepo repository.ExpenseRepository) *ExpenseService {
	return &ExpenseService{expenseRepo: expenseRepo}
}

// RecordExpense creates an expense entry
func (s *ExpenseService) RecordExpense(ctx context.Context, expense *entity.Expense) (*entity.Expense, error) {
	if expense.Amount <= 0 {
		return nil, apperror.NewBadRequestError("Expense amount must be positive")
	}
	if expense.Category == "" {
		return nil, apperror.NewBadRequestError("Expense category is required")
	}
	if expense.ExpenseDate.IsZero() {
		expense.ExpenseDate = time.Now()
	}
	if expense.PaymentMode == "" {
		expense.PaymentMode = "Cash"
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// DeleteExpense removes an expense entry
func (s *ExpenseService) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	return s.expenseRepo.Delete(ctx, id)
}

// ListExpenses lists expenses newest first
func (s *ExpenseService) ListExpenses(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Expense], error) {
	expenses, total, err := s.expenseRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(expenses, pag), nil
}
