package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/trustmeds/pharmacy-api/internal/application/service"
	"github.com/trustmeds/pharmacy-api/internal/domain/entity"
	"github.com/trustmeds/pharmacy-api/internal/presentation/http/dto/request"
	"github.com/trustmeds/pharmacy-api/internal/presentation/http/dto/response"
	"github.com/trustmeds/pharmacy-api/pkg/utils"
)

// ExpenseHandler handles operating expense HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// Create handles recording an expense
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req request.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	expense := &entity.Expense{
		Category:    req.Category,
		Description: req.Description,
		Amount:      int64(req.Amount * 100),
		PaymentMode: req.PaymentMode,
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			response.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		expense.ExpenseDate = date
	}

	created, err := h.expenseService.RecordExpense(c.Request.Context(), expense)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Expense recorded successfully", created)
}

// Delete handles removing an expense entry
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid expense ID")
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expense deleted successfully", nil)
}

// List handles listing expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))

	result, err := h.expenseService.ListExpenses(c.Request.Context(), paginationFromQuery(page, perPage))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Expenses retrieved successfully", result)
}
