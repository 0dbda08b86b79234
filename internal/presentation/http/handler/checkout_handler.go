package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/trustmeds/pharmacy-api/internal/application/service"
	"github.com/trustmeds/pharmacy-api/internal/domain/enum"
	"github.com/trustmeds/pharmacy-api/internal/domain/repository"
	"github.com/trustmeds/pharmacy-api/internal/presentation/http/dto/request"
	"github.com/trustmeds/pharmacy-api/internal/presentation/http/dto/response"
	"github.com/trustmeds/pharmacy-api/pkg/utils"
)

// CheckoutHandler handles point-of-sale HTTP requests
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Checkout handles a sale
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.CheckoutInput{
		CustomerID:        req.CustomerID,
		CustomerName:      req.CustomerName,
		CustomerPhone:     req.CustomerPhone,
		AbhaID:            req.AbhaID,
		RefillReminder:    req.RefillReminder,
		IsChronic:         req.IsChronic,
		TreatmentDuration: req.TreatmentDuration,
		OverrideHold:      req.OverrideHold,
	}
	if method, ok := enum.ParsePaymentMethod(req.PaymentMethod); ok {
		input.PaymentMethod = method
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.CheckoutItemInput{
			MedicineID: item.MedicineID,
			Quantity:   item.Quantity,
		})
	}

	invoice, err := h.checkoutService.Checkout(c.Request.Context(), input)
	if err != nil {
		if inventoryError(c, err) {
			return
		}
		response.Error(c, err)
		return
	}

	response.Created(c, "Checkout completed successfully", invoice)
}

// Get handles getting a single invoice
func (h *CheckoutHandler) Get(c *gin.Context) {
	id, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.checkoutService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// List handles the sales history
func (h *CheckoutHandler) List(c *gin.Context) {
	var filter request.InvoiceFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.InvoiceFilterParams{
		Pagination: paginationFromQuery(filter.Page, filter.PerPage),
		Search:     filter.Search,
	}
	if filter.CustomerID != "" {
		if id, err := utils.ParseUUID(filter.CustomerID); err == nil {
			params.CustomerID = &id
		}
	}
	if filter.StartDate != "" {
		start, err := parseDate(filter.StartDate)
		if err != nil {
			response.BadRequest(c, "Invalid start_date")
			return
		}
		params.StartDate = &start
	}
	if filter.EndDate != "" {
		end, err := parseDate(filter.EndDate)
		if err != nil {
			response.BadRequest(c, "Invalid end_date")
			return
		}
		// End date is inclusive in the API, [start, end) in the query
		endExclusive := end.AddDate(0, 0, 1)
		params.EndDate = &endExclusive
	}

	result, err := h.checkoutService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}
