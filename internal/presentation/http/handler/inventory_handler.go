package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/trustmeds/pharmacy-api/internal/application/service"
	"github.com/trustmeds/pharmacy-api/internal/domain/enum"
	"github.com/trustmeds/pharmacy-api/internal/presentation/http/dto/request"
	"github.com/trustmeds/pharmacy-api/internal/presentation/http/dto/response"
	"github.com/trustmeds/pharmacy-api/pkg/utils"
)

// InventoryHandler handles stock movement HTTP requests: returns,
// adjustments and goods receipt.
type InventoryHandler struct {
	inventoryService *service.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// Return handles a return-to-supplier (RMA)
func (h *InventoryHandler) Return(c *gin.Context) {
	var req request.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.ReturnInput{
		MedicineID: req.MedicineID,
		BatchID:    req.BatchID,
		Quantity:   req.Quantity,
		ReasonNote: req.ReasonNote,
		Reason:     enum.ReturnReasonOther,
	}
	if reason, ok := enum.ParseReturnReason(req.Reason); ok {
		input.Reason = reason
	}

	log, err := h.inventoryService.ReturnToSupplier(c.Request.Context(), input)
	if err != nil {
		if inventoryError(c, err) {
			return
		}
		response.Error(c, err)
		return
	}

	response.Created(c, "Return recorded successfully", log)
}

// ListReturns handles the RMA history. A medicine_id query returns the full
// unpaginated history for that medicine.
func (h *InventoryHandler) ListReturns(c *gin.Context) {
	if v := c.Query("medicine_id"); v != "" {
		medicineID, err := utils.ParseUUID(v)
		if err != nil {
			response.BadRequest(c, "Invalid medicine ID")
			return
		}
		logs, err := h.inventoryService.ListReturnsByMedicine(c.Request.Context(), medicineID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Returns retrieved successfully", logs)
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))

	result, err := h.inventoryService.ListReturns(c.Request.Context(),
		paginationFromQuery(page, perPage), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Returns retrieved successfully", result)
}

// Adjust handles a manual stock correction
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req request.AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	adjustment, err := h.inventoryService.AdjustStock(c.Request.Context(), &service.AdjustmentInput{
		MedicineID: req.MedicineID,
		BatchID:    req.BatchID,
		Delta:      req.Delta,
		Reason:     req.Reason,
		UserName:   GetUserEmail(c),
	})
	if err != nil {
		if inventoryError(c, err) {
			return
		}
		response.Error(c, err)
		return
	}

	response.Created(c, "Stock adjusted successfully", adjustment)
}

// AddBatch handles goods receipt of a new batch for one medicine
func (h *InventoryHandler) AddBatch(c *gin.Context) {
	medicineID, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid medicine ID")
		return
	}

	var req request.AddBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	expiry, err := parseDate(req.ExpiryDate)
	if err != nil {
		response.BadRequest(c, "Invalid expiry date: "+req.ExpiryDate)
		return
	}

	batch, err := h.inventoryService.AddBatch(c.Request.Context(), &service.AddBatchInput{
		MedicineID:    medicineID,
		BatchNumber:   req.BatchNumber,
		ExpiryDate:    expiry,
		Stock:         req.Stock,
		PurchasePrice: int64(req.PurchasePrice * 100),
	})
	if err != nil {
		if inventoryError(c, err) {
			return
		}
		response.Error(c, err)
		return
	}

	response.Created(c, "Batch added successfully", batch)
}
