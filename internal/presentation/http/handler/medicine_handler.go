package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/trustmeds/pharmacy-api/internal/application/service"
	"github.com/trustmeds/pharmacy-api/internal/domain/entity"
	"github.com/trustmeds/pharmacy-api/internal/domain/enum"
	"github.com/trustmeds/pharmacy-api/internal/domain/repository"
	"github.com/trustmeds/pharmacy-api/internal/presentation/http/dto/request"
	"github.com/trustmeds/pharmacy-api/internal/presentation/http/dto/response"
	"github.com/trustmeds/pharmacy-api/pkg/utils"
)

// MedicineHandler handles catalog HTTP requests
type MedicineHandler struct {
	medicineService *service.MedicineService
}

// NewMedicineHandler creates a new medicine handler
func NewMedicineHandler(medicineService *service.MedicineService) *MedicineHandler {
	return &MedicineHandler{medicineService: medicineService}
}

// List handles listing the catalog
func (h *MedicineHandler) List(c *gin.Context) {
	var filter request.MedicineFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.MedicineFilterParams{
		Pagination: paginationFromQuery(filter.Page, filter.PerPage),
		Search:     filter.Search,
		SortBy:     filter.SortBy,
		SortOrder:  filter.SortOrder,
	}
	if filter.Department != "" {
		if dept, ok := enum.ParseDepartment(filter.Department); ok {
			v := int(dept)
			params.Department = &v
		}
	}
	if filter.Category != "" {
		if cat, ok := enum.ParseCategory(filter.Category); ok {
			v := int(cat)
			params.Category = &v
		}
	}

	result, err := h.medicineService.ListMedicines(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Medicines retrieved successfully", result)
}

// Create handles creating a catalog entry
func (h *MedicineHandler) Create(c *gin.Context) {
	var req request.CreateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	medicine := &entity.Medicine{
		Name:         req.Name,
		GenericName:  req.GenericName,
		Brand:        req.Brand,
		Manufacturer: req.Manufacturer,
		Price:        int64(req.Price * 100),
		MinThreshold: req.MinThreshold,
		Barcode:      req.Barcode,
		Ingredients:  req.Ingredients,
		Description:  req.Description,
	}
	if req.GSTRate != nil {
		medicine.GSTRate = *req.GSTRate
	} else {
		medicine.GSTRate = 12
	}
	if dept, ok := enum.ParseDepartment(req.Department); ok {
		medicine.Department = dept
	}
	if cat, ok := enum.ParseCategory(req.Category); ok {
		medicine.Category = cat
	} else {
		medicine.Category = enum.CategoryGeneral
	}

	for _, b := range req.Batches {
		expiry, err := parseDate(b.ExpiryDate)
		if err != nil {
			response.BadRequest(c, "Invalid expiry date: "+b.ExpiryDate)
			return
		}
		medicine.Batches = append(medicine.Batches, entity.Batch{
			BatchNumber:   b.BatchNumber,
			ExpiryDate:    expiry,
			Stock:         b.Stock,
			PurchasePrice: int64(b.PurchasePrice * 100),
		})
	}

	created, err := h.medicineService.CreateMedicine(c.Request.Context(), medicine)
	if err != nil {
		if inventoryError(c, err) {
			return
		}
		response.Error(c, err)
		return
	}

	response.Created(c, "Medicine created successfully", created)
}

// Get handles getting a single medicine with its batches
func (h *MedicineHandler) Get(c *gin.Context) {
	id, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid medicine ID")
		return
	}

	medicine, err := h.medicineService.GetMedicine(c.Request.Context(), id)
	if err != nil {
		if inventoryError(c, err) {
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Medicine retrieved successfully", medicine)
}

// GetByBarcode handles the counter scan lookup
func (h *MedicineHandler) GetByBarcode(c *gin.Context) {
	medicine, err := h.medicineService.GetByBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		if inventoryError(c, err) {
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Medicine retrieved successfully", medicine)
}

// Update handles catalog edits
func (h *MedicineHandler) Update(c *gin.Context) {
	id, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid medicine ID")
		return
	}

	var req request.UpdateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.UpdateMedicineInput{
		Name:         req.Name,
		GenericName:  req.GenericName,
		Brand:        req.Brand,
		Manufacturer: req.Manufacturer,
		GSTRate:      req.GSTRate,
		MinThreshold: req.MinThreshold,
		Barcode:      req.Barcode,
		Ingredients:  req.Ingredients,
		Description:  req.Description,
	}
	if req.Price != nil {
		price := int64(*req.Price * 100)
		input.Price = &price
	}

	medicine, err := h.medicineService.UpdateMedicine(c.Request.Context(), id, input)
	if err != nil {
		if inventoryError(c, err) {
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Medicine updated successfully", medicine)
}

// Delete handles removing a catalog entry
func (h *MedicineHandler) Delete(c *gin.Context) {
	id, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid medicine ID")
		return
	}

	if err := h.medicineService.DeleteMedicine(c.Request.Context(), id); err != nil {
		if inventoryError(c, err) {
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Medicine deleted successfully", nil)
}

// LowStock lists catalog entries at or below their threshold
func (h *MedicineHandler) LowStock(c *gin.Context) {
	medicines, err := h.medicineService.LowStockMedicines(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock medicines retrieved successfully", medicines)
}

// Expiring lists batches nearing or past expiry
func (h *MedicineHandler) Expiring(c *gin.Context) {
	windowDays := 90
	if v := c.Query("window_days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			response.BadRequest(c, "window_days must be a positive number of days")
			return
		}
		windowDays = parsed
	}

	expiring, expired, err := h.medicineService.ExpiringBatches(c.Request.Context(), windowDays)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expiry report retrieved successfully", gin.H{
		"window_days": windowDays,
		"expiring":    expiring,
		"expired":     expired,
	})
}
