package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trustmeds/pharmacy-api/internal/application/service"
	"github.com/trustmeds/pharmacy-api/internal/presentation/http/dto/response"
)

// DashboardHandler handles dashboard and reporting HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats handles the dashboard summary
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.GetDashboardStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved successfully", stats)
}

// RefillsDue handles the chronic-patient refill reminder list
func (h *DashboardHandler) RefillsDue(c *gin.Context) {
	windowDays := 7
	if v := c.Query("window_days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			response.BadRequest(c, "Invalid window_days")
			return
		}
		windowDays = parsed
	}

	refills, err := h.dashboardService.RefillsDue(c.Request.Context(), windowDays)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Refill reminders retrieved successfully", gin.H{
		"window_days": windowDays,
		"refills":     refills,
	})
}

// SalesReport handles the per-period sales report. Dates default to the
// current month; end_date is inclusive.
func (h *DashboardHandler) SalesReport(c *gin.Context) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0)

	if v := c.Query("start_date"); v != "" {
		parsed, err := parseDate(v)
		if err != nil {
			response.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
			return
		}
		start = parsed
	}
	if v := c.Query("end_date"); v != "" {
		parsed, err := parseDate(v)
		if err != nil {
			response.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
			return
		}
		end = parsed.AddDate(0, 0, 1)
	}
	if !end.After(start) {
		response.BadRequest(c, "end_date must not be before start_date")
		return
	}

	includeInvoices := c.Query("include_invoices") == "true"

	report, err := h.dashboardService.GetSalesReport(c.Request.Context(), start, end, includeInvoices)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales report retrieved successfully", report)
}
