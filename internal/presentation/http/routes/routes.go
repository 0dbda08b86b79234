package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trustmeds/pharmacy-api/internal/config"
	domainRepo "github.com/trustmeds/pharmacy-api/internal/domain/repository"
	"github.com/trustmeds/pharmacy-api/internal/presentation/http/handler"
	"github.com/trustmeds/pharmacy-api/internal/presentation/http/middleware"
	"github.com/trustmeds/pharmacy-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Medicine  *handler.MedicineHandler
	Checkout  *handler.CheckoutHandler
	Inventory *handler.InventoryHandler
	Customer  *handler.CustomerHandler
	Expense   *handler.ExpenseHandler
	Dashboard *handler.DashboardHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-user rate limiter
		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.Refresh)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Profile
	protected.GET("/profile", h.Auth.Me)

	// Dashboard and reports
	protected.GET("/dashboard", h.Dashboard.Stats)
	protected.GET("/dashboard/refills-due", h.Dashboard.RefillsDue)
	protected.GET("/reports/sales", h.Dashboard.SalesReport)

	// Catalog
	registerMedicineRoutes(protected, h)

	// Sales
	registerCheckoutRoutes(protected, h, deps)

	// Stock operations
	registerInventoryRoutes(protected, h, deps)

	// Patients
	registerCustomerRoutes(protected, h)

	// Expenses
	registerExpenseRoutes(protected, h)
}

func registerMedicineRoutes(protected *gin.RouterGroup, h *Handlers) {
	medicines := protected.Group("/medicines")
	{
		medicines.GET("", h.Medicine.List)
		medicines.POST("", h.Medicine.Create)
		medicines.GET("/low-stock", h.Medicine.LowStock)
		medicines.GET("/expiring", h.Medicine.Expiring)
		medicines.GET("/barcode/:code", h.Medicine.GetByBarcode)
		medicines.GET("/:id", h.Medicine.Get)
		medicines.PUT("/:id", h.Medicine.Update)
		medicines.DELETE("/:id", middleware.RequireRole("admin"), h.Medicine.Delete)
		medicines.POST("/:id/batches", h.Inventory.AddBatch)
	}
}

func registerCheckoutRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Checkout uses idempotency middleware so a retried submission never
	// deducts stock twice
	protected.POST("/checkout", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
	}), h.Checkout.Checkout)

	invoices := protected.Group("/invoices")
	{
		invoices.GET("", h.Checkout.List)
		invoices.GET("/:id", h.Checkout.Get)
	}
}

func registerInventoryRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	inventory := protected.Group("/inventory")
	{
		// Returns honor an Idempotency-Key when the client sends one
		inventory.POST("/returns", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Inventory.Return)
		inventory.GET("/returns", h.Inventory.ListReturns)
		inventory.POST("/adjustments", h.Inventory.Adjust)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", middleware.RequireRole("admin"), h.Customer.Delete)
		customers.GET("/:id/history", h.Customer.History)
	}
}

func registerExpenseRoutes(protected *gin.RouterGroup, h *Handlers) {
	expenses := protected.Group("/expenses")
	{
		expenses.GET("", h.Expense.List)
		expenses.POST("", h.Expense.Create)
		expenses.DELETE("/:id", middleware.RequireRole("admin"), h.Expense.Delete)
	}
}
