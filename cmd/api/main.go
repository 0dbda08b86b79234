package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/trustmeds/pharmacy-api/internal/application/service"
	"github.com/trustmeds/pharmacy-api/internal/config"
	"github.com/trustmeds/pharmacy-api/internal/infrastructure/database"
	"github.com/trustmeds/pharmacy-api/internal/infrastructure/repository"
	"github.com/trustmeds/pharmacy-api/internal/presentation/http/handler"
	"github.com/trustmeds/pharmacy-api/internal/presentation/http/routes"
	"github.com/trustmeds/pharmacy-api/pkg/advisory"
	"github.com/trustmeds/pharmacy-api/pkg/keylock"
	"github.com/trustmeds/pharmacy-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	medicineRepo := repository.NewMedicineRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	returnRepo := repository.NewReturnRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Drug interaction checker. Without an advisory URL configured every
	// checkout proceeds unchecked.
	var checker advisory.Checker
	if cfg.Advisory.URL != "" {
		checker = advisory.NewHTTPChecker(advisory.Config{
			BaseURL: cfg.Advisory.URL,
			APIKey:  cfg.Advisory.APIKey,
			Timeout: cfg.Advisory.Timeout,
		})
	} else {
		log.Println("Advisory service not configured, interaction checks disabled")
		checker = advisory.NewNullChecker()
	}

	// Per-medicine locks serialize stock mutations
	locks := keylock.New()

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	medicineService := service.NewMedicineService(medicineRepo)
	checkoutService := service.NewCheckoutService(medicineRepo, invoiceRepo, customerRepo, checker, locks)
	inventoryService := service.NewInventoryService(medicineRepo, returnRepo, locks)
	customerService := service.NewCustomerService(customerRepo, invoiceRepo)
	expenseService := service.NewExpenseService(expenseRepo)
	dashboardService := service.NewDashboardService(medicineRepo, invoiceRepo, expenseRepo, analyticsRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Medicine:  handler.NewMedicineHandler(medicineService),
		Checkout:  handler.NewCheckoutHandler(checkoutService),
		Inventory: handler.NewInventoryHandler(inventoryService),
		Customer:  handler.NewCustomerHandler(customerService),
		Expense:   handler.NewExpenseHandler(expenseService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
