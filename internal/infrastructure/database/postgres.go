package database

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
	"github.com/trustmeds/pharmacy-api/internal/config"
	"github.com/trustmeds/pharmacy-api/internal/domain/entity"
	"github.com/trustmeds/pharmacy-api/internal/domain/enum"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Staff accounts
		&entity.User{},

		// Catalog and batch ledger
		&entity.Medicine{},
		&entity.Batch{},
		&entity.StockAdjustment{},

		// Patient master
		&entity.Customer{},

		// Sales history
		&entity.Invoice{},
		&entity.InvoiceItem{},
		&entity.InvoiceItemAllocation{},

		// Returns and accounting
		&entity.ReturnLog{},
		&entity.Expense{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with an admin user and a small starter
// catalog so a fresh install has something to sell.
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	// Create admin user if configured via environment variables
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")

	if adminEmail != "" && adminPassword != "" {
		var existingAdmin entity.User
		if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				admin := entity.User{
					FirstName: "Admin",
					LastName:  "User",
					Email:     adminEmail,
					Password:  string(hashedPassword),
					Role:      "admin",
				}
				if err := db.Create(&admin).Error; err != nil {
					log.Printf("Warning: failed to create admin user: %v", err)
				} else {
					log.Printf("Created admin user %s", adminEmail)
				}
			}
		}
	}

	// Skip the catalog seed if any medicine already exists
	var count int64
	if err := db.Model(&entity.Medicine{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	medicines := []entity.Medicine{
		{
			Name:         "Amoxicillin 250mg",
			GenericName:  "Amoxicillin",
			Brand:        "Amoxil",
			Manufacturer: "GSK",
			Department:   enum.DepartmentPharmacy,
			Category:     enum.CategoryCapsule,
			Price:        850, // In paise
			GSTRate:      12,
			MinThreshold: 50,
			Batches: []entity.Batch{
				{
					BatchNumber:   "AMX-2403",
					ExpiryDate:    now.AddDate(0, 8, 0),
					Stock:         120,
					PurchasePrice: 520,
				},
				{
					BatchNumber:   "AMX-2409",
					ExpiryDate:    now.AddDate(1, 2, 0),
					Stock:         200,
					PurchasePrice: 540,
				},
			},
		},
		{
			Name:         "Paracetamol 500mg",
			GenericName:  "Paracetamol",
			Brand:        "Calpol",
			Manufacturer: "GSK",
			Department:   enum.DepartmentPharmacy,
			Category:     enum.CategoryTablet,
			Price:        250,
			GSTRate:      12,
			MinThreshold: 100,
			Batches: []entity.Batch{
				{
					BatchNumber:   "PCM-2401",
					ExpiryDate:    now.AddDate(2, 0, 0),
					Stock:         500,
					PurchasePrice: 140,
				},
			},
		},
		{
			Name:         "Dettol Antiseptic 250ml",
			GenericName:  "Chloroxylenol",
			Brand:        "Dettol",
			Manufacturer: "Reckitt",
			Department:   enum.DepartmentFMCG,
			Category:     enum.CategoryGeneral,
			Price:        12500,
			GSTRate:      18,
			MinThreshold: 10,
			Batches: []entity.Batch{
				{
					BatchNumber:   "DTL-2406",
					ExpiryDate:    now.AddDate(3, 0, 0),
					Stock:         45,
					PurchasePrice: 9200,
				},
			},
		},
	}

	for i := range medicines {
		if err := db.Create(&medicines[i]).Error; err != nil {
			log.Printf("Warning: failed to seed medicine %s: %v", medicines[i].Name, err)
		}
	}

	log.Println("Seeded starter catalog")
	return nil
}
