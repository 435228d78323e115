// Package main provides the main entry point for the billing service
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/signforge/billing-api/app/handlers"
	"github.com/signforge/billing-api/app/router"
	businessflow "github.com/signforge/billing-api/business_flow"
	"github.com/signforge/billing-api/config"
	"github.com/signforge/billing-api/models"
	"github.com/signforge/billing-api/repository"
)

// Application represents the main application structure
type Application struct {
	router *router.FiberRouter
	config *config.Config
	server *fiber.App
}

func main() {
	log.Println("Starting billing service...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging routes the standard logger to stdout, a rotating file, or both.
func setupLogging(cfg config.LoggingConfig) {
	if cfg.Output == "stdout" {
		return
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	switch cfg.Output {
	case "file":
		log.SetOutput(rotator)
	case "both":
		log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	}
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	// TranslateError maps driver errors to gorm sentinels such as
	// ErrDuplicatedKey, which the flows rely on for conflict handling.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// migrateSchema creates or updates the billing tables and seeds the
// invoice number counter from any pre-existing invoices.
func migrateSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Item{},
		&models.Material{},
		&models.Rate{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.InvoiceCounter{},
	); err != nil {
		return err
	}

	return db.Exec(`
		INSERT INTO invoice_counters (id, last_number)
		SELECT 1, COALESCE(MAX(invoice_number), 0) FROM invoices
		ON CONFLICT (id) DO NOTHING`).Error
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.Config) (*Application, error) {
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := migrateSchema(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	// Initialize repositories
	itemRepo := repository.NewItemRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	rateRepo := repository.NewRateRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	invoiceItemRepo := repository.NewInvoiceItemRepository(db)

	// Initialize flows
	catalogFlow := businessflow.NewCatalogFlow(itemRepo, materialRepo)
	rateFlow := businessflow.NewRateFlow(rateRepo)
	pricingFlow := businessflow.NewPricingFlow(rateRepo)
	invoiceFlow := businessflow.NewInvoiceFlow(invoiceRepo, invoiceItemRepo, db)

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(catalogFlow)
	rateHandler := handlers.NewRateHandler(rateFlow, pricingFlow)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceFlow)

	// Initialize router
	appRouter := router.NewFiberRouter(cfg, catalogHandler, rateHandler, invoiceHandler)

	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router: fiberRouter,
		config: cfg,
		server: fiberRouter.GetApp(),
	}

	return application, nil
}
