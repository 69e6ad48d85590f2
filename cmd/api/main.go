package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jumapay/billing-api/internal/application/service"
	"github.com/jumapay/billing-api/internal/config"
	"github.com/jumapay/billing-api/internal/infrastructure/database"
	"github.com/jumapay/billing-api/internal/infrastructure/publisher"
	"github.com/jumapay/billing-api/internal/infrastructure/repository"
	"github.com/jumapay/billing-api/internal/presentation/http/handler"
	"github.com/jumapay/billing-api/internal/presentation/http/routes"
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

	// Initialize repositories
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize event publisher
	eventPublisher := publisher.NewLogPublisher()

	// Initialize services
	invoiceService := service.NewInvoiceService(invoiceRepo, customerRepo, eventPublisher)
	paymentService := service.NewPaymentService(paymentRepo, invoiceRepo, eventPublisher)
	customerService := service.NewCustomerService(customerRepo)
	overdueService := service.NewOverdueService(invoiceRepo, eventPublisher)

	// Initialize handlers
	handlers := &routes.Handlers{
		Invoice:  handler.NewInvoiceHandler(invoiceService),
		Payment:  handler.NewPaymentHandler(paymentService),
		Customer: handler.NewCustomerHandler(customerService),
		Sweep:    handler.NewSweepHandler(overdueService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Background overdue sweep
	if cfg.Sweep.Interval > 0 {
		go runSweepLoop(overdueService, cfg.Sweep.Interval)
	}

	// Start server
	log.Printf("Starting %s on port %s", cfg.App.Name, cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// runSweepLoop periodically transitions past-due Sent invoices to Overdue.
func runSweepLoop(overdueService *service.OverdueService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		result, err := overdueService.Run(context.Background(), time.Now().UTC())
		if err != nil {
			log.Printf("Overdue sweep failed: %v", err)
			continue
		}
		log.Printf("Overdue sweep: %d candidates, %d transitioned, %d conflicts",
			result.Candidates, result.Transitioned, result.Conflicts)
	}
}
