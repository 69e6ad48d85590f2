package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jumapay/billing-api/internal/config"
	domainRepo "github.com/jumapay/billing-api/internal/domain/repository"
	"github.com/jumapay/billing-api/internal/presentation/http/handler"
	"github.com/jumapay/billing-api/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Invoice  *handler.InvoiceHandler
	Payment  *handler.PaymentHandler
	Customer *handler.CustomerHandler
	Sweep    *handler.SweepHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
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
		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		v1.Use(rateLimiter.Middleware())

		idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		})

		invoices := v1.Group("/invoices")
		{
			invoices.POST("", idempotency, h.Invoice.Create)
			invoices.GET("", h.Invoice.List)
			invoices.GET("/:id", h.Invoice.Get)
			invoices.GET("/number/:number", h.Invoice.GetByNumber)
			invoices.POST("/:id/send", idempotency, h.Invoice.Send)
			invoices.POST("/:id/cancel", idempotency, h.Invoice.Cancel)
			invoices.DELETE("/:id", h.Invoice.Delete)
			invoices.GET("/:id/payments", h.Payment.ListByInvoice)
		}

		payments := v1.Group("/payments")
		{
			payments.POST("", idempotency, h.Payment.Record)
			payments.GET("/:id", h.Payment.Get)
		}

		customers := v1.Group("/customers")
		{
			customers.POST("", idempotency, h.Customer.Create)
			customers.GET("/:id", h.Customer.Get)
			customers.POST("/:id/deactivate", idempotency, h.Customer.Deactivate)
		}

		sweeps := v1.Group("/sweeps")
		{
			sweeps.POST("/overdue", h.Sweep.RunOverdue)
		}
	}

	return router
}
