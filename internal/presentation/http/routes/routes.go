package routes

import (
	"time"

	"github.com/facturio/facturio-api/internal/config"
	domainRepo "github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/facturio/facturio-api/internal/presentation/http/handler"
	"github.com/facturio/facturio-api/internal/presentation/http/middleware"
	"github.com/facturio/facturio-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Client    *handler.ClientHandler
	Catalog   *handler.CatalogHandler
	Document  *handler.DocumentHandler
	Recurring *handler.RecurringHandler
	Billing   *handler.BillingHandler
	Assistant *handler.AssistantHandler
	Settings  *handler.SettingsHandler
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
	// Profile routes
	protected.GET("/profile", h.Auth.Me)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Settings
	protected.GET("/settings", h.Settings.Get)
	protected.PUT("/settings", h.Settings.Update)

	// Dashboard
	protected.GET("/dashboard", h.Dashboard.Stats)

	// Clients
	registerClientRoutes(protected, h)

	// Catalog
	registerCatalogRoutes(protected, h)

	// Documents (invoices and quotes)
	registerDocumentRoutes(protected, h, deps)

	// Recurring invoices
	registerRecurringRoutes(protected, h)

	// Billing
	registerBillingRoutes(protected, h)

	// AI assistant
	registerAssistantRoutes(protected, h)
}

func registerClientRoutes(protected *gin.RouterGroup, h *Handlers) {
	clients := protected.Group("/clients")
	{
		clients.GET("", h.Client.List)
		clients.POST("", h.Client.Create)
		clients.GET("/:id", h.Client.Get)
		clients.PUT("/:id", h.Client.Update)
		clients.DELETE("/:id", h.Client.Delete)
	}
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Catalog.ListProducts)
		products.POST("", h.Catalog.CreateProduct)
		products.GET("/:id", h.Catalog.GetProduct)
		products.PUT("/:id", h.Catalog.UpdateProduct)
		products.DELETE("/:id", h.Catalog.DeleteProduct)
	}

	services := protected.Group("/services")
	{
		services.GET("", h.Catalog.ListServices)
		services.POST("", h.Catalog.CreateService)
		services.GET("/:id", h.Catalog.GetService)
		services.PUT("/:id", h.Catalog.UpdateService)
		services.DELETE("/:id", h.Catalog.DeleteService)
	}
}

func registerDocumentRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	documents := protected.Group("/documents")
	{
		documents.GET("", h.Document.List)
		// Document creation uses idempotency middleware to prevent duplicates
		documents.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Document.Create)
		documents.GET("/:id", h.Document.Get)
		documents.PUT("/:id", h.Document.Update)
		documents.PUT("/:id/status", h.Document.UpdateStatus)
		documents.DELETE("/:id", h.Document.Delete)
		documents.POST("/:id/convert", h.Document.Convert)
	}
}

func registerRecurringRoutes(protected *gin.RouterGroup, h *Handlers) {
	recurring := protected.Group("/recurring-invoices")
	{
		recurring.GET("", h.Recurring.List)
		recurring.POST("", h.Recurring.Create)
		recurring.GET("/:id", h.Recurring.Get)
		recurring.PUT("/:id", h.Recurring.Update)
		recurring.PUT("/:id/active", h.Recurring.SetActive)
		recurring.DELETE("/:id", h.Recurring.Delete)
		recurring.POST("/run", h.Recurring.RunNow)
	}
}

func registerBillingRoutes(protected *gin.RouterGroup, h *Handlers) {
	billing := protected.Group("/billing")
	{
		billing.GET("", h.Billing.GetInfo)
		billing.POST("/plan", h.Billing.ChangePlan)
		billing.POST("/cancel", h.Billing.Cancel)
		billing.POST("/resume", h.Billing.Resume)
	}
}

func registerAssistantRoutes(protected *gin.RouterGroup, h *Handlers) {
	assistant := protected.Group("/assistant")
	{
		assistant.POST("/draft", h.Assistant.Generate)
		assistant.POST("/accept", h.Assistant.Accept)
	}
}
