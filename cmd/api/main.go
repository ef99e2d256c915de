package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/facturio/facturio-api/internal/application/service"
	"github.com/facturio/facturio-api/internal/config"
	"github.com/facturio/facturio-api/internal/infrastructure/ai"
	"github.com/facturio/facturio-api/internal/infrastructure/database"
	"github.com/facturio/facturio-api/internal/infrastructure/repository"
	"github.com/facturio/facturio-api/internal/presentation/http/handler"
	"github.com/facturio/facturio-api/internal/presentation/http/routes"
	"github.com/facturio/facturio-api/internal/scheduler"
	"github.com/facturio/facturio-api/pkg/utils"
	"github.com/gin-gonic/gin"
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

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	clientRepo := repository.NewClientRepository(db)
	productRepo := repository.NewProductRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	invoiceItemRepo := repository.NewInvoiceItemRepository(db)
	recurringRepo := repository.NewRecurringInvoiceRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	usageRepo := repository.NewUsageRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	billingService := service.NewBillingService(subscriptionRepo, usageRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	clientService := service.NewClientService(clientRepo, billingService)
	catalogService := service.NewCatalogService(productRepo, serviceRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, invoiceItemRepo, clientRepo, settingsRepo, billingService)
	recurringService := service.NewRecurringService(recurringRepo, invoiceRepo, clientRepo, settingsRepo, billingService)
	dashboardService := service.NewDashboardService(dashboardRepo)

	drafter := ai.NewDrafter(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	assistantService := service.NewAssistantService(
		drafter,
		clientRepo,
		clientService,
		invoiceService,
		catalogService,
		settingsService,
		billingService,
	)

	// Initialize the recurring invoice scheduler
	runner := scheduler.NewRunner(recurringService, cfg.Scheduler.RecurringCron)
	if cfg.Scheduler.Enabled {
		if err := runner.Start(); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
		defer runner.Stop()
	}

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Client:    handler.NewClientHandler(clientService),
		Catalog:   handler.NewCatalogHandler(catalogService),
		Document:  handler.NewDocumentHandler(invoiceService),
		Recurring: handler.NewRecurringHandler(recurringService, runner),
		Billing:   handler.NewBillingHandler(billingService),
		Assistant: handler.NewAssistantHandler(assistantService),
		Settings:  handler.NewSettingsHandler(settingsService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
		log.Printf("Environment: %s", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for an interrupt, then drain in-flight requests before the
	// deferred scheduler stop runs.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}
