package service

import (
	"context"
	"testing"

	"github.com/facturio/facturio-api/internal/domain/entity"
	infraRepo "github.com/facturio/facturio-api/internal/infrastructure/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the services against an in-memory SQLite database, using the
// real repositories so queries and the numbering index are exercised for real.
type testEnv struct {
	db        *gorm.DB
	billing   *BillingService
	clients   *ClientService
	catalog   *CatalogService
	settings  *SettingsService
	invoices  *InvoiceService
	recurring *RecurringService
	userID    uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.CompanySettings{},
		&entity.Client{},
		&entity.Product{},
		&entity.Service{},
		&entity.Invoice{},
		&entity.InvoiceItem{},
		&entity.RecurringInvoice{},
		&entity.RecurringInvoiceItem{},
		&entity.UserSubscription{},
		&entity.UserUsage{},
	))

	user := &entity.User{Name: "Jean Dupont", Email: "jean@example.com"}
	require.NoError(t, db.Create(user).Error)

	clientRepo := infraRepo.NewClientRepository(db)
	settingsRepo := infraRepo.NewSettingsRepository(db)
	invoiceRepo := infraRepo.NewInvoiceRepository(db)
	itemRepo := infraRepo.NewInvoiceItemRepository(db)
	recurringRepo := infraRepo.NewRecurringInvoiceRepository(db)

	billing := NewBillingService(infraRepo.NewSubscriptionRepository(db), infraRepo.NewUsageRepository(db))

	return &testEnv{
		db:        db,
		billing:   billing,
		clients:   NewClientService(clientRepo, billing),
		catalog:   NewCatalogService(infraRepo.NewProductRepository(db), infraRepo.NewServiceRepository(db)),
		settings:  NewSettingsService(settingsRepo),
		invoices:  NewInvoiceService(invoiceRepo, itemRepo, clientRepo, settingsRepo, billing),
		recurring: NewRecurringService(recurringRepo, invoiceRepo, clientRepo, settingsRepo, billing),
		userID:    user.ID,
	}
}

// seedClient inserts a client directly, bypassing the plan gate.
func (e *testEnv) seedClient(t *testing.T, name string) *entity.Client {
	t.Helper()
	client := &entity.Client{UserID: e.userID, Name: name}
	require.NoError(t, e.db.Create(client).Error)
	return client
}

// seedOtherUser inserts a second account for ownership checks.
func (e *testEnv) seedOtherUser(t *testing.T) uuid.UUID {
	t.Helper()
	user := &entity.User{Name: "Autre", Email: "autre@example.com"}
	require.NoError(t, e.db.Create(user).Error)
	return user.ID
}

func (e *testEnv) upgradeToPro(t *testing.T) {
	t.Helper()
	_, err := e.billing.ChangePlan(context.Background(), e.userID, entity.PlanPro)
	require.NoError(t, err)
}

func simpleLines() []LineItemInput {
	return []LineItemInput{
		{Description: "Development", Quantity: 2, UnitPrice: 400, VatRate: 20},
	}
}
