package repository

import (
	"context"
	"time"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/google/uuid"
)

// SubscriptionRepository defines the interface for user subscription records
type SubscriptionRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.UserSubscription, error)
	Create(ctx context.Context, sub *entity.UserSubscription) error
	Update(ctx context.Context, sub *entity.UserSubscription) error
}

// UsageRepository defines the interface for usage counters. Counters are
// keyed by (user, period start); a new billing period gets a fresh zero row,
// which is how the monthly invoice counter resets.
type UsageRepository interface {
	GetForPeriod(ctx context.Context, userID uuid.UUID, periodStart time.Time) (*entity.UserUsage, error)
	// GetLatest returns the most recent usage row regardless of period, for
	// carrying lifetime totals into a new period.
	GetLatest(ctx context.Context, userID uuid.UUID) (*entity.UserUsage, error)
	Create(ctx context.Context, usage *entity.UserUsage) error
	IncrementInvoices(ctx context.Context, id uuid.UUID, delta int) error
	IncrementClients(ctx context.Context, id uuid.UUID, delta int) error
	IncrementRecurring(ctx context.Context, id uuid.UUID, delta int) error
}
