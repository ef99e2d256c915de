package repository

import (
	"context"
	"errors"
	"time"

	"github.com/facturio/facturio-api/internal/domain/entity"
	domainRepo "github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) domainRepo.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.UserSubscription, error) {
	var sub entity.UserSubscription
	err := r.db.WithContext(ctx).First(&sub, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *entity.UserSubscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *entity.UserSubscription) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

type usageRepository struct {
	db *gorm.DB
}

// NewUsageRepository creates a new usage counter repository
func NewUsageRepository(db *gorm.DB) domainRepo.UsageRepository {
	return &usageRepository{db: db}
}

func (r *usageRepository) GetForPeriod(ctx context.Context, userID uuid.UUID, periodStart time.Time) (*entity.UserUsage, error) {
	var usage entity.UserUsage
	err := r.db.WithContext(ctx).
		First(&usage, "user_id = ? AND period_start = ?", userID, periodStart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &usage, nil
}

func (r *usageRepository) GetLatest(ctx context.Context, userID uuid.UUID) (*entity.UserUsage, error) {
	var usage entity.UserUsage
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("period_start DESC").
		First(&usage).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &usage, nil
}

func (r *usageRepository) Create(ctx context.Context, usage *entity.UserUsage) error {
	return r.db.WithContext(ctx).Create(usage).Error
}

func (r *usageRepository) IncrementInvoices(ctx context.Context, id uuid.UUID, delta int) error {
	return r.increment(ctx, id, "invoices_created_period", delta)
}

func (r *usageRepository) IncrementClients(ctx context.Context, id uuid.UUID, delta int) error {
	return r.increment(ctx, id, "clients_created_total", delta)
}

func (r *usageRepository) IncrementRecurring(ctx context.Context, id uuid.UUID, delta int) error {
	return r.increment(ctx, id, "recurring_created_total", delta)
}

// increment applies the delta in SQL so concurrent creations never lose
// counts to a read-modify-write race.
func (r *usageRepository) increment(ctx context.Context, id uuid.UUID, column string, delta int) error {
	return r.db.WithContext(ctx).Model(&entity.UserUsage{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}
