package service

import (
	"context"
	"testing"
	"time"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/facturio/facturio-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriptionRepo struct {
	subs map[uuid.UUID]*entity.UserSubscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: make(map[uuid.UUID]*entity.UserSubscription)}
}

func (r *fakeSubscriptionRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*entity.UserSubscription, error) {
	sub, ok := r.subs[userID]
	if !ok {
		return nil, nil
	}
	cp := *sub
	return &cp, nil
}

func (r *fakeSubscriptionRepo) Create(_ context.Context, sub *entity.UserSubscription) error {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	cp := *sub
	r.subs[sub.UserID] = &cp
	return nil
}

func (r *fakeSubscriptionRepo) Update(_ context.Context, sub *entity.UserSubscription) error {
	cp := *sub
	r.subs[sub.UserID] = &cp
	return nil
}

type fakeUsageRepo struct {
	rows []*entity.UserUsage
}

func (r *fakeUsageRepo) GetForPeriod(_ context.Context, userID uuid.UUID, periodStart time.Time) (*entity.UserUsage, error) {
	for _, row := range r.rows {
		if row.UserID == userID && row.PeriodStart.Equal(periodStart) {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUsageRepo) GetLatest(_ context.Context, userID uuid.UUID) (*entity.UserUsage, error) {
	var latest *entity.UserUsage
	for _, row := range r.rows {
		if row.UserID != userID {
			continue
		}
		if latest == nil || row.PeriodStart.After(latest.PeriodStart) {
			latest = row
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeUsageRepo) Create(_ context.Context, usage *entity.UserUsage) error {
	if usage.ID == uuid.Nil {
		usage.ID = uuid.New()
	}
	cp := *usage
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *fakeUsageRepo) increment(id uuid.UUID, apply func(*entity.UserUsage)) error {
	for _, row := range r.rows {
		if row.ID == id {
			apply(row)
			return nil
		}
	}
	return nil
}

func (r *fakeUsageRepo) IncrementInvoices(_ context.Context, id uuid.UUID, delta int) error {
	return r.increment(id, func(u *entity.UserUsage) { u.InvoicesCreatedPeriod += delta })
}

func (r *fakeUsageRepo) IncrementClients(_ context.Context, id uuid.UUID, delta int) error {
	return r.increment(id, func(u *entity.UserUsage) { u.ClientsCreatedTotal += delta })
}

func (r *fakeUsageRepo) IncrementRecurring(_ context.Context, id uuid.UUID, delta int) error {
	return r.increment(id, func(u *entity.UserUsage) { u.RecurringCreatedTotal += delta })
}

func newTestBillingService() (*BillingService, *fakeSubscriptionRepo, *fakeUsageRepo) {
	subs := newFakeSubscriptionRepo()
	usage := &fakeUsageRepo{}
	return NewBillingService(subs, usage), subs, usage
}

func TestBillingInitializesFreeSubscription(t *testing.T) {
	svc, _, _ := newTestBillingService()
	userID := uuid.New()

	info, err := svc.GetBillingInfo(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, entity.PlanFree, info.Subscription.PlanID)
	assert.Equal(t, enum.SubscriptionStatusActive, info.Subscription.Status)
	require.NotNil(t, info.Plan)
	assert.Equal(t, "Free", info.Plan.Name)
	assert.Equal(t, 0, info.Usage.InvoicesCreatedPeriod)
	assert.Len(t, info.AvailablePlans, 3)
}

func TestFreePlanInvoiceQuota(t *testing.T) {
	svc, _, _ := newTestBillingService()
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.CanCreateInvoice(ctx, userID))
		require.NoError(t, svc.RecordInvoicesCreated(ctx, userID, 1))
	}

	err := svc.CanCreateInvoice(ctx, userID)
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, 403, appErr.Code)
	assert.Contains(t, appErr.Message, "invoices")
}

func TestFreePlanClientQuota(t *testing.T) {
	svc, _, _ := newTestBillingService()
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.CanCreateClient(ctx, userID))
		require.NoError(t, svc.RecordClientCreated(ctx, userID))
	}

	err := svc.CanCreateClient(ctx, userID)
	require.Error(t, err)
	assert.Equal(t, 403, apperror.GetAppError(err).Code)
}

func TestFreePlanDeniesRecurring(t *testing.T) {
	svc, _, _ := newTestBillingService()
	userID := uuid.New()

	err := svc.CanCreateRecurringInvoice(context.Background(), userID)
	require.Error(t, err)
	assert.Equal(t, 403, apperror.GetAppError(err).Code)
}

func TestProPlanLimits(t *testing.T) {
	svc, _, _ := newTestBillingService()
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.ChangePlan(ctx, userID, entity.PlanPro)
	require.NoError(t, err)

	// Invoices and clients are unlimited on pro.
	for i := 0; i < 10; i++ {
		require.NoError(t, svc.CanCreateInvoice(ctx, userID))
		require.NoError(t, svc.RecordInvoicesCreated(ctx, userID, 1))
	}
	require.NoError(t, svc.CanCreateClient(ctx, userID))

	// Recurring templates cap at 5.
	for i := 0; i < 5; i++ {
		require.NoError(t, svc.CanCreateRecurringInvoice(ctx, userID))
		require.NoError(t, svc.RecordRecurringCreated(ctx, userID))
	}
	require.Error(t, svc.CanCreateRecurringInvoice(ctx, userID))
}

func TestUnknownPlanFailsClosed(t *testing.T) {
	svc, subs, _ := newTestBillingService()
	ctx := context.Background()
	userID := uuid.New()

	start := DateOnly(time.Now())
	require.NoError(t, subs.Create(ctx, &entity.UserSubscription{
		UserID:             userID,
		PlanID:             entity.PlanID("legacy-gold"),
		Status:             enum.SubscriptionStatusActive,
		CurrentPeriodStart: start,
		CurrentPeriodEnd:   addMonthsClamped(start, 1),
	}))

	assert.ErrorIs(t, svc.CanCreateInvoice(ctx, userID), apperror.ErrUnknownPlan)
	assert.ErrorIs(t, svc.CanCreateClient(ctx, userID), apperror.ErrUnknownPlan)
	assert.ErrorIs(t, svc.CanCreateRecurringInvoice(ctx, userID), apperror.ErrUnknownPlan)
	assert.ErrorIs(t, svc.RequireAIAccess(ctx, userID), apperror.ErrUnknownPlan)
}

func TestAIAccessByPlan(t *testing.T) {
	svc, _, _ := newTestBillingService()
	ctx := context.Background()
	userID := uuid.New()

	assert.ErrorIs(t, svc.RequireAIAccess(ctx, userID), apperror.ErrAINotIncluded)

	_, err := svc.ChangePlan(ctx, userID, entity.PlanPro)
	require.NoError(t, err)
	assert.NoError(t, svc.RequireAIAccess(ctx, userID))
}

func TestCancelAndResume(t *testing.T) {
	svc, _, _ := newTestBillingService()
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.CancelSubscription(ctx, userID)
	require.Error(t, err, "the free plan cannot be cancelled")

	_, err = svc.ChangePlan(ctx, userID, entity.PlanPro)
	require.NoError(t, err)

	sub, err := svc.CancelSubscription(ctx, userID)
	require.NoError(t, err)
	assert.True(t, sub.CancelAtPeriodEnd)
	assert.Equal(t, entity.PlanPro, sub.PlanID, "paid features stay until the period ends")

	sub, err = svc.ResumeSubscription(ctx, userID)
	require.NoError(t, err)
	assert.False(t, sub.CancelAtPeriodEnd)
}

func TestPeriodRollover(t *testing.T) {
	svc, subs, usage := newTestBillingService()
	ctx := context.Background()
	userID := uuid.New()

	// Subscription whose period lapsed two months ago, with a pending
	// cancellation and a maxed-out usage row.
	oldStart := addMonthsClamped(DateOnly(time.Now()), -3)
	oldEnd := addMonthsClamped(oldStart, 1)
	require.NoError(t, subs.Create(ctx, &entity.UserSubscription{
		UserID:             userID,
		PlanID:             entity.PlanPro,
		Status:             enum.SubscriptionStatusActive,
		CurrentPeriodStart: oldStart,
		CurrentPeriodEnd:   oldEnd,
		CancelAtPeriodEnd:  true,
	}))
	require.NoError(t, usage.Create(ctx, &entity.UserUsage{
		UserID:                userID,
		PeriodStart:           oldStart,
		PeriodEnd:             oldEnd,
		InvoicesCreatedPeriod: 42,
		ClientsCreatedTotal:   7,
		RecurringCreatedTotal: 2,
	}))

	info, err := svc.GetBillingInfo(ctx, userID)
	require.NoError(t, err)

	// The period rolled forward to cover today and the cancellation took
	// effect at the boundary.
	today := DateOnly(time.Now())
	assert.False(t, today.Before(info.Subscription.CurrentPeriodStart))
	assert.True(t, today.Before(info.Subscription.CurrentPeriodEnd))
	assert.Equal(t, entity.PlanFree, info.Subscription.PlanID)
	assert.False(t, info.Subscription.CancelAtPeriodEnd)

	// Invoice counts reset; lifetime counts carry over.
	assert.Equal(t, 0, info.Usage.InvoicesCreatedPeriod)
	assert.Equal(t, 7, info.Usage.ClientsCreatedTotal)
	assert.Equal(t, 2, info.Usage.RecurringCreatedTotal)
}
