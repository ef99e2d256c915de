package service

import (
	"context"
	"time"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/facturio/facturio-api/pkg/apperror"
	"github.com/google/uuid"
)

// BillingService owns subscriptions, usage counters and the plan gatekeeper.
// Every quota decision fails closed: an unknown plan denies, a missing
// subscription falls back to the free tier, and counters only move after the
// gated resource was actually created.
type BillingService struct {
	subscriptionRepo repository.SubscriptionRepository
	usageRepo        repository.UsageRepository
}

// NewBillingService creates a new billing service
func NewBillingService(subscriptionRepo repository.SubscriptionRepository, usageRepo repository.UsageRepository) *BillingService {
	return &BillingService{
		subscriptionRepo: subscriptionRepo,
		usageRepo:        usageRepo,
	}
}

// BillingInfo aggregates everything the billing screen needs in one response.
type BillingInfo struct {
	Subscription   *entity.UserSubscription  `json:"subscription"`
	Plan           *entity.SubscriptionPlan  `json:"plan"`
	Usage          *entity.UserUsage         `json:"usage"`
	AvailablePlans []entity.SubscriptionPlan `json:"available_plans"`
}

// GetBillingInfo returns the user's subscription, resolved plan and current
// period usage, initializing both records on first access.
func (s *BillingService) GetBillingInfo(ctx context.Context, userID uuid.UUID) (*BillingInfo, error) {
	sub, usage, err := s.resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &BillingInfo{
		Subscription:   sub,
		Plan:           entity.PlanByID(sub.PlanID),
		Usage:          usage,
		AvailablePlans: entity.AvailablePlans(),
	}, nil
}

// ChangePlan switches the user to another tier immediately. There is no
// payment capture here; checkout is simulated and the new limits apply to the
// already-running billing period.
func (s *BillingService) ChangePlan(ctx context.Context, userID uuid.UUID, planID entity.PlanID) (*entity.UserSubscription, error) {
	if entity.PlanByID(planID) == nil {
		return nil, apperror.NewBadRequestError("Unknown plan: " + string(planID))
	}

	sub, _, err := s.resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	sub.PlanID = planID
	sub.Status = enum.SubscriptionStatusActive
	sub.CancelAtPeriodEnd = false
	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// CancelSubscription flags the subscription to drop back to the free tier
// when the current period ends. Paid features stay available until then.
func (s *BillingService) CancelSubscription(ctx context.Context, userID uuid.UUID) (*entity.UserSubscription, error) {
	sub, _, err := s.resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub.PlanID == entity.PlanFree {
		return nil, apperror.NewBadRequestError("The free plan cannot be cancelled")
	}

	sub.CancelAtPeriodEnd = true
	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ResumeSubscription clears a pending cancellation before it takes effect.
func (s *BillingService) ResumeSubscription(ctx context.Context, userID uuid.UUID) (*entity.UserSubscription, error) {
	sub, _, err := s.resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !sub.CancelAtPeriodEnd {
		return sub, nil
	}

	sub.CancelAtPeriodEnd = false
	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// CanCreateInvoice checks the per-period invoice quota. Quotes are never
// gated; callers only consult this for documents of type invoice.
func (s *BillingService) CanCreateInvoice(ctx context.Context, userID uuid.UUID) error {
	sub, usage, err := s.resolve(ctx, userID)
	if err != nil {
		return err
	}
	plan := entity.PlanByID(sub.PlanID)
	if plan == nil {
		return apperror.ErrUnknownPlan
	}
	if !withinLimit(usage.InvoicesCreatedPeriod, plan.Limits.MaxInvoicesPerMonth) {
		return apperror.NewPlanLimitError("invoices")
	}
	return nil
}

// CanCreateClient checks the lifetime client quota.
func (s *BillingService) CanCreateClient(ctx context.Context, userID uuid.UUID) error {
	sub, usage, err := s.resolve(ctx, userID)
	if err != nil {
		return err
	}
	plan := entity.PlanByID(sub.PlanID)
	if plan == nil {
		return apperror.ErrUnknownPlan
	}
	if !withinLimit(usage.ClientsCreatedTotal, plan.Limits.MaxClients) {
		return apperror.NewPlanLimitError("clients")
	}
	return nil
}

// CanCreateRecurringInvoice checks the recurring template quota. The free
// tier's limit of zero denies the feature outright.
func (s *BillingService) CanCreateRecurringInvoice(ctx context.Context, userID uuid.UUID) error {
	sub, usage, err := s.resolve(ctx, userID)
	if err != nil {
		return err
	}
	plan := entity.PlanByID(sub.PlanID)
	if plan == nil {
		return apperror.ErrUnknownPlan
	}
	if !withinLimit(usage.RecurringCreatedTotal, plan.Limits.MaxRecurring) {
		return apperror.NewPlanLimitError("recurring invoices")
	}
	return nil
}

// RequireAIAccess denies users whose plan does not include the assistant.
func (s *BillingService) RequireAIAccess(ctx context.Context, userID uuid.UUID) error {
	sub, _, err := s.resolve(ctx, userID)
	if err != nil {
		return err
	}
	plan := entity.PlanByID(sub.PlanID)
	if plan == nil {
		return apperror.ErrUnknownPlan
	}
	if !plan.Limits.AIAssistantIncluded {
		return apperror.ErrAINotIncluded
	}
	return nil
}

// RecordInvoicesCreated bumps the period invoice counter after n invoices
// were successfully persisted.
func (s *BillingService) RecordInvoicesCreated(ctx context.Context, userID uuid.UUID, n int) error {
	if n <= 0 {
		return nil
	}
	_, usage, err := s.resolve(ctx, userID)
	if err != nil {
		return err
	}
	return s.usageRepo.IncrementInvoices(ctx, usage.ID, n)
}

// RecordClientCreated bumps the lifetime client counter.
func (s *BillingService) RecordClientCreated(ctx context.Context, userID uuid.UUID) error {
	_, usage, err := s.resolve(ctx, userID)
	if err != nil {
		return err
	}
	return s.usageRepo.IncrementClients(ctx, usage.ID, 1)
}

// RecordRecurringCreated bumps the lifetime recurring template counter.
func (s *BillingService) RecordRecurringCreated(ctx context.Context, userID uuid.UUID) error {
	_, usage, err := s.resolve(ctx, userID)
	if err != nil {
		return err
	}
	return s.usageRepo.IncrementRecurring(ctx, usage.ID, 1)
}

// withinLimit reports whether one more creation fits under the limit. A nil
// limit means unlimited.
func withinLimit(used int, limit *int) bool {
	if limit == nil {
		return true
	}
	return used < *limit
}

// resolve loads the user's subscription and the usage row for its current
// period, creating either on demand and rolling the period forward when it
// has lapsed.
func (s *BillingService) resolve(ctx context.Context, userID uuid.UUID) (*entity.UserSubscription, *entity.UserUsage, error) {
	sub, err := s.getOrInitSubscription(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	usage, err := s.getOrInitUsage(ctx, userID, sub)
	if err != nil {
		return nil, nil, err
	}
	return sub, usage, nil
}

func (s *BillingService) getOrInitSubscription(ctx context.Context, userID uuid.UUID) (*entity.UserSubscription, error) {
	sub, err := s.subscriptionRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		start := DateOnly(time.Now())
		sub = &entity.UserSubscription{
			UserID:             userID,
			PlanID:             entity.PlanFree,
			Status:             enum.SubscriptionStatusActive,
			CurrentPeriodStart: start,
			CurrentPeriodEnd:   addMonthsClamped(start, 1),
		}
		if err := s.subscriptionRepo.Create(ctx, sub); err != nil {
			return nil, err
		}
		return sub, nil
	}

	return s.rollPeriod(ctx, sub)
}

// rollPeriod advances a lapsed billing period and applies a pending
// cancellation at the boundary. Looping covers users coming back after
// several idle months.
func (s *BillingService) rollPeriod(ctx context.Context, sub *entity.UserSubscription) (*entity.UserSubscription, error) {
	today := DateOnly(time.Now())
	if today.Before(DateOnly(sub.CurrentPeriodEnd)) {
		return sub, nil
	}

	for !today.Before(DateOnly(sub.CurrentPeriodEnd)) {
		sub.CurrentPeriodStart = DateOnly(sub.CurrentPeriodEnd)
		sub.CurrentPeriodEnd = addMonthsClamped(sub.CurrentPeriodStart, 1)
	}
	if sub.CancelAtPeriodEnd {
		sub.PlanID = entity.PlanFree
		sub.Status = enum.SubscriptionStatusActive
		sub.CancelAtPeriodEnd = false
	}
	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *BillingService) getOrInitUsage(ctx context.Context, userID uuid.UUID, sub *entity.UserSubscription) (*entity.UserUsage, error) {
	usage, err := s.usageRepo.GetForPeriod(ctx, userID, sub.CurrentPeriodStart)
	if err != nil {
		return nil, err
	}
	if usage != nil {
		return usage, nil
	}

	// Fresh period: invoice counts restart at zero, lifetime counts carry
	// over from the newest row of any previous period.
	usage = &entity.UserUsage{
		UserID:      userID,
		PeriodStart: sub.CurrentPeriodStart,
		PeriodEnd:   sub.CurrentPeriodEnd,
	}
	prev, err := s.usageRepo.GetLatest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prev != nil {
		usage.ClientsCreatedTotal = prev.ClientsCreatedTotal
		usage.RecurringCreatedTotal = prev.RecurringCreatedTotal
	}

	if err := s.usageRepo.Create(ctx, usage); err != nil {
		return nil, err
	}
	return usage, nil
}
