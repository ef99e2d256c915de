package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/facturio/facturio-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRecurringInvoiceGatedByPlan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client := env.seedClient(t, "ACME Corp")

	_, err := env.recurring.CreateRecurringInvoice(ctx, &CreateRecurringInvoiceInput{
		UserID:    env.userID,
		ClientID:  client.ID,
		Label:     "Hosting",
		Frequency: enum.FrequencyMonthly,
		StartDate: time.Now(),
		Items:     simpleLines(),
	})
	require.Error(t, err, "the free plan has no recurring allowance")
	assert.Equal(t, http.StatusForbidden, apperror.GetAppError(err).Code)
}

func TestCreateRecurringInvoiceSchedulesFirstRun(t *testing.T) {
	env := newTestEnv(t)
	env.upgradeToPro(t)
	ctx := context.Background()
	client := env.seedClient(t, "ACME Corp")
	start := date(2026, time.September, 1)

	rec, err := env.recurring.CreateRecurringInvoice(ctx, &CreateRecurringInvoiceInput{
		UserID:    env.userID,
		ClientID:  client.ID,
		Label:     "Hosting",
		Frequency: enum.FrequencyMonthly,
		StartDate: start,
		Items:     simpleLines(),
	})
	require.NoError(t, err)

	assert.True(t, rec.IsActive)
	assert.Equal(t, start, rec.NextRunDate, "the first run lands on the start date itself")
	assert.Nil(t, rec.LastRunDate)
	require.Len(t, rec.Items, 1)
}

func TestCreateRecurringInvoiceRejectsEndBeforeStart(t *testing.T) {
	env := newTestEnv(t)
	env.upgradeToPro(t)
	ctx := context.Background()
	client := env.seedClient(t, "ACME Corp")
	end := date(2026, time.January, 1)

	_, err := env.recurring.CreateRecurringInvoice(ctx, &CreateRecurringInvoiceInput{
		UserID:    env.userID,
		ClientID:  client.ID,
		Label:     "Hosting",
		Frequency: enum.FrequencyMonthly,
		StartDate: date(2026, time.February, 1),
		EndDate:   &end,
		Items:     simpleLines(),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestProcessDueGeneratesAndAdvances(t *testing.T) {
	env := newTestEnv(t)
	env.upgradeToPro(t)
	ctx := context.Background()
	client := env.seedClient(t, "ACME Corp")
	today := DateOnly(time.Now())

	rec, err := env.recurring.CreateRecurringInvoice(ctx, &CreateRecurringInvoiceInput{
		UserID:    env.userID,
		ClientID:  client.ID,
		Label:     "Hosting",
		Frequency: enum.FrequencyMonthly,
		StartDate: today,
		Items:     simpleLines(),
	})
	require.NoError(t, err)

	report, err := env.recurring.ProcessDue(ctx, env.userID, today)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Generated)
	assert.Equal(t, 0, report.Deactivated)
	assert.Empty(t, report.Failures)

	// The generated invoice is persisted with its items and provenance.
	var invoice entity.Invoice
	require.NoError(t, env.db.Preload("Items").
		Where("source_recurring_invoice_id = ?", rec.ID).First(&invoice).Error)
	assert.Equal(t, enum.DocumentTypeInvoice, invoice.Type)
	assert.Equal(t, enum.InvoiceStatusDraft, invoice.Status)
	assert.Equal(t, 1, invoice.Sequence)
	require.Len(t, invoice.Items, 1)
	assert.Equal(t, 960.0, invoice.Total)

	// The schedule moved one period forward.
	reloaded, err := env.recurring.GetRecurringInvoice(ctx, env.userID, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, NextOccurrence(today, enum.FrequencyMonthly), DateOnly(reloaded.NextRunDate))
	require.NotNil(t, reloaded.LastRunDate)

	// Generated invoices count against the plan quota.
	info, err := env.billing.GetBillingInfo(ctx, env.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Usage.InvoicesCreatedPeriod)

	// A second pass on the same day finds nothing due.
	second, err := env.recurring.ProcessDue(ctx, env.userID, today)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Generated)
	assert.Equal(t, 1, second.Skipped)
}

func TestProcessDueDeactivatesExpiredTemplates(t *testing.T) {
	env := newTestEnv(t)
	env.upgradeToPro(t)
	ctx := context.Background()
	client := env.seedClient(t, "ACME Corp")
	today := DateOnly(time.Now())
	start := addMonthsClamped(today, -2)
	end := addMonthsClamped(today, -1)

	rec, err := env.recurring.CreateRecurringInvoice(ctx, &CreateRecurringInvoiceInput{
		UserID:    env.userID,
		ClientID:  client.ID,
		Label:     "Finished retainer",
		Frequency: enum.FrequencyMonthly,
		StartDate: start,
		EndDate:   &end,
		Items:     simpleLines(),
	})
	require.NoError(t, err)

	report, err := env.recurring.ProcessDue(ctx, env.userID, today)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Generated, "expiry wins over a pending due date")
	assert.Equal(t, 1, report.Deactivated)

	reloaded, err := env.recurring.GetRecurringInvoice(ctx, env.userID, rec.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)
}

func TestUpdateRecurringInvoicePreservesSchedule(t *testing.T) {
	env := newTestEnv(t)
	env.upgradeToPro(t)
	ctx := context.Background()
	client := env.seedClient(t, "ACME Corp")
	start := date(2026, time.January, 1)

	rec, err := env.recurring.CreateRecurringInvoice(ctx, &CreateRecurringInvoiceInput{
		UserID:    env.userID,
		ClientID:  client.ID,
		Label:     "Hosting",
		Frequency: enum.FrequencyMonthly,
		StartDate: start,
		Items:     simpleLines(),
	})
	require.NoError(t, err)

	label := "Hosting & support"
	updated, err := env.recurring.UpdateRecurringInvoice(ctx, &UpdateRecurringInvoiceInput{
		UserID: env.userID,
		ID:     rec.ID,
		Label:  &label,
		Items: []LineItemInput{
			{Description: "Hosting", Quantity: 1, UnitPrice: 50, VatRate: 20},
			{Description: "Support", Quantity: 2, UnitPrice: 80, VatRate: 20},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, label, updated.Label)
	assert.Equal(t, start, DateOnly(updated.NextRunDate), "editing lines must not move the schedule")
	assert.Len(t, updated.Items, 2)

	// Pushing the start date past the next run drags the schedule with it.
	newStart := date(2026, time.March, 1)
	updated, err = env.recurring.UpdateRecurringInvoice(ctx, &UpdateRecurringInvoiceInput{
		UserID:    env.userID,
		ID:        rec.ID,
		StartDate: &newStart,
	})
	require.NoError(t, err)
	assert.Equal(t, newStart, DateOnly(updated.NextRunDate))
}

func TestSetRecurringInvoiceActive(t *testing.T) {
	env := newTestEnv(t)
	env.upgradeToPro(t)
	ctx := context.Background()
	client := env.seedClient(t, "ACME Corp")
	today := DateOnly(time.Now())

	rec, err := env.recurring.CreateRecurringInvoice(ctx, &CreateRecurringInvoiceInput{
		UserID:    env.userID,
		ClientID:  client.ID,
		Label:     "Hosting",
		Frequency: enum.FrequencyMonthly,
		StartDate: today,
		Items:     simpleLines(),
	})
	require.NoError(t, err)

	paused, err := env.recurring.SetRecurringInvoiceActive(ctx, env.userID, rec.ID, false)
	require.NoError(t, err)
	assert.False(t, paused.IsActive)

	// A paused template is skipped even when due.
	report, err := env.recurring.ProcessDue(ctx, env.userID, today)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Generated)
	assert.Equal(t, 1, report.Skipped)

	resumed, err := env.recurring.SetRecurringInvoiceActive(ctx, env.userID, rec.ID, true)
	require.NoError(t, err)
	assert.True(t, resumed.IsActive)

	report, err = env.recurring.ProcessDue(ctx, env.userID, today)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Generated, "reactivation lets the next pass catch up")
}

func TestDeleteRecurringInvoiceKeepsGeneratedInvoices(t *testing.T) {
	env := newTestEnv(t)
	env.upgradeToPro(t)
	ctx := context.Background()
	client := env.seedClient(t, "ACME Corp")
	today := DateOnly(time.Now())

	rec, err := env.recurring.CreateRecurringInvoice(ctx, &CreateRecurringInvoiceInput{
		UserID:    env.userID,
		ClientID:  client.ID,
		Label:     "Hosting",
		Frequency: enum.FrequencyMonthly,
		StartDate: today,
		Items:     simpleLines(),
	})
	require.NoError(t, err)

	_, err = env.recurring.ProcessDue(ctx, env.userID, today)
	require.NoError(t, err)

	require.NoError(t, env.recurring.DeleteRecurringInvoice(ctx, env.userID, rec.ID))

	var count int64
	require.NoError(t, env.db.Model(&entity.Invoice{}).
		Where("source_recurring_invoice_id = ?", rec.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "generated invoices survive template deletion")
}
