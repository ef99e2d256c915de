package service

import (
	"testing"
	"time"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/facturio/facturio-api/pkg/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNumberFor(base int) func(i int) (string, int) {
	return func(i int) (string, int) {
		seq := base + i
		return utils.FormatDocumentNumber("INV", 2024, seq), seq
	}
}

func makeTemplate(nextRun time.Time) entity.RecurringInvoice {
	productID := uuid.New()
	return entity.RecurringInvoice{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		ClientID:    uuid.New(),
		Label:       "Hosting",
		Frequency:   enum.FrequencyMonthly,
		StartDate:   nextRun,
		NextRunDate: nextRun,
		IsActive:    true,
		Items: []entity.RecurringInvoiceItem{
			{ID: uuid.New(), Description: "Monthly subscription", Quantity: 1, UnitPrice: 50, VatRate: 20, ProductID: &productID},
		},
	}
}

func TestPlanRecurringRunGeneratesDueTemplate(t *testing.T) {
	today := date(2024, time.January, 1)
	rec := makeTemplate(today)

	plan := PlanRecurringRun(today, []entity.RecurringInvoice{rec}, true, testNumberFor(1))

	require.Len(t, plan.Outcomes, 1)
	outcome := plan.Outcomes[0]
	assert.Equal(t, OutcomeGenerated, outcome.Kind)
	assert.Equal(t, 1, plan.GeneratedCount())

	invoice := outcome.Invoice
	require.NotNil(t, invoice)
	assert.Equal(t, enum.DocumentTypeInvoice, invoice.Type)
	assert.Equal(t, enum.InvoiceStatusDraft, invoice.Status)
	assert.Equal(t, rec.UserID, invoice.UserID)
	assert.Equal(t, rec.ClientID, invoice.ClientID)
	assert.Equal(t, today, invoice.Date)
	assert.Equal(t, 1, invoice.Sequence)
	assert.Equal(t, 50.0, invoice.Subtotal)
	assert.Equal(t, 10.0, invoice.TaxAmount)
	assert.Equal(t, 60.0, invoice.Total)
	require.NotNil(t, invoice.SourceRecurringInvoiceID)
	assert.Equal(t, rec.ID, *invoice.SourceRecurringInvoiceID)
	require.NotNil(t, invoice.DueDate)
	assert.Equal(t, date(2024, time.February, 1), *invoice.DueDate)

	// Schedule advances one period from the previous next run date.
	require.NotNil(t, outcome.Updated)
	assert.Equal(t, date(2024, time.February, 1), outcome.Updated.NextRunDate)
	require.NotNil(t, outcome.Updated.LastRunDate)
	assert.Equal(t, today, *outcome.Updated.LastRunDate)
	assert.True(t, outcome.Updated.IsActive)
}

func TestPlanRecurringRunClonesItems(t *testing.T) {
	today := date(2024, time.January, 1)
	rec := makeTemplate(today)

	plan := PlanRecurringRun(today, []entity.RecurringInvoice{rec}, true, testNumberFor(1))

	require.Len(t, plan.Outcomes, 1)
	invoice := plan.Outcomes[0].Invoice
	require.Len(t, invoice.Items, 1)

	item := invoice.Items[0]
	assert.NotEqual(t, rec.Items[0].ID, item.ID, "generated lines must get fresh IDs")
	assert.Equal(t, invoice.ID, item.InvoiceID)
	assert.Equal(t, rec.Items[0].Description, item.Description)
	require.NotNil(t, item.ProductID)
	assert.Equal(t, *rec.Items[0].ProductID, *item.ProductID)
	assert.NotSame(t, rec.Items[0].ProductID, item.ProductID)
}

func TestPlanRecurringRunSkipsInactive(t *testing.T) {
	today := date(2024, time.January, 1)
	rec := makeTemplate(today)
	rec.IsActive = false

	plan := PlanRecurringRun(today, []entity.RecurringInvoice{rec}, true, testNumberFor(1))

	require.Len(t, plan.Outcomes, 1)
	assert.Equal(t, OutcomeInactive, plan.Outcomes[0].Kind)
	assert.Nil(t, plan.Outcomes[0].Invoice)
	assert.Equal(t, 0, plan.GeneratedCount())
}

func TestPlanRecurringRunSkipsNotDue(t *testing.T) {
	today := date(2024, time.January, 1)
	rec := makeTemplate(date(2024, time.January, 2))

	plan := PlanRecurringRun(today, []entity.RecurringInvoice{rec}, true, testNumberFor(1))

	require.Len(t, plan.Outcomes, 1)
	assert.Equal(t, OutcomeNotDue, plan.Outcomes[0].Kind)
}

func TestPlanRecurringRunExpiryWinsOverGeneration(t *testing.T) {
	today := date(2024, time.March, 1)
	rec := makeTemplate(date(2024, time.February, 1)) // overdue
	end := date(2024, time.February, 15)
	rec.EndDate = &end

	plan := PlanRecurringRun(today, []entity.RecurringInvoice{rec}, true, testNumberFor(1))

	require.Len(t, plan.Outcomes, 1)
	outcome := plan.Outcomes[0]
	assert.Equal(t, OutcomeDeactivated, outcome.Kind)
	assert.Nil(t, outcome.Invoice, "an expired template must not generate, even when due")
	require.NotNil(t, outcome.Updated)
	assert.False(t, outcome.Updated.IsActive)
}

func TestPlanRecurringRunEndDateTodayStillGenerates(t *testing.T) {
	today := date(2024, time.February, 15)
	rec := makeTemplate(today)
	end := today // end date is inclusive
	rec.EndDate = &end

	plan := PlanRecurringRun(today, []entity.RecurringInvoice{rec}, true, testNumberFor(1))

	require.Len(t, plan.Outcomes, 1)
	assert.Equal(t, OutcomeGenerated, plan.Outcomes[0].Kind)
}

func TestPlanRecurringRunSingleInvoicePerPass(t *testing.T) {
	// Template three months overdue: one pass generates exactly one invoice
	// and advances the schedule one period.
	today := date(2024, time.April, 10)
	rec := makeTemplate(date(2024, time.January, 5))

	plan := PlanRecurringRun(today, []entity.RecurringInvoice{rec}, true, testNumberFor(1))

	require.Equal(t, 1, plan.GeneratedCount())
	outcome := plan.Outcomes[0]
	assert.Equal(t, date(2024, time.February, 5), outcome.Updated.NextRunDate,
		"schedule advances from the previous next run date, not from today")

	// The next pass on the same day catches up one more period.
	second := PlanRecurringRun(today, []entity.RecurringInvoice{*outcome.Updated}, true, testNumberFor(2))
	require.Equal(t, 1, second.GeneratedCount())
	assert.Equal(t, date(2024, time.March, 5), second.Outcomes[0].Updated.NextRunDate)
}

func TestPlanRecurringRunNumbersContiguously(t *testing.T) {
	today := date(2024, time.January, 1)
	recs := []entity.RecurringInvoice{
		makeTemplate(today),
		{ID: uuid.New(), Label: "Paused", IsActive: false},
		makeTemplate(today),
	}

	plan := PlanRecurringRun(today, recs, true, testNumberFor(5))

	require.Equal(t, 2, plan.GeneratedCount())
	assert.Equal(t, 5, plan.Outcomes[0].Invoice.Sequence)
	assert.Equal(t, 6, plan.Outcomes[2].Invoice.Sequence)
}

func TestPlanRecurringRunNonVatCompany(t *testing.T) {
	today := date(2024, time.January, 1)
	rec := makeTemplate(today)

	plan := PlanRecurringRun(today, []entity.RecurringInvoice{rec}, false, testNumberFor(1))

	invoice := plan.Outcomes[0].Invoice
	require.NotNil(t, invoice)
	assert.Equal(t, 50.0, invoice.Subtotal)
	assert.Equal(t, 0.0, invoice.TaxAmount)
	assert.Equal(t, 50.0, invoice.Total)
}
