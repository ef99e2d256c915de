package service

import (
	"fmt"
	"time"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/google/uuid"
)

// RunOutcomeKind classifies what one engine pass decided for one template.
type RunOutcomeKind string

const (
	// OutcomeGenerated means one invoice was materialized and the schedule advanced.
	OutcomeGenerated RunOutcomeKind = "GENERATED"
	// OutcomeDeactivated means the template passed its end date and was switched off.
	OutcomeDeactivated RunOutcomeKind = "DEACTIVATED"
	// OutcomeInactive means the template is switched off and was left untouched.
	OutcomeInactive RunOutcomeKind = "INACTIVE"
	// OutcomeNotDue means the next run date is still in the future.
	OutcomeNotDue RunOutcomeKind = "NOT_DUE"
)

// RecurringRunOutcome is the planned result for a single template. Invoice
// and Updated are only set for kinds that change state; both are fresh
// values, never aliases into the input slice.
type RecurringRunOutcome struct {
	RecurringInvoiceID uuid.UUID                `json:"recurring_invoice_id"`
	Label              string                   `json:"label"`
	Kind               RunOutcomeKind           `json:"kind"`
	Invoice            *entity.Invoice          `json:"invoice,omitempty"`
	Updated            *entity.RecurringInvoice `json:"-"`
}

// RecurringRunPlan is the in-memory result of one engine pass. Nothing is
// persisted while planning; the service commits outcome by outcome
// afterwards so one template's failure cannot poison the rest of the batch.
type RecurringRunPlan struct {
	Today    time.Time
	Outcomes []RecurringRunOutcome
}

// GeneratedCount returns how many invoices the plan materializes.
func (p *RecurringRunPlan) GeneratedCount() int {
	n := 0
	for _, o := range p.Outcomes {
		if o.Kind == OutcomeGenerated {
			n++
		}
	}
	return n
}

// PlanRecurringRun computes one engine pass over a user's recurring
// templates, with no side effects. Per template, in priority order:
//
//  1. inactive templates pass through untouched,
//  2. templates past their end date are deactivated, even if due,
//  3. templates not yet due pass through untouched,
//  4. otherwise exactly one invoice is materialized, no matter how many
//     periods have elapsed since the last run, and the next run date is
//     advanced one period from the previous next run date (not from today).
//
// Re-running for the same day cannot double-generate: the first run advanced
// the persisted next run date past today.
//
// numberFor yields the document number and sequence for the i-th generated
// invoice; the caller hands out a contiguous range so numbers are unique
// within the batch.
func PlanRecurringRun(today time.Time, recs []entity.RecurringInvoice, isVatSubject bool, numberFor func(i int) (string, int)) *RecurringRunPlan {
	today = DateOnly(today)
	plan := &RecurringRunPlan{
		Today:    today,
		Outcomes: make([]RecurringRunOutcome, 0, len(recs)),
	}

	generated := 0
	for _, rec := range recs {
		outcome := RecurringRunOutcome{
			RecurringInvoiceID: rec.ID,
			Label:              rec.Label,
		}

		switch {
		case !rec.IsActive:
			outcome.Kind = OutcomeInactive

		case rec.EndDate != nil && DateOnly(*rec.EndDate).Before(today):
			// Expiry wins over generation even when the template is due.
			updated := rec
			updated.IsActive = false
			outcome.Kind = OutcomeDeactivated
			outcome.Updated = &updated

		case DateOnly(rec.NextRunDate).After(today):
			outcome.Kind = OutcomeNotDue

		default:
			number, seq := numberFor(generated)
			generated++

			invoice := materializeInvoice(today, &rec, isVatSubject, number, seq)

			updated := rec
			lastRun := today
			updated.LastRunDate = &lastRun
			updated.NextRunDate = NextOccurrence(rec.NextRunDate, rec.Frequency)
			updated.Items = nil

			outcome.Kind = OutcomeGenerated
			outcome.Invoice = invoice
			outcome.Updated = &updated
		}

		plan.Outcomes = append(plan.Outcomes, outcome)
	}

	return plan
}

// materializeInvoice builds a draft invoice from a due template. Template
// items are cloned with fresh IDs so later edits to either side stay
// independent.
func materializeInvoice(today time.Time, rec *entity.RecurringInvoice, isVatSubject bool, number string, seq int) *entity.Invoice {
	invoiceID := uuid.New()

	items := make([]entity.InvoiceItem, len(rec.Items))
	for i, tmpl := range rec.Items {
		items[i] = entity.InvoiceItem{
			ID:          uuid.New(),
			InvoiceID:   invoiceID,
			Description: tmpl.Description,
			Quantity:    tmpl.Quantity,
			UnitPrice:   tmpl.UnitPrice,
			VatRate:     tmpl.VatRate,
			ProductID:   cloneIDPtr(tmpl.ProductID),
			ServiceID:   cloneIDPtr(tmpl.ServiceID),
		}
	}

	totals := ComputeTotals(items, isVatSubject).Rounded()

	dueDate := NextOccurrence(today, enum.FrequencyMonthly)
	sourceID := rec.ID
	notes := fmt.Sprintf("Generated automatically from recurring schedule: %s", rec.Label)

	return &entity.Invoice{
		ID:                       invoiceID,
		UserID:                   rec.UserID,
		ClientID:                 rec.ClientID,
		Type:                     enum.DocumentTypeInvoice,
		Number:                   number,
		Sequence:                 seq,
		Date:                     today,
		DueDate:                  &dueDate,
		Status:                   enum.InvoiceStatusDraft,
		Notes:                    &notes,
		Subtotal:                 totals.Subtotal,
		TaxAmount:                totals.TaxAmount,
		Total:                    totals.Total,
		SourceRecurringInvoiceID: &sourceID,
		Items:                    items,
	}
}

func cloneIDPtr(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
