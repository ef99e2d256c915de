package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/facturio/facturio-api/pkg/apperror"
	"github.com/facturio/facturio-api/pkg/pagination"
	"github.com/facturio/facturio-api/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecurringService handles recurring invoice templates and runs the
// generation engine over them.
type RecurringService struct {
	recurringRepo repository.RecurringInvoiceRepository
	invoiceRepo   repository.InvoiceRepository
	clientRepo    repository.ClientRepository
	settingsRepo  repository.SettingsRepository
	billing       *BillingService
}

// NewRecurringService creates a new recurring invoice service
func NewRecurringService(
	recurringRepo repository.RecurringInvoiceRepository,
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	settingsRepo repository.SettingsRepository,
	billing *BillingService,
) *RecurringService {
	return &RecurringService{
		recurringRepo: recurringRepo,
		invoiceRepo:   invoiceRepo,
		clientRepo:    clientRepo,
		settingsRepo:  settingsRepo,
		billing:       billing,
	}
}

// CreateRecurringInvoiceInput represents the create template input
type CreateRecurringInvoiceInput struct {
	UserID    uuid.UUID
	ClientID  uuid.UUID
	Label     string
	Frequency enum.Frequency
	StartDate time.Time
	EndDate   *time.Time
	Items     []LineItemInput
}

// CreateRecurringInvoice creates a template. The first run is scheduled for
// the start date itself. Template creation consumes the plan's recurring
// quota.
func (s *RecurringService) CreateRecurringInvoice(ctx context.Context, input *CreateRecurringInvoiceInput) (*entity.RecurringInvoice, error) {
	if err := s.validateTemplate(input.Label, input.Frequency, input.StartDate, input.EndDate, input.Items); err != nil {
		return nil, err
	}
	if err := s.checkClientOwnership(ctx, input.UserID, input.ClientID); err != nil {
		return nil, err
	}
	if err := s.billing.CanCreateRecurringInvoice(ctx, input.UserID); err != nil {
		return nil, err
	}

	start := DateOnly(input.StartDate)
	rec := &entity.RecurringInvoice{
		ID:          uuid.New(),
		UserID:      input.UserID,
		ClientID:    input.ClientID,
		Label:       input.Label,
		Frequency:   input.Frequency,
		StartDate:   start,
		NextRunDate: start,
		IsActive:    true,
	}
	if input.EndDate != nil {
		end := DateOnly(*input.EndDate)
		rec.EndDate = &end
	}
	rec.Items = toRecurringItems(rec.ID, input.Items)

	if err := s.recurringRepo.Create(ctx, rec); err != nil {
		return nil, err
	}
	if err := s.billing.RecordRecurringCreated(ctx, input.UserID); err != nil {
		return nil, err
	}
	return rec, nil
}

// GetRecurringInvoice retrieves a template with its items
func (s *RecurringService) GetRecurringInvoice(ctx context.Context, userID, id uuid.UUID) (*entity.RecurringInvoice, error) {
	rec, err := s.recurringRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperror.NewNotFoundError("Recurring invoice")
	}
	if rec.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	return rec, nil
}

// ListRecurringInvoices lists a user's templates
func (s *RecurringService) ListRecurringInvoices(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.RecurringInvoice], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	recs, total, err := s.recurringRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(recs, pag), nil
}

// UpdateRecurringInvoiceInput represents the update template input. Nil
// fields are left unchanged; ClearEndDate removes an existing end date.
type UpdateRecurringInvoiceInput struct {
	UserID       uuid.UUID
	ID           uuid.UUID
	ClientID     *uuid.UUID
	Label        *string
	Frequency    *enum.Frequency
	StartDate    *time.Time
	EndDate      *time.Time
	ClearEndDate bool
	Items        []LineItemInput
}

// UpdateRecurringInvoice updates a template. Schedule state survives edits:
// the next run date only moves when the new start date lands after it, or
// when the template has never generated anything yet.
func (s *RecurringService) UpdateRecurringInvoice(ctx context.Context, input *UpdateRecurringInvoiceInput) (*entity.RecurringInvoice, error) {
	rec, err := s.GetRecurringInvoice(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.ClientID != nil && *input.ClientID != rec.ClientID {
		if err := s.checkClientOwnership(ctx, input.UserID, *input.ClientID); err != nil {
			return nil, err
		}
		rec.ClientID = *input.ClientID
		rec.Client = nil
	}
	if input.Label != nil {
		rec.Label = *input.Label
	}
	if input.Frequency != nil {
		rec.Frequency = *input.Frequency
	}
	if input.StartDate != nil {
		start := DateOnly(*input.StartDate)
		rec.StartDate = start
		if rec.LastRunDate == nil {
			rec.NextRunDate = start
		} else if rec.NextRunDate.Before(start) {
			rec.NextRunDate = start
		}
	}
	switch {
	case input.ClearEndDate:
		rec.EndDate = nil
	case input.EndDate != nil:
		end := DateOnly(*input.EndDate)
		rec.EndDate = &end
	}

	items := rec.Items
	if input.Items != nil {
		items = toRecurringItems(rec.ID, input.Items)
	}
	if err := s.validateTemplate(rec.Label, rec.Frequency, rec.StartDate, rec.EndDate, itemInputs(items)); err != nil {
		return nil, err
	}

	if input.Items != nil {
		if err := s.recurringRepo.ReplaceItems(ctx, rec.ID, items); err != nil {
			return nil, err
		}
		rec.Items = items
	}

	if err := s.recurringRepo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// SetRecurringInvoiceActive toggles a template. Deactivation freezes the
// schedule in place; reactivating an overdue template lets the next engine
// pass generate a single catch-up invoice.
func (s *RecurringService) SetRecurringInvoiceActive(ctx context.Context, userID, id uuid.UUID, active bool) (*entity.RecurringInvoice, error) {
	rec, err := s.GetRecurringInvoice(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if rec.IsActive == active {
		return rec, nil
	}

	if err := s.recurringRepo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	rec.IsActive = active
	return rec, nil
}

// DeleteRecurringInvoice deletes a template. Invoices it generated keep
// their provenance pointer and are not touched.
func (s *RecurringService) DeleteRecurringInvoice(ctx context.Context, userID, id uuid.UUID) error {
	rec, err := s.recurringRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return apperror.NewNotFoundError("Recurring invoice")
	}
	if rec.UserID != userID {
		return apperror.ErrForbidden
	}
	return s.recurringRepo.Delete(ctx, id)
}

// RecurringRunFailure records a template whose planned outcome could not be
// persisted. The rest of the batch is unaffected.
type RecurringRunFailure struct {
	RecurringInvoiceID uuid.UUID `json:"recurring_invoice_id"`
	Label              string    `json:"label"`
	Error              string    `json:"error"`
}

// RecurringRunReport summarizes one engine pass for one user.
type RecurringRunReport struct {
	Date        time.Time             `json:"date"`
	Generated   int                   `json:"generated"`
	Deactivated int                   `json:"deactivated"`
	Skipped     int                   `json:"skipped"`
	Failures    []RecurringRunFailure `json:"failures,omitempty"`
	Outcomes    []RecurringRunOutcome `json:"outcomes"`
}

// ProcessDue runs one engine pass for a user: plan in memory, then commit
// per template so one failure cannot poison the rest. Callers must not run
// two passes for the same user concurrently; the scheduler serializes them.
func (s *RecurringService) ProcessDue(ctx context.Context, userID uuid.UUID, today time.Time) (*RecurringRunReport, error) {
	today = DateOnly(today)

	recs, err := s.recurringRepo.ListForRun(ctx, userID)
	if err != nil {
		return nil, err
	}

	isVatSubject := true
	if settings, err := s.settingsRepo.GetByUserID(ctx, userID); err != nil {
		return nil, err
	} else if settings != nil {
		isVatSubject = settings.IsVatSubject
	}

	baseSeq, err := s.invoiceRepo.NextSequence(ctx, userID)
	if err != nil {
		return nil, err
	}
	numberFor := func(i int) (string, int) {
		seq := baseSeq + i
		return utils.FormatDocumentNumber(invoiceNumberPrefix, today.Year(), seq), seq
	}

	plan := PlanRecurringRun(today, recs, isVatSubject, numberFor)

	report := &RecurringRunReport{Date: today, Outcomes: plan.Outcomes}
	for _, outcome := range plan.Outcomes {
		switch outcome.Kind {
		case OutcomeGenerated:
			if err := s.commitGenerated(ctx, &outcome); err != nil {
				report.Failures = append(report.Failures, RecurringRunFailure{
					RecurringInvoiceID: outcome.RecurringInvoiceID,
					Label:              outcome.Label,
					Error:              err.Error(),
				})
				continue
			}
			report.Generated++

		case OutcomeDeactivated:
			if err := s.recurringRepo.Deactivate(ctx, outcome.RecurringInvoiceID); err != nil {
				report.Failures = append(report.Failures, RecurringRunFailure{
					RecurringInvoiceID: outcome.RecurringInvoiceID,
					Label:              outcome.Label,
					Error:              err.Error(),
				})
				continue
			}
			report.Deactivated++

		default:
			report.Skipped++
		}
	}

	if err := s.billing.RecordInvoicesCreated(ctx, userID, report.Generated); err != nil {
		return nil, err
	}
	return report, nil
}

// ListUsersForRun returns the owners of active templates, for the daily sweep.
func (s *RecurringService) ListUsersForRun(ctx context.Context) ([]uuid.UUID, error) {
	return s.recurringRepo.ListUserIDsWithActive(ctx)
}

// commitGenerated persists one planned generation, retrying with a fresh
// sequence when a concurrently created document took the planned number.
func (s *RecurringService) commitGenerated(ctx context.Context, outcome *RecurringRunOutcome) error {
	var err error
	for attempt := 0; attempt < numberingRetries; attempt++ {
		err = s.recurringRepo.CommitGeneration(ctx, outcome.Invoice, outcome.Updated)
		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}

		seq, seqErr := s.invoiceRepo.NextSequence(ctx, outcome.Invoice.UserID)
		if seqErr != nil {
			return seqErr
		}
		outcome.Invoice.Sequence = seq
		outcome.Invoice.Number = utils.FormatDocumentNumber(invoiceNumberPrefix, outcome.Invoice.Date.Year(), seq)
	}
	return err
}

func (s *RecurringService) validateTemplate(label string, frequency enum.Frequency, startDate time.Time, endDate *time.Time, items []LineItemInput) error {
	if strings.TrimSpace(label) == "" {
		return apperror.NewBadRequestError("Label is required")
	}
	if !frequency.IsValid() {
		return apperror.NewBadRequestError("Invalid frequency")
	}
	if endDate != nil && DateOnly(*endDate).Before(DateOnly(startDate)) {
		return apperror.NewBadRequestError("End date cannot be before start date")
	}
	return validateLineItems(items)
}

func (s *RecurringService) checkClientOwnership(ctx context.Context, userID, clientID uuid.UUID) error {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return err
	}
	if client == nil {
		return apperror.NewNotFoundError("Client")
	}
	if client.UserID != userID {
		return apperror.ErrForbidden
	}
	return nil
}

// itemInputs maps stored template items back to the shared input shape for
// re-validation after a partial update.
func itemInputs(items []entity.RecurringInvoiceItem) []LineItemInput {
	out := make([]LineItemInput, len(items))
	for i, item := range items {
		out[i] = LineItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			VatRate:     item.VatRate,
			ProductID:   item.ProductID,
			ServiceID:   item.ServiceID,
		}
	}
	return out
}
