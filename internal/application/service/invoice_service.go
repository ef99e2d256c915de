package service

import (
	"context"
	"errors"
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

const (
	invoiceNumberPrefix = "INV"
	quoteNumberPrefix   = "DEV"

	// How many times document creation retries after losing a numbering
	// race on the (user_id, number) unique index.
	numberingRetries = 3
)

// InvoiceService handles documents of both types. Invoices count against the
// plan quota; quotes never do.
type InvoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	itemRepo     repository.InvoiceItemRepository
	clientRepo   repository.ClientRepository
	settingsRepo repository.SettingsRepository
	billing      *BillingService
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	itemRepo repository.InvoiceItemRepository,
	clientRepo repository.ClientRepository,
	settingsRepo repository.SettingsRepository,
	billing *BillingService,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		itemRepo:     itemRepo,
		clientRepo:   clientRepo,
		settingsRepo: settingsRepo,
		billing:      billing,
	}
}

// CreateDocumentInput represents the create document input
type CreateDocumentInput struct {
	UserID   uuid.UUID
	ClientID uuid.UUID
	Type     enum.DocumentType
	Date     *time.Time
	DueDate  *time.Time
	Notes    *string
	Items    []LineItemInput
}

// CreateDocument creates an invoice or a quote. Totals are derived from the
// items and the number is assigned from the user's sequence; both are server
// owned and ignore whatever the client sent.
func (s *InvoiceService) CreateDocument(ctx context.Context, input *CreateDocumentInput) (*entity.Invoice, error) {
	if err := validateLineItems(input.Items); err != nil {
		return nil, err
	}
	if err := s.checkClientOwnership(ctx, input.UserID, input.ClientID); err != nil {
		return nil, err
	}
	if input.Type == enum.DocumentTypeInvoice {
		if err := s.billing.CanCreateInvoice(ctx, input.UserID); err != nil {
			return nil, err
		}
	}

	isVatSubject, _, err := s.companyProfile(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	date := DateOnly(time.Now())
	if input.Date != nil {
		date = DateOnly(*input.Date)
	}
	dueDate := input.DueDate
	if dueDate == nil && input.Type == enum.DocumentTypeInvoice {
		d := NextOccurrence(date, enum.FrequencyMonthly)
		dueDate = &d
	}

	invoiceID := uuid.New()
	items := toInvoiceItems(invoiceID, input.Items)
	totals := ComputeTotals(items, isVatSubject).Rounded()

	invoice := &entity.Invoice{
		ID:        invoiceID,
		UserID:    input.UserID,
		ClientID:  input.ClientID,
		Type:      input.Type,
		Date:      date,
		DueDate:   dueDate,
		Status:    enum.InvoiceStatusDraft,
		Notes:     input.Notes,
		Subtotal:  totals.Subtotal,
		TaxAmount: totals.TaxAmount,
		Total:     totals.Total,
		Items:     items,
	}

	if err := s.createNumbered(ctx, invoice); err != nil {
		return nil, err
	}

	if input.Type == enum.DocumentTypeInvoice {
		if err := s.billing.RecordInvoicesCreated(ctx, input.UserID, 1); err != nil {
			return nil, err
		}
	}
	return invoice, nil
}

// createNumbered assigns the next sequence number and persists the document,
// retrying with a fresh sequence when a concurrent create took the number
// first. The unique (user_id, number) index is the arbiter.
func (s *InvoiceService) createNumbered(ctx context.Context, invoice *entity.Invoice) error {
	prefix := invoiceNumberPrefix
	if invoice.Type == enum.DocumentTypeQuote {
		prefix = quoteNumberPrefix
	}

	for attempt := 0; attempt < numberingRetries; attempt++ {
		seq, err := s.invoiceRepo.NextSequence(ctx, invoice.UserID)
		if err != nil {
			return err
		}
		invoice.Sequence = seq
		invoice.Number = utils.FormatDocumentNumber(prefix, invoice.Date.Year(), seq)

		err = s.invoiceRepo.Create(ctx, invoice)
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return apperror.NewConflictError("Could not allocate a document number, please retry")
}

// GetDocument retrieves a document with its items
func (s *InvoiceService) GetDocument(ctx context.Context, userID, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Document")
	}
	if invoice.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	return invoice, nil
}

// ListDocumentsInput represents the list documents input
type ListDocumentsInput struct {
	UserID     uuid.UUID
	Pagination *pagination.PaginationParams
	Search     string
	Type       *enum.DocumentType
	Status     *enum.InvoiceStatus
	ClientID   *uuid.UUID
}

// ListDocuments lists a user's documents with optional filters
func (s *InvoiceService) ListDocuments(ctx context.Context, input *ListDocumentsInput) (*pagination.PaginatedResult[entity.Invoice], error) {
	params := input.Pagination
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	invoices, total, err := s.invoiceRepo.List(ctx, input.UserID, &repository.InvoiceFilterParams{
		Pagination: params,
		Search:     input.Search,
		Type:       input.Type,
		Status:     input.Status,
		ClientID:   input.ClientID,
	})
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// UpdateDocumentInput represents the update document input
type UpdateDocumentInput struct {
	UserID   uuid.UUID
	ID       uuid.UUID
	ClientID *uuid.UUID
	Date     *time.Time
	DueDate  *time.Time
	Notes    *string
	Items    []LineItemInput
}

// UpdateDocument updates a document's editable fields. When items are
// provided the full line list is replaced and totals are recomputed; the
// number and sequence never change.
func (s *InvoiceService) UpdateDocument(ctx context.Context, input *UpdateDocumentInput) (*entity.Invoice, error) {
	invoice, err := s.GetDocument(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.ClientID != nil && *input.ClientID != invoice.ClientID {
		if err := s.checkClientOwnership(ctx, input.UserID, *input.ClientID); err != nil {
			return nil, err
		}
		invoice.ClientID = *input.ClientID
		invoice.Client = nil
	}
	if input.Date != nil {
		invoice.Date = DateOnly(*input.Date)
	}
	if input.DueDate != nil {
		d := DateOnly(*input.DueDate)
		invoice.DueDate = &d
	}
	if input.Notes != nil {
		invoice.Notes = input.Notes
	}

	if input.Items != nil {
		if err := validateLineItems(input.Items); err != nil {
			return nil, err
		}
		isVatSubject, _, err := s.companyProfile(ctx, input.UserID)
		if err != nil {
			return nil, err
		}

		items := toInvoiceItems(invoice.ID, input.Items)
		totals := ComputeTotals(items, isVatSubject).Rounded()
		invoice.Subtotal = totals.Subtotal
		invoice.TaxAmount = totals.TaxAmount
		invoice.Total = totals.Total

		if err := s.itemRepo.DeleteByInvoiceID(ctx, invoice.ID); err != nil {
			return nil, err
		}
		if err := s.itemRepo.CreateBatch(ctx, items); err != nil {
			return nil, err
		}
		invoice.Items = items
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// UpdateDocumentStatus moves a document through its lifecycle. Statuses are
// type-checked: PAID/OVERDUE are invoice-only, ACCEPTED/REJECTED quote-only.
func (s *InvoiceService) UpdateDocumentStatus(ctx context.Context, userID, id uuid.UUID, status enum.InvoiceStatus) (*entity.Invoice, error) {
	invoice, err := s.GetDocument(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !status.ValidForType(invoice.Type) {
		return nil, apperror.NewBadRequestError("Status " + status.String() + " is not valid for a " + invoice.Type.String())
	}

	if err := s.invoiceRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	invoice.Status = status
	return invoice, nil
}

// DeleteDocument deletes a document and its items
func (s *InvoiceService) DeleteDocument(ctx context.Context, userID, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return apperror.NewNotFoundError("Document")
	}
	if invoice.UserID != userID {
		return apperror.ErrForbidden
	}

	if err := s.itemRepo.DeleteByInvoiceID(ctx, id); err != nil {
		return err
	}
	return s.invoiceRepo.Delete(ctx, id)
}

// ConvertQuote materializes an invoice from a quote. The new invoice starts
// as a draft dated today with cloned items, the quote's totals and a fresh
// number from the invoice sequence; the quote itself is left untouched.
// Conversion consumes invoice quota like any other invoice creation.
func (s *InvoiceService) ConvertQuote(ctx context.Context, userID, quoteID uuid.UUID) (*entity.Invoice, error) {
	quote, err := s.GetDocument(ctx, userID, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.Type != enum.DocumentTypeQuote {
		return nil, apperror.NewBadRequestError("Only quotes can be converted to invoices")
	}
	if quote.Status == enum.InvoiceStatusRejected {
		return nil, apperror.NewBadRequestError("A rejected quote cannot be converted")
	}

	if err := s.billing.CanCreateInvoice(ctx, userID); err != nil {
		return nil, err
	}

	today := DateOnly(time.Now())
	dueDate := NextOccurrence(today, enum.FrequencyMonthly)
	invoiceID := uuid.New()

	items := make([]entity.InvoiceItem, len(quote.Items))
	for i, src := range quote.Items {
		items[i] = entity.InvoiceItem{
			ID:          uuid.New(),
			InvoiceID:   invoiceID,
			Description: src.Description,
			Quantity:    src.Quantity,
			UnitPrice:   src.UnitPrice,
			VatRate:     src.VatRate,
			ProductID:   cloneIDPtr(src.ProductID),
			ServiceID:   cloneIDPtr(src.ServiceID),
		}
	}
	sourceID := quote.ID

	// Totals carry over as agreed on the quote; a VAT posture change between
	// quotation and conversion must not reprice the invoice.
	invoice := &entity.Invoice{
		ID:                   invoiceID,
		UserID:               userID,
		ClientID:             quote.ClientID,
		Type:                 enum.DocumentTypeInvoice,
		Date:                 today,
		DueDate:              &dueDate,
		Status:               enum.InvoiceStatusDraft,
		Notes:                quote.Notes,
		Subtotal:             quote.Subtotal,
		TaxAmount:            quote.TaxAmount,
		Total:                quote.Total,
		ConvertedFromQuoteID: &sourceID,
		Items:                items,
	}

	if err := s.createNumbered(ctx, invoice); err != nil {
		return nil, err
	}
	if err := s.billing.RecordInvoicesCreated(ctx, userID, 1); err != nil {
		return nil, err
	}
	return invoice, nil
}

// checkClientOwnership verifies the client exists and belongs to the user.
func (s *InvoiceService) checkClientOwnership(ctx context.Context, userID, clientID uuid.UUID) error {
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

// companyProfile returns the VAT posture for totals calculation, falling
// back to the defaults of a fresh settings row when the user has none yet.
func (s *InvoiceService) companyProfile(ctx context.Context, userID uuid.UUID) (isVatSubject bool, defaultVatRate float64, err error) {
	settings, err := s.settingsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return false, 0, err
	}
	if settings == nil {
		return true, 20, nil
	}
	return settings.IsVatSubject, settings.DefaultVatRate, nil
}
