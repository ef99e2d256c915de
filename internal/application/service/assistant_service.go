package service

import (
	"context"
	"strings"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/facturio/facturio-api/pkg/apperror"
	"github.com/google/uuid"
)

// DraftRequest carries the user's free-text ask plus the company context the
// model needs to fill sensible defaults. Answers holds the user's replies to
// a previous NEED_INFO round, in question order.
type DraftRequest struct {
	Prompt         string
	Answers        []string
	IsVatSubject   bool
	DefaultVatRate float64
}

// Drafter turns a natural language request into a structured draft envelope.
type Drafter interface {
	Draft(ctx context.Context, req *DraftRequest) (*entity.DraftEnvelope, error)
}

// AssistantService fronts the AI drafting flow: generation is gated by the
// plan, and accepted drafts are funneled through the same creation paths as
// manual input so quotas and validation apply identically.
type AssistantService struct {
	drafter     Drafter
	clientRepo  repository.ClientRepository
	clientSvc   *ClientService
	invoiceSvc  *InvoiceService
	catalogSvc  *CatalogService
	settingsSvc *SettingsService
	billing     *BillingService
}

// NewAssistantService creates a new assistant service
func NewAssistantService(
	drafter Drafter,
	clientRepo repository.ClientRepository,
	clientSvc *ClientService,
	invoiceSvc *InvoiceService,
	catalogSvc *CatalogService,
	settingsSvc *SettingsService,
	billing *BillingService,
) *AssistantService {
	return &AssistantService{
		drafter:     drafter,
		clientRepo:  clientRepo,
		clientSvc:   clientSvc,
		invoiceSvc:  invoiceSvc,
		catalogSvc:  catalogSvc,
		settingsSvc: settingsSvc,
		billing:     billing,
	}
}

// GenerateDraft asks the model for a draft. Nothing is persisted here; the
// envelope goes back to the user for review. When the previous round came
// back NEED_INFO, the caller resubmits the same prompt with the answers.
func (s *AssistantService) GenerateDraft(ctx context.Context, userID uuid.UUID, prompt string, answers []string) (*entity.DraftEnvelope, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, apperror.NewBadRequestError("Prompt is required")
	}
	if err := s.billing.RequireAIAccess(ctx, userID); err != nil {
		return nil, err
	}

	settings, err := s.settingsSvc.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.drafter.Draft(ctx, &DraftRequest{
		Prompt:         prompt,
		Answers:        answers,
		IsVatSubject:   settings.IsVatSubject,
		DefaultVatRate: settings.DefaultVatRate,
	})
}

// AcceptDraftResult is the persisted record an accepted draft produced.
// Exactly one field is set, mirroring the envelope's entity type.
type AcceptDraftResult struct {
	Document *entity.Invoice `json:"document,omitempty"`
	Client   *entity.Client  `json:"client,omitempty"`
	Product  *entity.Product `json:"product,omitempty"`
	Service  *entity.Service `json:"service,omitempty"`
}

// AcceptDraft materializes a reviewed draft through the regular creation
// paths, so plan gating and validation behave exactly as for manual input.
func (s *AssistantService) AcceptDraft(ctx context.Context, userID uuid.UUID, envelope *entity.DraftEnvelope) (*AcceptDraftResult, error) {
	if err := s.billing.RequireAIAccess(ctx, userID); err != nil {
		return nil, err
	}
	if envelope.Status != entity.DraftStatusOK {
		return nil, apperror.NewBadRequestError("Draft is incomplete, answer the assistant's questions first")
	}

	switch envelope.EntityType {
	case entity.DraftEntityDocument:
		if envelope.Document == nil {
			return nil, apperror.NewBadRequestError("Draft has no document payload")
		}
		invoice, err := s.acceptDocumentDraft(ctx, userID, envelope.Document)
		if err != nil {
			return nil, err
		}
		return &AcceptDraftResult{Document: invoice}, nil

	case entity.DraftEntityClient:
		if envelope.Client == nil {
			return nil, apperror.NewBadRequestError("Draft has no client payload")
		}
		client, err := s.acceptClientDraft(ctx, userID, envelope.Client)
		if err != nil {
			return nil, err
		}
		return &AcceptDraftResult{Client: client}, nil

	case entity.DraftEntityCatalogItem:
		if envelope.CatalogItem == nil {
			return nil, apperror.NewBadRequestError("Draft has no catalog item payload")
		}
		return s.acceptCatalogItemDraft(ctx, userID, envelope.CatalogItem)

	default:
		return nil, apperror.NewBadRequestError("Unknown draft entity type")
	}
}

// acceptDocumentDraft resolves the drafted client name against existing
// clients and creates the document. Missing line VAT rates fall back to the
// company default, or zero when the company is not VAT subject.
func (s *AssistantService) acceptDocumentDraft(ctx context.Context, userID uuid.UUID, draft *entity.DocumentDraft) (*entity.Invoice, error) {
	client, err := s.resolveClient(ctx, userID, draft)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsSvc.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	defaultVat := 0.0
	if settings.IsVatSubject {
		defaultVat = settings.DefaultVatRate
	}

	items := make([]LineItemInput, len(draft.Lines))
	for i, line := range draft.Lines {
		vatRate := defaultVat
		if line.VatRate != nil {
			vatRate = *line.VatRate
		}
		items[i] = LineItemInput{
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			VatRate:     vatRate,
		}
	}

	var notes *string
	if draft.Notes != "" {
		notes = &draft.Notes
	}

	return s.invoiceSvc.CreateDocument(ctx, &CreateDocumentInput{
		UserID:   userID,
		ClientID: client.ID,
		Type:     draft.Type,
		Notes:    notes,
		Items:    items,
	})
}

func (s *AssistantService) acceptClientDraft(ctx context.Context, userID uuid.UUID, draft *entity.ClientDraft) (*entity.Client, error) {
	return s.clientSvc.CreateClient(ctx, &CreateClientInput{
		UserID:  userID,
		Name:    draft.Name,
		Email:   draft.Email,
		Address: draft.Address,
		Siret:   draft.Siret,
	})
}

func (s *AssistantService) acceptCatalogItemDraft(ctx context.Context, userID uuid.UUID, draft *entity.CatalogItemDraft) (*AcceptDraftResult, error) {
	vatRate := 0.0
	if draft.VatRate != nil {
		vatRate = *draft.VatRate
	}

	switch draft.Kind {
	case entity.CatalogItemProduct:
		product, err := s.catalogSvc.CreateProduct(ctx, &CreateProductInput{
			UserID:       userID,
			Name:         draft.Name,
			Description:  draft.Description,
			DefaultPrice: draft.UnitPrice,
			VatRate:      vatRate,
			Unit:         draft.Unit,
		})
		if err != nil {
			return nil, err
		}
		return &AcceptDraftResult{Product: product}, nil

	case entity.CatalogItemService:
		service, err := s.catalogSvc.CreateService(ctx, &CreateServiceInput{
			UserID:      userID,
			Name:        draft.Name,
			Description: draft.Description,
			UnitPrice:   draft.UnitPrice,
			VatRate:     vatRate,
		})
		if err != nil {
			return nil, err
		}
		return &AcceptDraftResult{Service: service}, nil

	default:
		return nil, apperror.NewBadRequestError("Unknown catalog item kind")
	}
}

// resolveClient finds the user's client whose name contains the drafted name,
// case-insensitively. An exact match wins over a substring match; anything
// ambiguous beyond that takes the first hit in creation order. When nothing
// matches, a client is created from the draft's details through the regular
// quota-gated path.
func (s *AssistantService) resolveClient(ctx context.Context, userID uuid.UUID, draft *entity.DocumentDraft) (*entity.Client, error) {
	needle := strings.ToLower(strings.TrimSpace(draft.ClientName))
	if needle == "" {
		return nil, apperror.NewBadRequestError("Draft is missing the client name")
	}

	clients, err := s.clientRepo.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	var substringMatch *entity.Client
	for i := range clients {
		haystack := strings.ToLower(clients[i].Name)
		if haystack == needle {
			return &clients[i], nil
		}
		if substringMatch == nil && (strings.Contains(haystack, needle) || strings.Contains(needle, haystack)) {
			substringMatch = &clients[i]
		}
	}
	if substringMatch != nil {
		return substringMatch, nil
	}

	input := &CreateClientInput{UserID: userID, Name: strings.TrimSpace(draft.ClientName)}
	if draft.Client != nil {
		input.Email = draft.Client.Email
		input.Address = draft.Client.Address
		input.Siret = draft.Client.Siret
	}
	return s.clientSvc.CreateClient(ctx, input)
}
