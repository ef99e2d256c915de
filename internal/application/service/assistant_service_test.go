package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	infraRepo "github.com/facturio/facturio-api/internal/infrastructure/repository"
	"github.com/facturio/facturio-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDrafter returns a canned envelope and records the request it was given.
type stubDrafter struct {
	envelope *entity.DraftEnvelope
	err      error
	lastReq  *DraftRequest
}

func (d *stubDrafter) Draft(_ context.Context, req *DraftRequest) (*entity.DraftEnvelope, error) {
	d.lastReq = req
	if d.err != nil {
		return nil, d.err
	}
	return d.envelope, nil
}

func newTestAssistant(env *testEnv, drafter Drafter) *AssistantService {
	return NewAssistantService(
		drafter,
		infraRepo.NewClientRepository(env.db),
		env.clients,
		env.invoices,
		env.catalog,
		env.settings,
		env.billing,
	)
}

func TestGenerateDraftGating(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	drafter := &stubDrafter{envelope: &entity.DraftEnvelope{Status: entity.DraftStatusOK}}
	assistant := newTestAssistant(env, drafter)

	_, err := assistant.GenerateDraft(ctx, env.userID, "   ", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

	_, err = assistant.GenerateDraft(ctx, env.userID, "invoice ACME for 3 days of consulting", nil)
	assert.ErrorIs(t, err, apperror.ErrAINotIncluded, "the free plan has no assistant")
	assert.Nil(t, drafter.lastReq, "the model must not be called for gated users")
}

func TestGenerateDraftPassesCompanyContext(t *testing.T) {
	env := newTestEnv(t)
	env.upgradeToPro(t)
	ctx := context.Background()
	drafter := &stubDrafter{envelope: &entity.DraftEnvelope{
		Status:    entity.DraftStatusNeedInfo,
		Questions: []string{"Which client is this for?"},
	}}
	assistant := newTestAssistant(env, drafter)

	envelope, err := assistant.GenerateDraft(ctx, env.userID, "bill 3 days of consulting", nil)
	require.NoError(t, err)
	assert.Equal(t, entity.DraftStatusNeedInfo, envelope.Status)

	require.NotNil(t, drafter.lastReq)
	assert.True(t, drafter.lastReq.IsVatSubject)
	assert.Equal(t, 20.0, drafter.lastReq.DefaultVatRate)

	// Resubmitting with answers forwards them to the model.
	_, err = assistant.GenerateDraft(ctx, env.userID, "bill 3 days of consulting", []string{"ACME Corp"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ACME Corp"}, drafter.lastReq.Answers)
}

func TestAcceptDraftDocument(t *testing.T) {
	env := newTestEnv(t)
	env.upgradeToPro(t)
	ctx := context.Background()
	client := env.seedClient(t, "ACME Corp")
	assistant := newTestAssistant(env, &stubDrafter{})

	// One line carries its own rate, the other inherits the company default.
	rate := 5.5
	result, err := assistant.AcceptDraft(ctx, env.userID, &entity.DraftEnvelope{
		Status:     entity.DraftStatusOK,
		EntityType: entity.DraftEntityDocument,
		Document: &entity.DocumentDraft{
			Type:       enum.DocumentTypeInvoice,
			ClientName: "acme corp",
			Lines: []entity.DraftLine{
				{Description: "Consulting", Quantity: 3, UnitPrice: 500},
				{Description: "Book", Quantity: 1, UnitPrice: 20, VatRate: &rate},
			},
		},
	})
	require.NoError(t, err)

	invoice := result.Document
	require.NotNil(t, invoice)
	assert.Equal(t, client.ID, invoice.ClientID, "the client name is matched case-insensitively")
	assert.NotEmpty(t, invoice.Number)
	require.Len(t, invoice.Items, 2)
	assert.Equal(t, 20.0, invoice.Items[0].VatRate)
	assert.Equal(t, 5.5, invoice.Items[1].VatRate)
	assert.Equal(t, 1520.0, invoice.Subtotal)
	assert.InDelta(t, 301.1, invoice.TaxAmount, 1e-9)
}

func TestAcceptDraftClientMatching(t *testing.T) {
	env := newTestEnv(t)
	env.upgradeToPro(t)
	ctx := context.Background()
	assistant := newTestAssistant(env, &stubDrafter{})

	dupontSarl := env.seedClient(t, "Dupont SARL")
	dupont := env.seedClient(t, "Dupont")

	draft := func(name string) *entity.DraftEnvelope {
		return &entity.DraftEnvelope{
			Status:     entity.DraftStatusOK,
			EntityType: entity.DraftEntityDocument,
			Document: &entity.DocumentDraft{
				Type:       enum.DocumentTypeQuote,
				ClientName: name,
				Lines:      []entity.DraftLine{{Description: "Work", Quantity: 1, UnitPrice: 100}},
			},
		}
	}

	// An exact match beats the earlier substring hit.
	result, err := assistant.AcceptDraft(ctx, env.userID, draft("dupont"))
	require.NoError(t, err)
	assert.Equal(t, dupont.ID, result.Document.ClientID)

	// Substring matching works both ways.
	result, err = assistant.AcceptDraft(ctx, env.userID, draft("Dupont SARL Paris"))
	require.NoError(t, err)
	assert.Equal(t, dupontSarl.ID, result.Document.ClientID)

	// An unknown name creates the client through the regular gated path.
	result, err = assistant.AcceptDraft(ctx, env.userID, draft("Globex"))
	require.NoError(t, err)
	created, err := env.clients.GetClient(ctx, env.userID, result.Document.ClientID)
	require.NoError(t, err)
	assert.Equal(t, "Globex", created.Name)
}

func TestAcceptDraftSynthesizesClientWithDetails(t *testing.T) {
	env := newTestEnv(t)
	env.upgradeToPro(t)
	ctx := context.Background()
	assistant := newTestAssistant(env, &stubDrafter{})

	result, err := assistant.AcceptDraft(ctx, env.userID, &entity.DraftEnvelope{
		Status:     entity.DraftStatusOK,
		EntityType: entity.DraftEntityDocument,
		Document: &entity.DocumentDraft{
			Type:       enum.DocumentTypeInvoice,
			ClientName: "Globex",
			Client: &entity.ClientDraft{
				Name:    "Globex",
				Email:   "billing@globex.example",
				Address: "12 rue de la Paix, Paris",
			},
			Lines: []entity.DraftLine{{Description: "Work", Quantity: 1, UnitPrice: 100}},
		},
	})
	require.NoError(t, err)

	client, err := env.clients.GetClient(ctx, env.userID, result.Document.ClientID)
	require.NoError(t, err)
	assert.Equal(t, "billing@globex.example", client.Email)
	assert.Equal(t, "12 rue de la Paix, Paris", client.Address)

	// Synthesized clients consume the client quota like manual creation.
	info, err := env.billing.GetBillingInfo(ctx, env.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Usage.ClientsCreatedTotal)
}

func TestAcceptDraftRequiresCompleteDraft(t *testing.T) {
	env := newTestEnv(t)
	env.upgradeToPro(t)
	ctx := context.Background()
	assistant := newTestAssistant(env, &stubDrafter{})

	_, err := assistant.AcceptDraft(ctx, env.userID, &entity.DraftEnvelope{
		Status:    entity.DraftStatusNeedInfo,
		Questions: []string{"Which client?"},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestAcceptDraftGoesThroughPlanGates(t *testing.T) {
	env := newTestEnv(t)
	env.upgradeToPro(t)
	ctx := context.Background()
	client := env.seedClient(t, "ACME Corp")
	assistant := newTestAssistant(env, &stubDrafter{})

	// Exhaust the invoice allowance manually, then downgrade-level checks
	// still apply to accepted drafts.
	sub, err := env.billing.ChangePlan(ctx, env.userID, entity.PlanFree)
	require.NoError(t, err)
	require.Equal(t, entity.PlanFree, sub.PlanID)

	_, err = assistant.AcceptDraft(ctx, env.userID, &entity.DraftEnvelope{
		Status:     entity.DraftStatusOK,
		EntityType: entity.DraftEntityDocument,
		Document: &entity.DocumentDraft{
			Type:       enum.DocumentTypeInvoice,
			ClientName: client.Name,
			Lines:      []entity.DraftLine{{Description: "Work", Quantity: 1, UnitPrice: 100}},
		},
	})
	assert.ErrorIs(t, err, apperror.ErrAINotIncluded, "acceptance is AI-gated like generation")
}

func TestAcceptDraftClient(t *testing.T) {
	env := newTestEnv(t)
	env.upgradeToPro(t)
	ctx := context.Background()
	assistant := newTestAssistant(env, &stubDrafter{})

	result, err := assistant.AcceptDraft(ctx, env.userID, &entity.DraftEnvelope{
		Status:     entity.DraftStatusOK,
		EntityType: entity.DraftEntityClient,
		Client: &entity.ClientDraft{
			Name:  "Globex",
			Email: "contact@globex.example",
			Siret: "12345678900011",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Client)
	assert.Equal(t, "Globex", result.Client.Name)

	// Client creation counted against the lifetime quota.
	info, err := env.billing.GetBillingInfo(ctx, env.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Usage.ClientsCreatedTotal)
}

func TestAcceptDraftCatalogItem(t *testing.T) {
	env := newTestEnv(t)
	env.upgradeToPro(t)
	ctx := context.Background()
	assistant := newTestAssistant(env, &stubDrafter{})
	rate := 10.0

	result, err := assistant.AcceptDraft(ctx, env.userID, &entity.DraftEnvelope{
		Status:     entity.DraftStatusOK,
		EntityType: entity.DraftEntityCatalogItem,
		CatalogItem: &entity.CatalogItemDraft{
			Kind:      entity.CatalogItemProduct,
			Name:      "USB key",
			UnitPrice: 12,
			VatRate:   &rate,
			Unit:      "piece",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Product)
	assert.Equal(t, "USB key", result.Product.Name)
	assert.Equal(t, 10.0, result.Product.VatRate)

	result, err = assistant.AcceptDraft(ctx, env.userID, &entity.DraftEnvelope{
		Status:     entity.DraftStatusOK,
		EntityType: entity.DraftEntityCatalogItem,
		CatalogItem: &entity.CatalogItemDraft{
			Kind:      entity.CatalogItemService,
			Name:      "Maintenance",
			UnitPrice: 90,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Service)
	assert.Equal(t, "Maintenance", result.Service.Name)
}
