package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/facturio/facturio-api/internal/application/service"
	"github.com/facturio/facturio-api/internal/domain/entity"
	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = `You are a drafting assistant inside an invoicing application for freelancers.
The user describes what they want in plain language; you answer with a single JSON object and nothing else.

The JSON object always has a "status" field: "OK" when you can produce a complete draft, "NEED_INFO" when you cannot.

When status is "NEED_INFO", include a "questions" array of short questions for the user and nothing else.

When status is "OK", include "entity_type" ("DOCUMENT", "CLIENT" or "CATALOG_ITEM") and exactly one matching payload:
- "document": {"type": "INVOICE"|"QUOTE", "client_name": string, "client": optional {"name", "email", "address", "siret"} when the user gave details for a new client, "notes": string, "lines": [{"description": string, "quantity": number, "unit_price": number, "vat_rate": number (omit when unsure)}]}
- "client": {"name": string, "email": string, "address": string, "siret": string}
- "catalog_item": {"kind": "PRODUCT"|"SERVICE", "name": string, "description": string, "unit_price": number, "vat_rate": number, "unit": string}

Reference clients by name exactly as the user wrote them; never invent identifiers.
Quantities must be positive and prices non-negative. Omit vat_rate rather than guessing.`

// Drafter calls the OpenAI chat completion API to turn free text into
// structured drafts. It implements service.Drafter.
type Drafter struct {
	client      *openai.Client
	model       string
	maxRetries  int
	temperature float32
}

// NewDrafter creates a drafter backed by the OpenAI API. An empty model
// defaults to gpt-4o-mini.
func NewDrafter(apiKey, model string) *Drafter {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Drafter{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxRetries:  3,
		temperature: 0.2,
	}
}

// Draft sends the prompt and parses the model's JSON answer into a draft
// envelope, retrying on transport errors and malformed output.
func (d *Drafter) Draft(ctx context.Context, req *service.DraftRequest) (*entity.DraftEnvelope, error) {
	userPrompt := fmt.Sprintf(
		"Company context: VAT subject: %t, default VAT rate: %.1f%%.\n\nRequest: %s",
		req.IsVatSubject, req.DefaultVatRate, req.Prompt,
	)
	if len(req.Answers) > 0 {
		userPrompt += "\n\nAnswers to your previous questions:\n- " + strings.Join(req.Answers, "\n- ")
	}

	var lastErr error
	for attempt := 1; attempt <= d.maxRetries; attempt++ {
		resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       d.model,
			Temperature: d.temperature,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
			MaxTokens: 1500,
		})
		if err != nil {
			lastErr = err
			log.Printf("assistant: completion request failed (attempt %d/%d): %v", attempt, d.maxRetries, err)
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("no response choices")
			continue
		}

		envelope, err := parseEnvelope(resp.Choices[0].Message.Content)
		if err != nil {
			lastErr = err
			log.Printf("assistant: unusable model output (attempt %d/%d): %v", attempt, d.maxRetries, err)
			continue
		}
		return envelope, nil
	}
	return nil, fmt.Errorf("draft generation failed after %d attempts: %w", d.maxRetries, lastErr)
}

// parseEnvelope decodes and sanity-checks the model output so downstream
// code never sees an envelope whose payload contradicts its own tags.
func parseEnvelope(content string) (*entity.DraftEnvelope, error) {
	var envelope entity.DraftEnvelope
	if err := json.Unmarshal([]byte(content), &envelope); err != nil {
		return nil, fmt.Errorf("invalid JSON from model: %w", err)
	}

	switch envelope.Status {
	case entity.DraftStatusNeedInfo:
		if len(envelope.Questions) == 0 {
			return nil, fmt.Errorf("NEED_INFO response without questions")
		}
		return &envelope, nil

	case entity.DraftStatusOK:
		switch envelope.EntityType {
		case entity.DraftEntityDocument:
			if envelope.Document == nil || len(envelope.Document.Lines) == 0 {
				return nil, fmt.Errorf("document draft missing lines")
			}
		case entity.DraftEntityClient:
			if envelope.Client == nil || envelope.Client.Name == "" {
				return nil, fmt.Errorf("client draft missing name")
			}
		case entity.DraftEntityCatalogItem:
			if envelope.CatalogItem == nil || envelope.CatalogItem.Name == "" {
				return nil, fmt.Errorf("catalog item draft missing name")
			}
		default:
			return nil, fmt.Errorf("unknown entity type %q", envelope.EntityType)
		}
		return &envelope, nil

	default:
		return nil, fmt.Errorf("unknown draft status %q", envelope.Status)
	}
}
