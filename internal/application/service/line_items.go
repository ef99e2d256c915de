package service

import (
	"fmt"
	"strings"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/pkg/apperror"
	"github.com/google/uuid"
)

// LineItemInput is the shared line shape for documents and recurring
// templates. ProductID and ServiceID optionally link the line back to the
// catalog and are mutually exclusive.
type LineItemInput struct {
	Description string     `json:"description"`
	Quantity    float64    `json:"quantity"`
	UnitPrice   float64    `json:"unit_price"`
	VatRate     float64    `json:"vat_rate"`
	ProductID   *uuid.UUID `json:"product_id,omitempty"`
	ServiceID   *uuid.UUID `json:"service_id,omitempty"`
}

// validateLineItems rejects lines the totals calculator must never see:
// empty descriptions, non-positive quantities, negative prices, VAT rates
// outside 0-100 and lines linked to both a product and a service.
func validateLineItems(items []LineItemInput) error {
	if len(items) == 0 {
		return apperror.NewBadRequestError("At least one line item is required")
	}

	var fieldErrors []apperror.FieldError
	for i, item := range items {
		if strings.TrimSpace(item.Description) == "" {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].description", i),
				Message: "Description is required",
			})
		}
		if item.Quantity <= 0 {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "Quantity must be greater than zero",
			})
		}
		if item.UnitPrice < 0 {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].unit_price", i),
				Message: "Unit price cannot be negative",
			})
		}
		if item.VatRate < 0 || item.VatRate > 100 {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].vat_rate", i),
				Message: "VAT rate must be between 0 and 100",
			})
		}
		if item.ProductID != nil && item.ServiceID != nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d]", i),
				Message: "A line can reference a product or a service, not both",
			})
		}
	}

	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// toInvoiceItems converts validated inputs into document line items.
func toInvoiceItems(invoiceID uuid.UUID, items []LineItemInput) []entity.InvoiceItem {
	out := make([]entity.InvoiceItem, len(items))
	for i, item := range items {
		out[i] = entity.InvoiceItem{
			ID:          uuid.New(),
			InvoiceID:   invoiceID,
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

// toRecurringItems converts validated inputs into template line items.
func toRecurringItems(recID uuid.UUID, items []LineItemInput) []entity.RecurringInvoiceItem {
	out := make([]entity.RecurringInvoiceItem, len(items))
	for i, item := range items {
		out[i] = entity.RecurringInvoiceItem{
			ID:                 uuid.New(),
			RecurringInvoiceID: recID,
			Description:        item.Description,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice,
			VatRate:            item.VatRate,
			ProductID:          item.ProductID,
			ServiceID:          item.ServiceID,
		}
	}
	return out
}
