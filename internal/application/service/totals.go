package service

import (
	"math"

	"github.com/facturio/facturio-api/internal/domain/entity"
)

// Totals holds the derived money fields of a document.
type Totals struct {
	Subtotal  float64 `json:"subtotal"`
	TaxAmount float64 `json:"tax_amount"`
	Total     float64 `json:"total"`
}

// ComputeTotals derives subtotal, tax and total from line items. Tax is
// summed per line at that line's VAT rate, never applied to the aggregate
// subtotal, and is zero for companies not subject to VAT. Amounts accumulate
// at full precision; rounding happens only at persistence/presentation
// boundaries via RoundMoney. Inputs are assumed validated (quantity > 0,
// unit price >= 0) by the caller.
func ComputeTotals(items []entity.InvoiceItem, isVatSubject bool) Totals {
	var subtotal, tax float64
	for _, item := range items {
		line := item.Quantity * item.UnitPrice
		subtotal += line
		if isVatSubject {
			tax += line * (item.VatRate / 100)
		}
	}
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal + tax,
	}
}

// RoundMoney rounds an amount to 2 decimal places. Applied once per stored
// figure, never per line.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// Rounded returns the totals rounded for storage. Total is rounded from the
// full-precision sum so it never drifts a cent from subtotal plus tax.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal:  RoundMoney(t.Subtotal),
		TaxAmount: RoundMoney(t.TaxAmount),
		Total:     RoundMoney(t.Subtotal + t.TaxAmount),
	}
}
