package repository

import (
	"context"
	"time"

	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/google/uuid"
)

// MonthlyRevenuePoint is one month of invoiced revenue, for the dashboard
// chart. Month is the first day of the month.
type MonthlyRevenuePoint struct {
	Month   time.Time `json:"month"`
	Revenue float64   `json:"revenue"`
}

// StatusCountResult is a per-status document count.
type StatusCountResult struct {
	Status enum.InvoiceStatus `json:"status"`
	Count  int64              `json:"count"`
}

// DashboardRepository defines the aggregate queries behind the dashboard.
// All figures are scoped to one user.
type DashboardRepository interface {
	// CountClients returns the user's live client count.
	CountClients(ctx context.Context, userID uuid.UUID) (int64, error)
	// CountDocuments returns the user's live document count for one type.
	CountDocuments(ctx context.Context, userID uuid.UUID, docType enum.DocumentType) (int64, error)
	// CountActiveRecurring returns the user's active template count.
	CountActiveRecurring(ctx context.Context, userID uuid.UUID) (int64, error)
	// SumInvoiceTotals sums invoice totals over the given statuses.
	SumInvoiceTotals(ctx context.Context, userID uuid.UUID, statuses []enum.InvoiceStatus) (float64, error)
	// InvoiceStatusCounts returns per-status invoice counts.
	InvoiceStatusCounts(ctx context.Context, userID uuid.UUID, docType enum.DocumentType) ([]StatusCountResult, error)
	// MonthlyRevenue returns paid revenue per month since the given date.
	MonthlyRevenue(ctx context.Context, userID uuid.UUID, since time.Time) ([]MonthlyRevenuePoint, error)
}
