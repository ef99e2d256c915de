package service

import (
	"context"
	"testing"
	"time"

	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDashboardRepo returns canned aggregates and records the status buckets
// it was asked to sum.
type fakeDashboardRepo struct {
	sumCalls [][]enum.InvoiceStatus
	since    time.Time
}

func (r *fakeDashboardRepo) CountClients(_ context.Context, _ uuid.UUID) (int64, error) {
	return 4, nil
}

func (r *fakeDashboardRepo) CountDocuments(_ context.Context, _ uuid.UUID, docType enum.DocumentType) (int64, error) {
	if docType == enum.DocumentTypeInvoice {
		return 12, nil
	}
	return 3, nil
}

func (r *fakeDashboardRepo) CountActiveRecurring(_ context.Context, _ uuid.UUID) (int64, error) {
	return 2, nil
}

func (r *fakeDashboardRepo) SumInvoiceTotals(_ context.Context, _ uuid.UUID, statuses []enum.InvoiceStatus) (float64, error) {
	r.sumCalls = append(r.sumCalls, statuses)
	if len(statuses) == 1 && statuses[0] == enum.InvoiceStatusPaid {
		return 5400, nil
	}
	return 1200, nil
}

func (r *fakeDashboardRepo) InvoiceStatusCounts(_ context.Context, _ uuid.UUID, docType enum.DocumentType) ([]repository.StatusCountResult, error) {
	if docType == enum.DocumentTypeInvoice {
		return []repository.StatusCountResult{
			{Status: enum.InvoiceStatusPaid, Count: 8},
			{Status: enum.InvoiceStatusSent, Count: 4},
		}, nil
	}
	return []repository.StatusCountResult{
		{Status: enum.InvoiceStatusAccepted, Count: 3},
	}, nil
}

func (r *fakeDashboardRepo) MonthlyRevenue(_ context.Context, _ uuid.UUID, since time.Time) ([]repository.MonthlyRevenuePoint, error) {
	r.since = since
	return []repository.MonthlyRevenuePoint{
		{Month: since, Revenue: 450},
	}, nil
}

func TestGetDashboardStats(t *testing.T) {
	repo := &fakeDashboardRepo{}
	svc := NewDashboardService(repo)

	stats, err := svc.GetDashboardStats(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.EqualValues(t, 4, stats.TotalClients)
	assert.EqualValues(t, 12, stats.TotalInvoices)
	assert.EqualValues(t, 3, stats.TotalQuotes)
	assert.EqualValues(t, 2, stats.ActiveRecurring)
	assert.Equal(t, 5400.0, stats.PaidRevenue)
	assert.Equal(t, 1200.0, stats.OutstandingRevenue)

	// Paid revenue sums PAID only; outstanding sums SENT and OVERDUE.
	require.Len(t, repo.sumCalls, 2)
	assert.Equal(t, []enum.InvoiceStatus{enum.InvoiceStatusPaid}, repo.sumCalls[0])
	assert.Equal(t, []enum.InvoiceStatus{enum.InvoiceStatusSent, enum.InvoiceStatusOverdue}, repo.sumCalls[1])

	// Status maps use wire names.
	assert.EqualValues(t, 8, stats.InvoicesByStatus["PAID"])
	assert.EqualValues(t, 4, stats.InvoicesByStatus["SENT"])
	assert.EqualValues(t, 3, stats.QuotesByStatus["ACCEPTED"])

	// The chart window starts on the first of the month, eleven months back.
	assert.Equal(t, 1, repo.since.Day())
	require.Len(t, stats.MonthlyRevenue, 1)
	assert.Equal(t, 450.0, stats.MonthlyRevenue[0].Revenue)
}
