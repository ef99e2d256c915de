package service

import (
	"context"
	"time"

	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/google/uuid"
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	dashboardRepo repository.DashboardRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(dashboardRepo repository.DashboardRepository) *DashboardService {
	return &DashboardService{dashboardRepo: dashboardRepo}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalClients       int64                            `json:"total_clients"`
	TotalInvoices      int64                            `json:"total_invoices"`
	TotalQuotes        int64                            `json:"total_quotes"`
	ActiveRecurring    int64                            `json:"active_recurring"`
	PaidRevenue        float64                          `json:"paid_revenue"`
	OutstandingRevenue float64                          `json:"outstanding_revenue"`
	InvoicesByStatus   map[string]int64                 `json:"invoices_by_status"`
	QuotesByStatus     map[string]int64                 `json:"quotes_by_status"`
	MonthlyRevenue     []repository.MonthlyRevenuePoint `json:"monthly_revenue"`
}

// GetDashboardStats returns the user's dashboard figures. Paid revenue sums
// PAID invoices; outstanding sums SENT and OVERDUE ones. The revenue chart
// covers the last twelve months.
func (s *DashboardService) GetDashboardStats(ctx context.Context, userID uuid.UUID) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalClients, err = s.dashboardRepo.CountClients(ctx, userID); err != nil {
		return nil, err
	}
	if stats.TotalInvoices, err = s.dashboardRepo.CountDocuments(ctx, userID, enum.DocumentTypeInvoice); err != nil {
		return nil, err
	}
	if stats.TotalQuotes, err = s.dashboardRepo.CountDocuments(ctx, userID, enum.DocumentTypeQuote); err != nil {
		return nil, err
	}
	if stats.ActiveRecurring, err = s.dashboardRepo.CountActiveRecurring(ctx, userID); err != nil {
		return nil, err
	}

	if stats.PaidRevenue, err = s.dashboardRepo.SumInvoiceTotals(ctx, userID,
		[]enum.InvoiceStatus{enum.InvoiceStatusPaid}); err != nil {
		return nil, err
	}
	if stats.OutstandingRevenue, err = s.dashboardRepo.SumInvoiceTotals(ctx, userID,
		[]enum.InvoiceStatus{enum.InvoiceStatusSent, enum.InvoiceStatusOverdue}); err != nil {
		return nil, err
	}

	if stats.InvoicesByStatus, err = s.statusCounts(ctx, userID, enum.DocumentTypeInvoice); err != nil {
		return nil, err
	}
	if stats.QuotesByStatus, err = s.statusCounts(ctx, userID, enum.DocumentTypeQuote); err != nil {
		return nil, err
	}

	since := addMonthsClamped(DateOnly(time.Now()), -11)
	since = time.Date(since.Year(), since.Month(), 1, 0, 0, 0, 0, time.UTC)
	if stats.MonthlyRevenue, err = s.dashboardRepo.MonthlyRevenue(ctx, userID, since); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *DashboardService) statusCounts(ctx context.Context, userID uuid.UUID, docType enum.DocumentType) (map[string]int64, error) {
	results, err := s.dashboardRepo.InvoiceStatusCounts(ctx, userID, docType)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(results))
	for _, result := range results {
		counts[result.Status.String()] = result.Count
	}
	return counts, nil
}
