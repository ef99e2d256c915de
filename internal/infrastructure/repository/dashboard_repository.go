package repository

import (
	"context"
	"time"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	domainRepo "github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *gorm.DB) domainRepo.DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) CountClients(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Client{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *dashboardRepository) CountDocuments(ctx context.Context, userID uuid.UUID, docType enum.DocumentType) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("user_id = ? AND type = ?", userID, docType).
		Count(&count).Error
	return count, err
}

func (r *dashboardRepository) CountActiveRecurring(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.RecurringInvoice{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&count).Error
	return count, err
}

func (r *dashboardRepository) SumInvoiceTotals(ctx context.Context, userID uuid.UUID, statuses []enum.InvoiceStatus) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("user_id = ? AND type = ? AND status IN ?", userID, enum.DocumentTypeInvoice, statuses).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}

func (r *dashboardRepository) InvoiceStatusCounts(ctx context.Context, userID uuid.UUID, docType enum.DocumentType) ([]domainRepo.StatusCountResult, error) {
	var results []domainRepo.StatusCountResult
	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("user_id = ? AND type = ?", userID, docType).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&results).Error
	return results, err
}

func (r *dashboardRepository) MonthlyRevenue(ctx context.Context, userID uuid.UUID, since time.Time) ([]domainRepo.MonthlyRevenuePoint, error) {
	var results []domainRepo.MonthlyRevenuePoint

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			DATE_TRUNC('month', date) as month,
			COALESCE(SUM(total), 0) as revenue
		FROM invoices
		WHERE user_id = ?
		  AND type = ?
		  AND status = ?
		  AND date >= ?
		  AND deleted_at IS NULL
		GROUP BY DATE_TRUNC('month', date)
		ORDER BY month ASC
	`, userID, enum.DocumentTypeInvoice, enum.InvoiceStatusPaid, since).Scan(&results).Error

	if err != nil {
		return nil, err
	}
	return results, nil
}
