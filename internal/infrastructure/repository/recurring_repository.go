package repository

import (
	"context"
	"errors"

	"github.com/facturio/facturio-api/internal/domain/entity"
	domainRepo "github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/facturio/facturio-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type recurringInvoiceRepository struct {
	db *gorm.DB
}

// NewRecurringInvoiceRepository creates a new recurring invoice repository
func NewRecurringInvoiceRepository(db *gorm.DB) domainRepo.RecurringInvoiceRepository {
	return &recurringInvoiceRepository{db: db}
}

func (r *recurringInvoiceRepository) Create(ctx context.Context, rec *entity.RecurringInvoice) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *recurringInvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.RecurringInvoice, error) {
	var rec entity.RecurringInvoice
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recurringInvoiceRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.RecurringInvoice, error) {
	var rec entity.RecurringInvoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Client").
		First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recurringInvoiceRepository) Update(ctx context.Context, rec *entity.RecurringInvoice) error {
	return r.db.WithContext(ctx).Omit("Items", "Client", "User").Save(rec).Error
}

func (r *recurringInvoiceRepository) ReplaceItems(ctx context.Context, recID uuid.UUID, items []entity.RecurringInvoiceItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recurring_invoice_id = ?", recID).
			Delete(&entity.RecurringInvoiceItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

func (r *recurringInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recurring_invoice_id = ?", id).
			Delete(&entity.RecurringInvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.RecurringInvoice{}, "id = ?", id).Error
	})
}

func (r *recurringInvoiceRepository) List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.RecurringInvoice, int64, error) {
	var recs []entity.RecurringInvoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.RecurringInvoice{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Preload("Client").
		Offset(params.Offset()).Limit(params.PerPage).
		Order("next_run_date ASC").
		Find(&recs).Error

	return recs, total, err
}

func (r *recurringInvoiceRepository) ListForRun(ctx context.Context, userID uuid.UUID) ([]entity.RecurringInvoice, error) {
	var recs []entity.RecurringInvoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&recs).Error
	return recs, err
}

func (r *recurringInvoiceRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&entity.RecurringInvoice{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

func (r *recurringInvoiceRepository) CommitGeneration(ctx context.Context, invoice *entity.Invoice, rec *entity.RecurringInvoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(invoice).Error; err != nil {
			return err
		}
		return tx.Model(&entity.RecurringInvoice{}).
			Where("id = ?", rec.ID).
			Updates(map[string]interface{}{
				"next_run_date": rec.NextRunDate,
				"last_run_date": rec.LastRunDate,
			}).Error
	})
}

func (r *recurringInvoiceRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.SetActive(ctx, id, false)
}

func (r *recurringInvoiceRepository) ListUserIDsWithActive(ctx context.Context) ([]uuid.UUID, error) {
	var userIDs []uuid.UUID
	err := r.db.WithContext(ctx).Model(&entity.RecurringInvoice{}).
		Where("is_active = ?", true).
		Distinct("user_id").
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}
