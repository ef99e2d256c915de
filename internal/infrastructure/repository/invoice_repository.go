package repository

import (
	"context"
	"errors"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	domainRepo "github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Client").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	// Items are managed through their own repository; saving associations
	// here would resurrect lines a concurrent edit removed.
	return r.db.WithContext(ctx).Omit("Items", "Client", "User").Save(invoice).Error
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.InvoiceStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Invoice{}, "id = ?", id).Error
}

func (r *invoiceRepository) List(ctx context.Context, userID uuid.UUID, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).Where("user_id = ?", userID)

	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.ClientID != nil {
		query = query.Where("client_id = ?", *params.ClientID)
	}
	if params.Search != "" {
		query = query.Where("LOWER(number) LIKE LOWER(?)", "%"+params.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	pag := params.Pagination
	pag.Validate()
	err := query.Preload("Client").
		Offset(pag.Offset()).Limit(pag.PerPage).
		Order("date DESC, sequence DESC").
		Find(&invoices).Error

	return invoices, total, err
}

func (r *invoiceRepository) NextSequence(ctx context.Context, userID uuid.UUID) (int, error) {
	var next int
	// Soft-deleted documents keep their rows in the unique index, so the
	// scan is unscoped to never hand out a number a deleted document holds.
	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).Unscoped().
		Where("user_id = ?", userID).
		Select("COALESCE(MAX(sequence), 0) + 1").
		Scan(&next).Error
	return next, err
}

type invoiceItemRepository struct {
	db *gorm.DB
}

// NewInvoiceItemRepository creates a new invoice item repository
func NewInvoiceItemRepository(db *gorm.DB) domainRepo.InvoiceItemRepository {
	return &invoiceItemRepository{db: db}
}

func (r *invoiceItemRepository) CreateBatch(ctx context.Context, items []entity.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *invoiceItemRepository) GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceItem, error) {
	var items []entity.InvoiceItem
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *invoiceItemRepository) DeleteByInvoiceID(ctx context.Context, invoiceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Delete(&entity.InvoiceItem{}).Error
}
