package repository

import (
	"context"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/facturio/facturio-api/pkg/pagination"
	"github.com/google/uuid"
)

// InvoiceRepository defines the interface for document (invoice/quote) data
// operations. Create persists the document together with any items attached
// to it.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.InvoiceStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	// NextSequence returns the next free number in the user's numbering
	// sequence. The unique (user_id, number) index remains the source of
	// truth; callers retry with a fresh sequence on a duplicate-key error.
	NextSequence(ctx context.Context, userID uuid.UUID) (int, error)
}

// InvoiceFilterParams contains filtering parameters for document queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Type       *enum.DocumentType
	Status     *enum.InvoiceStatus
	ClientID   *uuid.UUID
}

// InvoiceItemRepository defines the interface for document line items
type InvoiceItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.InvoiceItem) error
	GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceItem, error)
	DeleteByInvoiceID(ctx context.Context, invoiceID uuid.UUID) error
}
