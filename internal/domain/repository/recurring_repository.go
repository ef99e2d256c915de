package repository

import (
	"context"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/pkg/pagination"
	"github.com/google/uuid"
)

// RecurringInvoiceRepository defines the interface for recurring invoice
// templates and their schedule state.
type RecurringInvoiceRepository interface {
	Create(ctx context.Context, rec *entity.RecurringInvoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.RecurringInvoice, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.RecurringInvoice, error)
	Update(ctx context.Context, rec *entity.RecurringInvoice) error
	// ReplaceItems swaps the full template item list in one transaction.
	ReplaceItems(ctx context.Context, recID uuid.UUID, items []entity.RecurringInvoiceItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.RecurringInvoice, int64, error)
	// ListForRun returns all of a user's templates with their items loaded,
	// for one engine pass. The engine itself decides due-ness; inactive and
	// future templates are returned too so the batch report covers them.
	ListForRun(ctx context.Context, userID uuid.UUID) ([]entity.RecurringInvoice, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	// CommitGeneration atomically persists one generated invoice (with its
	// items) together with the template's advanced schedule fields. Either
	// both writes commit or neither does.
	CommitGeneration(ctx context.Context, invoice *entity.Invoice, rec *entity.RecurringInvoice) error
	// Deactivate marks an expired template inactive without touching its
	// schedule fields.
	Deactivate(ctx context.Context, id uuid.UUID) error
	// ListUserIDsWithActive returns the distinct owners of active templates,
	// for the daily engine sweep.
	ListUserIDsWithActive(ctx context.Context) ([]uuid.UUID, error)
}
