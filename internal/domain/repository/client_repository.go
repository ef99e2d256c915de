package repository

import (
	"context"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/pkg/pagination"
	"github.com/google/uuid"
)

// ClientRepository defines the interface for client data operations
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Client, int64, error)
	// ListAll returns every client of a user, unpaginated. Used by the draft
	// acceptance adapter for name matching.
	ListAll(ctx context.Context, userID uuid.UUID) ([]entity.Client, error)
}
