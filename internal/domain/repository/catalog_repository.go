package repository

import (
	"context"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/pkg/pagination"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for catalog product operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Product, int64, error)
}

// ServiceRepository defines the interface for catalog service operations
type ServiceRepository interface {
	Create(ctx context.Context, service *entity.Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Service, error)
	Update(ctx context.Context, service *entity.Service) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Service, int64, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}
