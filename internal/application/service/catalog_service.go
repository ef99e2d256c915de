package service

import (
	"context"
	"strings"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/facturio/facturio-api/pkg/apperror"
	"github.com/facturio/facturio-api/pkg/pagination"
	"github.com/google/uuid"
)

// CatalogService handles the reusable product and service catalog. Catalog
// entries are unlimited on every plan; only documents and clients are gated.
type CatalogService struct {
	productRepo repository.ProductRepository
	serviceRepo repository.ServiceRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(productRepo repository.ProductRepository, serviceRepo repository.ServiceRepository) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		serviceRepo: serviceRepo,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	UserID       uuid.UUID
	Name         string
	Description  string
	DefaultPrice float64
	VatRate      float64
	Unit         string
}

// CreateProduct creates a catalog product
func (s *CatalogService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.NewBadRequestError("Name is required")
	}
	if input.DefaultPrice < 0 {
		return nil, apperror.NewBadRequestError("Price cannot be negative")
	}

	product := &entity.Product{
		UserID:       input.UserID,
		Name:         input.Name,
		Description:  input.Description,
		DefaultPrice: input.DefaultPrice,
		VatRate:      input.VatRate,
		Unit:         input.Unit,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *CatalogService) GetProduct(ctx context.Context, userID, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	if product.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	return product, nil
}

// ListProducts lists a user's products with optional name search
func (s *CatalogService) ListProducts(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Product], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	products, total, err := s.productRepo.List(ctx, userID, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	UserID       uuid.UUID
	ID           uuid.UUID
	Name         *string
	Description  *string
	DefaultPrice *float64
	VatRate      *float64
	Unit         *string
}

// UpdateProduct updates a catalog product. Existing document lines keep the
// prices they were created with.
func (s *CatalogService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperror.NewBadRequestError("Name is required")
		}
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.DefaultPrice != nil {
		if *input.DefaultPrice < 0 {
			return nil, apperror.NewBadRequestError("Price cannot be negative")
		}
		product.DefaultPrice = *input.DefaultPrice
	}
	if input.VatRate != nil {
		product.VatRate = *input.VatRate
	}
	if input.Unit != nil {
		product.Unit = *input.Unit
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct deletes a catalog product
func (s *CatalogService) DeleteProduct(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, userID, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

// CreateServiceInput represents the create service input
type CreateServiceInput struct {
	UserID      uuid.UUID
	Name        string
	Description string
	UnitPrice   float64
	VatRate     float64
}

// CreateService creates a catalog service
func (s *CatalogService) CreateService(ctx context.Context, input *CreateServiceInput) (*entity.Service, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.NewBadRequestError("Name is required")
	}
	if input.UnitPrice < 0 {
		return nil, apperror.NewBadRequestError("Price cannot be negative")
	}

	service := &entity.Service{
		UserID:      input.UserID,
		Name:        input.Name,
		Description: input.Description,
		UnitPrice:   input.UnitPrice,
		VatRate:     input.VatRate,
		IsActive:    true,
	}

	if err := s.serviceRepo.Create(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

// GetService retrieves a service by ID
func (s *CatalogService) GetService(ctx context.Context, userID, id uuid.UUID) (*entity.Service, error) {
	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, apperror.NewNotFoundError("Service")
	}
	if service.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	return service, nil
}

// ListServices lists a user's services with optional name search
func (s *CatalogService) ListServices(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Service], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	services, total, err := s.serviceRepo.List(ctx, userID, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(services, pag), nil
}

// UpdateServiceInput represents the update service input
type UpdateServiceInput struct {
	UserID      uuid.UUID
	ID          uuid.UUID
	Name        *string
	Description *string
	UnitPrice   *float64
	VatRate     *float64
	IsActive    *bool
}

// UpdateService updates a catalog service
func (s *CatalogService) UpdateService(ctx context.Context, input *UpdateServiceInput) (*entity.Service, error) {
	service, err := s.GetService(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperror.NewBadRequestError("Name is required")
		}
		service.Name = *input.Name
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.UnitPrice != nil {
		if *input.UnitPrice < 0 {
			return nil, apperror.NewBadRequestError("Price cannot be negative")
		}
		service.UnitPrice = *input.UnitPrice
	}
	if input.VatRate != nil {
		service.VatRate = *input.VatRate
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}

	if err := s.serviceRepo.Update(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

// DeleteService deletes a catalog service
func (s *CatalogService) DeleteService(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.GetService(ctx, userID, id); err != nil {
		return err
	}
	return s.serviceRepo.Delete(ctx, id)
}
