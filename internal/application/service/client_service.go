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

// ClientService handles client-related operations. Creation is gated by the
// plan's client quota.
type ClientService struct {
	clientRepo repository.ClientRepository
	billing    *BillingService
}

// NewClientService creates a new client service
func NewClientService(clientRepo repository.ClientRepository, billing *BillingService) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		billing:    billing,
	}
}

// CreateClientInput represents the create client input
type CreateClientInput struct {
	UserID  uuid.UUID
	Name    string
	Email   string
	Address string
	Siret   string
	Notes   *string
}

// CreateClient creates a new client
func (s *ClientService) CreateClient(ctx context.Context, input *CreateClientInput) (*entity.Client, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.NewBadRequestError("Name is required")
	}
	if err := s.billing.CanCreateClient(ctx, input.UserID); err != nil {
		return nil, err
	}

	client := &entity.Client{
		UserID:  input.UserID,
		Name:    input.Name,
		Email:   input.Email,
		Address: input.Address,
		Siret:   input.Siret,
		Notes:   input.Notes,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	if err := s.billing.RecordClientCreated(ctx, input.UserID); err != nil {
		return nil, err
	}
	return client, nil
}

// GetClient retrieves a client by ID
func (s *ClientService) GetClient(ctx context.Context, userID, id uuid.UUID) (*entity.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.NewNotFoundError("Client")
	}
	if client.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	return client, nil
}

// ListClients lists a user's clients with optional name/email search
func (s *ClientService) ListClients(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Client], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	clients, total, err := s.clientRepo.List(ctx, userID, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(clients, pag), nil
}

// UpdateClientInput represents the update client input
type UpdateClientInput struct {
	UserID  uuid.UUID
	ID      uuid.UUID
	Name    *string
	Email   *string
	Address *string
	Siret   *string
	Notes   *string
}

// UpdateClient updates a client
func (s *ClientService) UpdateClient(ctx context.Context, input *UpdateClientInput) (*entity.Client, error) {
	client, err := s.GetClient(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperror.NewBadRequestError("Name is required")
		}
		client.Name = *input.Name
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.Address != nil {
		client.Address = *input.Address
	}
	if input.Siret != nil {
		client.Siret = *input.Siret
	}
	if input.Notes != nil {
		client.Notes = input.Notes
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// DeleteClient deletes a client. Deleting a client does not refund quota;
// the counter tracks creations, not live rows.
func (s *ClientService) DeleteClient(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.GetClient(ctx, userID, id); err != nil {
		return err
	}
	return s.clientRepo.Delete(ctx, id)
}
