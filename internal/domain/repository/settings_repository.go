package repository

import (
	"context"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/google/uuid"
)

// SettingsRepository defines the interface for company settings data access
type SettingsRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.CompanySettings, error)
	Create(ctx context.Context, settings *entity.CompanySettings) error
	Update(ctx context.Context, settings *entity.CompanySettings) error
}
