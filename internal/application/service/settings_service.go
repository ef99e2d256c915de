package service

import (
	"context"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/facturio/facturio-api/pkg/apperror"
	"github.com/google/uuid"
)

// SettingsService handles the company settings profile. Every user has
// exactly one row, created lazily with sensible defaults.
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// GetSettings returns the user's company settings, creating the default row
// on first access.
func (s *SettingsService) GetSettings(ctx context.Context, userID uuid.UUID) (*entity.CompanySettings, error) {
	settings, err := s.settingsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		return settings, nil
	}

	settings = &entity.CompanySettings{
		UserID:         userID,
		IsVatSubject:   true,
		DefaultVatRate: 20,
		PrimaryColor:   "#4f46e5",
	}
	if err := s.settingsRepo.Create(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateSettingsInput represents the update settings input
type UpdateSettingsInput struct {
	UserID         uuid.UUID
	Name           *string
	Address        *string
	Email          *string
	Phone          *string
	Siret          *string
	VatNumber      *string
	IsVatSubject   *bool
	DefaultVatRate *float64
	LogoURL        *string
	PaymentRib     *string
	PaymentTerms   *string
	PrimaryColor   *string
}

// UpdateSettings updates the company settings. Changing the VAT posture only
// affects documents computed afterwards; stored totals are never rewritten.
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.CompanySettings, error) {
	settings, err := s.GetSettings(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		settings.Name = *input.Name
	}
	if input.Address != nil {
		settings.Address = *input.Address
	}
	if input.Email != nil {
		settings.Email = *input.Email
	}
	if input.Phone != nil {
		settings.Phone = *input.Phone
	}
	if input.Siret != nil {
		settings.Siret = *input.Siret
	}
	if input.VatNumber != nil {
		settings.VatNumber = input.VatNumber
	}
	if input.IsVatSubject != nil {
		settings.IsVatSubject = *input.IsVatSubject
	}
	if input.DefaultVatRate != nil {
		if *input.DefaultVatRate < 0 || *input.DefaultVatRate > 100 {
			return nil, apperror.NewBadRequestError("Default VAT rate must be between 0 and 100")
		}
		settings.DefaultVatRate = *input.DefaultVatRate
	}
	if input.LogoURL != nil {
		settings.LogoURL = input.LogoURL
	}
	if input.PaymentRib != nil {
		settings.PaymentRib = input.PaymentRib
	}
	if input.PaymentTerms != nil {
		settings.PaymentTerms = input.PaymentTerms
	}
	if input.PrimaryColor != nil {
		settings.PrimaryColor = *input.PrimaryColor
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
