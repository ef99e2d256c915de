package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanySettings holds the issuing company profile for a user. One row per
// user. IsVatSubject drives whether generated documents carry tax at all;
// DefaultVatRate fills AI draft lines that come back without a rate.
type CompanySettings struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Name           string         `gorm:"size:255" json:"name"`
	Address        string         `gorm:"type:text" json:"address"`
	Email          string         `gorm:"size:255" json:"email"`
	Phone          string         `gorm:"size:50" json:"phone"`
	Siret          string         `gorm:"size:50" json:"siret"`
	VatNumber      *string        `gorm:"size:50" json:"vat_number,omitempty"`
	IsVatSubject   bool           `gorm:"default:true" json:"is_vat_subject"`
	DefaultVatRate float64        `gorm:"type:decimal(5,2);default:20" json:"default_vat_rate"`
	LogoURL        *string        `gorm:"size:255" json:"logo_url,omitempty"`
	PaymentRib     *string        `gorm:"size:100" json:"payment_rib,omitempty"`
	PaymentTerms   *string        `gorm:"type:text" json:"payment_terms,omitempty"`
	PrimaryColor   string         `gorm:"size:20;default:'#4f46e5'" json:"primary_color"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating new settings
func (s *CompanySettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CompanySettings model
func (CompanySettings) TableName() string {
	return "company_settings"
}
