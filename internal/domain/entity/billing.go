package entity

import (
	"time"

	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserSubscription ties a user to a plan for a billing period. Status
// transitions are driven by the payment provider, except the cancel flag
// which this application owns.
type UserSubscription struct {
	ID                 uuid.UUID               `gorm:"type:uuid;primary_key" json:"id"`
	UserID             uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	PlanID             PlanID                  `gorm:"size:50;not null;default:'free'" json:"plan_id"`
	Status             enum.SubscriptionStatus `gorm:"default:2" json:"status"`
	CurrentPeriodStart time.Time               `gorm:"not null" json:"current_period_start"`
	CurrentPeriodEnd   time.Time               `gorm:"not null" json:"current_period_end"`
	CancelAtPeriodEnd  bool                    `gorm:"default:false" json:"cancel_at_period_end"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
	DeletedAt          gorm.DeletedAt          `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new subscription
func (s *UserSubscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the UserSubscription model
func (UserSubscription) TableName() string {
	return "user_subscriptions"
}

// UserUsage counts quota-consuming creations. Invoice counts reset with each
// billing period; client and recurring counts are lifetime totals. The
// gatekeeper always reads the row matching the subscription's current period.
type UserUsage struct {
	ID                     uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID                 uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_usage_user_period" json:"user_id"`
	PeriodStart            time.Time      `gorm:"not null;uniqueIndex:idx_usage_user_period" json:"period_start"`
	PeriodEnd              time.Time      `gorm:"not null" json:"period_end"`
	InvoicesCreatedPeriod  int            `gorm:"default:0" json:"invoices_created_current_period"`
	ClientsCreatedTotal    int            `gorm:"default:0" json:"clients_created_total"`
	RecurringCreatedTotal  int            `gorm:"default:0" json:"recurring_invoices_created_total"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new usage row
func (u *UserUsage) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the UserUsage model
func (UserUsage) TableName() string {
	return "user_usages"
}
