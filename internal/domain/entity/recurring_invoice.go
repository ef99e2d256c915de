package entity

import (
	"time"

	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecurringInvoice is a template that periodically materializes invoices.
// NextRunDate is always on or after the most recent generation and never
// before StartDate. An inactive template keeps its schedule state so
// reactivation resumes where it left off.
type RecurringInvoice struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	ClientID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"client_id"`
	Label       string         `gorm:"size:255;not null" json:"label"`
	Frequency   enum.Frequency `gorm:"default:1" json:"frequency"`
	StartDate   time.Time      `gorm:"type:date;not null" json:"start_date"`
	EndDate     *time.Time     `gorm:"type:date" json:"end_date,omitempty"`
	NextRunDate time.Time      `gorm:"type:date;not null;index" json:"next_run_date"`
	LastRunDate *time.Time     `gorm:"type:date" json:"last_run_date,omitempty"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User   User                   `gorm:"foreignKey:UserID" json:"-"`
	Client *Client                `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Items  []RecurringInvoiceItem `gorm:"foreignKey:RecurringInvoiceID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new recurring invoice
func (r *RecurringInvoice) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the RecurringInvoice model
func (RecurringInvoice) TableName() string {
	return "recurring_invoices"
}

// RecurringInvoiceItem is a template line item. Generation clones these into
// invoice items so later edits to either side do not cross-contaminate.
type RecurringInvoiceItem struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	RecurringInvoiceID uuid.UUID  `gorm:"type:uuid;not null;index" json:"recurring_invoice_id"`
	Description        string     `gorm:"size:500;not null" json:"description"`
	Quantity           float64    `gorm:"type:decimal(10,2);not null" json:"quantity"`
	UnitPrice          float64    `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	VatRate            float64    `gorm:"type:decimal(5,2);default:0" json:"vat_rate"`
	ProductID          *uuid.UUID `gorm:"type:uuid" json:"product_id,omitempty"`
	ServiceID          *uuid.UUID `gorm:"type:uuid" json:"service_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	// Relationships
	RecurringInvoice RecurringInvoice `gorm:"foreignKey:RecurringInvoiceID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new template item
func (ri *RecurringInvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the RecurringInvoiceItem model
func (RecurringInvoiceItem) TableName() string {
	return "recurring_invoice_items"
}
