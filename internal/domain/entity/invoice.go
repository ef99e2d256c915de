package entity

import (
	"time"

	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice represents a billing document, either an invoice or a quote.
// Subtotal, tax and total are always derived from the items, never edited
// independently.
type Invoice struct {
	ID       uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	UserID   uuid.UUID         `gorm:"type:uuid;not null;index;uniqueIndex:idx_invoices_user_number" json:"user_id"`
	ClientID uuid.UUID         `gorm:"type:uuid;not null;index" json:"client_id"`
	Type     enum.DocumentType `gorm:"default:0" json:"type"`
	// Numbers are unique per user, not globally; the composite index backs
	// the sequence collision retry in the invoice service.
	Number string `gorm:"size:100;not null;uniqueIndex:idx_invoices_user_number" json:"number"`
	// Sequence is the per-user monotonic counter behind Number. Kept as a
	// column so the next free value can be derived with a MAX query instead
	// of parsing number strings.
	Sequence int                `gorm:"not null;default:0" json:"-"`
	Date     time.Time          `gorm:"type:date;not null" json:"date"`
	DueDate  *time.Time         `gorm:"type:date" json:"due_date,omitempty"`
	Status   enum.InvoiceStatus `gorm:"default:0" json:"status"`
	Notes    *string            `gorm:"type:text" json:"notes,omitempty"`

	Subtotal  float64 `gorm:"type:decimal(15,2);default:0" json:"subtotal"`
	TaxAmount float64 `gorm:"type:decimal(15,2);default:0" json:"tax_amount"`
	Total     float64 `gorm:"type:decimal(15,2);default:0" json:"total"`

	// Provenance: set when the document came from a quote conversion or a
	// recurring generation run.
	ConvertedFromQuoteID     *uuid.UUID `gorm:"type:uuid" json:"converted_from_quote_id,omitempty"`
	SourceRecurringInvoiceID *uuid.UUID `gorm:"type:uuid;index" json:"source_recurring_invoice_id,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User   User          `gorm:"foreignKey:UserID" json:"-"`
	Client *Client       `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Items  []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem represents a line item on a document. ProductID and ServiceID
// are mutually exclusive catalog links.
type InvoiceItem struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Description string     `gorm:"size:500;not null" json:"description"`
	Quantity    float64    `gorm:"type:decimal(10,2);not null" json:"quantity"`
	UnitPrice   float64    `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	VatRate     float64    `gorm:"type:decimal(5,2);default:0" json:"vat_rate"`
	ProductID   *uuid.UUID `gorm:"type:uuid" json:"product_id,omitempty"`
	ServiceID   *uuid.UUID `gorm:"type:uuid" json:"service_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relationships
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new invoice item
func (ii *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if ii.ID == uuid.Nil {
		ii.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}
