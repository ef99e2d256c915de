package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// InvoiceStatus represents the lifecycle state of a document.
// DRAFT/SENT apply to both document types; PAID/OVERDUE are invoice-only,
// ACCEPTED/REJECTED are quote-only.
type InvoiceStatus int

const (
	InvoiceStatusDraft    InvoiceStatus = 0
	InvoiceStatusSent     InvoiceStatus = 1
	InvoiceStatusPaid     InvoiceStatus = 2
	InvoiceStatusOverdue  InvoiceStatus = 3
	InvoiceStatusAccepted InvoiceStatus = 4
	InvoiceStatusRejected InvoiceStatus = 5
)

func (s InvoiceStatus) String() string {
	return [...]string{"DRAFT", "SENT", "PAID", "OVERDUE", "ACCEPTED", "REJECTED"}[s]
}

// ParseInvoiceStatus parses a wire name like "DRAFT" or "PAID".
func ParseInvoiceStatus(s string) (InvoiceStatus, bool) {
	switch s {
	case "DRAFT":
		return InvoiceStatusDraft, true
	case "SENT":
		return InvoiceStatusSent, true
	case "PAID":
		return InvoiceStatusPaid, true
	case "OVERDUE":
		return InvoiceStatusOverdue, true
	case "ACCEPTED":
		return InvoiceStatusAccepted, true
	case "REJECTED":
		return InvoiceStatusRejected, true
	}
	return 0, false
}

func (s InvoiceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = InvoiceStatus(i)
		return nil
	}
	switch str {
	case "DRAFT":
		*s = InvoiceStatusDraft
	case "SENT":
		*s = InvoiceStatusSent
	case "PAID":
		*s = InvoiceStatusPaid
	case "OVERDUE":
		*s = InvoiceStatusOverdue
	case "ACCEPTED":
		*s = InvoiceStatusAccepted
	case "REJECTED":
		*s = InvoiceStatusRejected
	}
	return nil
}

// ValidForType reports whether the status is legal for the given document type.
func (s InvoiceStatus) ValidForType(t DocumentType) bool {
	switch s {
	case InvoiceStatusPaid, InvoiceStatusOverdue:
		return t == DocumentTypeInvoice
	case InvoiceStatusAccepted, InvoiceStatusRejected:
		return t == DocumentTypeQuote
	default:
		return true
	}
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	if value == nil {
		*s = InvoiceStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = InvoiceStatus(v)
	case int:
		*s = InvoiceStatus(v)
	}
	return nil
}
