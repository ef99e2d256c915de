package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// DocumentType distinguishes invoices from quotes
type DocumentType int

const (
	DocumentTypeInvoice DocumentType = 0
	DocumentTypeQuote   DocumentType = 1
)

func (t DocumentType) String() string {
	return [...]string{"INVOICE", "QUOTE"}[t]
}

// ParseDocumentType parses a wire name like "INVOICE" or "QUOTE".
func ParseDocumentType(s string) (DocumentType, bool) {
	switch s {
	case "INVOICE":
		return DocumentTypeInvoice, true
	case "QUOTE":
		return DocumentTypeQuote, true
	}
	return 0, false
}

func (t DocumentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *DocumentType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = DocumentType(i)
		return nil
	}
	switch str {
	case "INVOICE":
		*t = DocumentTypeInvoice
	case "QUOTE":
		*t = DocumentTypeQuote
	}
	return nil
}

func (t DocumentType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *DocumentType) Scan(value interface{}) error {
	if value == nil {
		*t = DocumentTypeInvoice
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = DocumentType(v)
	case int:
		*t = DocumentType(v)
	}
	return nil
}
