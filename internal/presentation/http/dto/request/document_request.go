package request

// LineItemRequest represents one document or template line
type LineItemRequest struct {
	Description string  `json:"description" binding:"required"`
	Quantity    float64 `json:"quantity" binding:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" binding:"min=0"`
	VatRate     float64 `json:"vat_rate" binding:"min=0,max=100"`
	ProductID   *string `json:"product_id"`
	ServiceID   *string `json:"service_id"`
}

// CreateDocumentRequest represents an invoice or quote creation request.
// Dates use the YYYY-MM-DD format.
type CreateDocumentRequest struct {
	Type     string            `json:"type" binding:"required,oneof=INVOICE QUOTE"`
	ClientID string            `json:"client_id" binding:"required,uuid"`
	Date     *string           `json:"date"`
	DueDate  *string           `json:"due_date"`
	Notes    *string           `json:"notes"`
	Items    []LineItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateDocumentRequest represents a document update request. Omitted fields
// keep their value; when items are present the full line list is replaced.
type UpdateDocumentRequest struct {
	ClientID *string           `json:"client_id" binding:"omitempty,uuid"`
	Date     *string           `json:"date"`
	DueDate  *string           `json:"due_date"`
	Notes    *string           `json:"notes"`
	Items    []LineItemRequest `json:"items" binding:"omitempty,min=1,dive"`
}

// UpdateDocumentStatusRequest represents a status transition request
type UpdateDocumentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
