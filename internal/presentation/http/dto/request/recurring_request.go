package request

// CreateRecurringInvoiceRequest represents a recurring template creation
// request. Dates use the YYYY-MM-DD format.
type CreateRecurringInvoiceRequest struct {
	ClientID  string            `json:"client_id" binding:"required,uuid"`
	Label     string            `json:"label" binding:"required,max=255"`
	Frequency string            `json:"frequency" binding:"required,oneof=WEEKLY MONTHLY YEARLY"`
	StartDate string            `json:"start_date" binding:"required"`
	EndDate   *string           `json:"end_date"`
	Items     []LineItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateRecurringInvoiceRequest represents a template update request.
// ClearEndDate removes an existing end date; it wins over EndDate.
type UpdateRecurringInvoiceRequest struct {
	ClientID     *string           `json:"client_id" binding:"omitempty,uuid"`
	Label        *string           `json:"label"`
	Frequency    *string           `json:"frequency" binding:"omitempty,oneof=WEEKLY MONTHLY YEARLY"`
	StartDate    *string           `json:"start_date"`
	EndDate      *string           `json:"end_date"`
	ClearEndDate bool              `json:"clear_end_date"`
	Items        []LineItemRequest `json:"items" binding:"omitempty,min=1,dive"`
}

// SetRecurringActiveRequest pauses or resumes a template
type SetRecurringActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
