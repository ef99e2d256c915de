package request

// CreateProductRequest represents a catalog product creation request
type CreateProductRequest struct {
	Name         string  `json:"name" binding:"required,max=255"`
	Description  string  `json:"description"`
	DefaultPrice float64 `json:"default_price" binding:"min=0"`
	VatRate      float64 `json:"vat_rate" binding:"min=0,max=100"`
	Unit         string  `json:"unit" binding:"omitempty,max=50"`
}

// UpdateProductRequest represents a catalog product update request
type UpdateProductRequest struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	DefaultPrice *float64 `json:"default_price"`
	VatRate      *float64 `json:"vat_rate"`
	Unit         *string  `json:"unit"`
}

// CreateServiceRequest represents a catalog service creation request
type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price" binding:"min=0"`
	VatRate     float64 `json:"vat_rate" binding:"min=0,max=100"`
}

// UpdateServiceRequest represents a catalog service update request
type UpdateServiceRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	UnitPrice   *float64 `json:"unit_price"`
	VatRate     *float64 `json:"vat_rate"`
	IsActive    *bool    `json:"is_active"`
}
