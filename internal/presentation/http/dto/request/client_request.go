package request

// CreateClientRequest represents a client creation request
type CreateClientRequest struct {
	Name    string  `json:"name" binding:"required,max=255"`
	Email   string  `json:"email" binding:"omitempty,email"`
	Address string  `json:"address"`
	Siret   string  `json:"siret" binding:"omitempty,max=20"`
	Notes   *string `json:"notes"`
}

// UpdateClientRequest represents a client update request
type UpdateClientRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address *string `json:"address"`
	Siret   *string `json:"siret"`
	Notes   *string `json:"notes"`
}
