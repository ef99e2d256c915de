package request

// UpdateSettingsRequest represents a company settings update request.
// Omitted fields keep their current value.
type UpdateSettingsRequest struct {
	Name           *string  `json:"name"`
	Address        *string  `json:"address"`
	Email          *string  `json:"email" binding:"omitempty,email"`
	Phone          *string  `json:"phone"`
	Siret          *string  `json:"siret"`
	VatNumber      *string  `json:"vat_number"`
	IsVatSubject   *bool    `json:"is_vat_subject"`
	DefaultVatRate *float64 `json:"default_vat_rate"`
	LogoURL        *string  `json:"logo_url"`
	PaymentRib     *string  `json:"payment_rib"`
	PaymentTerms   *string  `json:"payment_terms"`
	PrimaryColor   *string  `json:"primary_color"`
}
