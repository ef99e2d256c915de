package entity

import "github.com/facturio/facturio-api/internal/domain/enum"

// DraftStatus tells whether the assistant produced a usable draft or needs
// more information from the user.
type DraftStatus string

const (
	DraftStatusOK       DraftStatus = "OK"
	DraftStatusNeedInfo DraftStatus = "NEED_INFO"
)

// DraftEntityType identifies which kind of record a draft proposes.
type DraftEntityType string

const (
	DraftEntityDocument    DraftEntityType = "DOCUMENT"
	DraftEntityClient      DraftEntityType = "CLIENT"
	DraftEntityCatalogItem DraftEntityType = "CATALOG_ITEM"
)

// DraftEnvelope is the assistant's structured answer. Exactly one of the
// payload pointers matching EntityType is set when Status is OK; Questions is
// set when Status is NEED_INFO. Drafts are proposals only, nothing is
// persisted until the user accepts one.
type DraftEnvelope struct {
	Status      DraftStatus       `json:"status"`
	EntityType  DraftEntityType   `json:"entity_type,omitempty"`
	Document    *DocumentDraft    `json:"document,omitempty"`
	Client      *ClientDraft      `json:"client,omitempty"`
	CatalogItem *CatalogItemDraft `json:"catalog_item,omitempty"`
	Questions   []string          `json:"questions,omitempty"`
}

// DraftLine is a proposed document line. VatRate is a pointer because the
// assistant often omits it; acceptance fills it from the company default.
type DraftLine struct {
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   float64  `json:"unit_price"`
	VatRate     *float64 `json:"vat_rate,omitempty"`
}

// DocumentDraft proposes an invoice or quote. The client is referenced by
// name, not ID; acceptance resolves it against the user's existing clients
// and falls back to creating one from the optional Client details.
type DocumentDraft struct {
	Type       enum.DocumentType `json:"type"`
	ClientName string            `json:"client_name"`
	Client     *ClientDraft      `json:"client,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	Lines      []DraftLine       `json:"lines"`
}

// ClientDraft proposes a new client record.
type ClientDraft struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	Siret   string `json:"siret,omitempty"`
}

// CatalogItemKind distinguishes product drafts from service drafts.
type CatalogItemKind string

const (
	CatalogItemProduct CatalogItemKind = "PRODUCT"
	CatalogItemService CatalogItemKind = "SERVICE"
)

// CatalogItemDraft proposes a new catalog entry.
type CatalogItemDraft struct {
	Kind        CatalogItemKind `json:"kind"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	UnitPrice   float64         `json:"unit_price"`
	VatRate     *float64        `json:"vat_rate,omitempty"`
	Unit        string          `json:"unit,omitempty"`
}
