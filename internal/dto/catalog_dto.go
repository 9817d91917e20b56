package dto

import (
	"time"

	"buyonline/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name        string  `json:"name"        validate:"required,min=2,max=150"`
	Brand       string  `json:"brand"       validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	CategoryID  string  `json:"category_id" validate:"required,uuid"`
}

// UpdateProductRequest carries optional fields; nil means "leave as is".
type UpdateProductRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=2,max=150"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Cancellable *bool   `json:"cancellable"`
	Returnable  *bool   `json:"returnable"`
}

// Quantity and price are range-checked by the service so the caller gets the
// catalog's own message instead of a field tag.
type CreateVariationRequest struct {
	VariantName       *string          `json:"variant_name" validate:"omitempty,max=150"`
	Attributes        model.Attributes `json:"attributes"`
	QuantityAvailable int              `json:"quantity_available"`
	Price             decimal.Decimal  `json:"price"`
}

type UpdateVariationRequest struct {
	VariantName       *string          `json:"variant_name" validate:"omitempty,max=150"`
	Attributes        model.Attributes `json:"attributes"`
	QuantityAvailable *int             `json:"quantity_available"`
	Price             *decimal.Decimal `json:"price"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VariationResponse struct {
	ID                string           `json:"id"`
	ProductID         string           `json:"product_id"`
	VariantName       string           `json:"variant_name"`
	Attributes        model.Attributes `json:"attributes"`
	QuantityAvailable int              `json:"quantity_available"`
	Price             decimal.Decimal  `json:"price"`
	State             string           `json:"state"`
}

type ProductResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Slug        string              `json:"slug"`
	Brand       string              `json:"brand"`
	Description string              `json:"description"`
	CategoryID  string              `json:"category_id"`
	SellerID    string              `json:"seller_id"`
	SellerEmail string              `json:"seller_email,omitempty"`
	State       string              `json:"state"`
	Cancellable bool                `json:"cancellable"`
	Returnable  bool                `json:"returnable"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Variations  []VariationResponse `json:"variations"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int               `json:"total"`
}

// OutcomeResponse reports a lifecycle call that either changed state or was
// a no-op. Failures never use this shape.
type OutcomeResponse struct {
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

// CategoryResponse describes one node of the category tree. Products can
// only be listed under nodes with Leaf set.
type CategoryResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	ParentID       *string  `json:"parent_id"`
	Leaf           bool     `json:"leaf"`
	MetadataFields []string `json:"metadata_fields"`
}
