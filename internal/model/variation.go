package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductVariation is a purchasable configuration of a product, identified
// within the product by its attribute map.
type ProductVariation struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariantName       string          `gorm:"index"`
	Attributes        Attributes      `gorm:"type:jsonb;not null"`
	QuantityAvailable int             `gorm:"not null;default:0"`
	Price             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	State             LifecycleState  `gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// OwnerID resolves the seller through the parent product, which must be
// loaded alongside the variation.
func (v *ProductVariation) OwnerID() uuid.UUID {
	if v.Product == nil {
		return uuid.Nil
	}
	return v.Product.SellerID
}

func (v *ProductVariation) IsActive() bool  { return v.State.IsActive() }
func (v *ProductVariation) IsDeleted() bool { return v.State.IsDeleted() }

func (v *ProductVariation) BeforeSave(*gorm.DB) error { return checkState(v.State) }

// EncodedAttributes is a variation's attribute map as stored, paired with
// the variation it belongs to.
type EncodedAttributes struct {
	VariationID uuid.UUID
	Raw         []byte
}
