package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Product is a seller's listing. SellerID and CategoryID never change after
// creation; State starts as StateDraft and only an admin can activate it.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"not null;uniqueIndex:idx_product_ownership"`
	Slug        string    `gorm:"index;not null"`
	Description string
	Brand       string         `gorm:"not null;uniqueIndex:idx_product_ownership"`
	SellerID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_product_ownership"`
	CategoryID  uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_product_ownership"`
	State       LifecycleState `gorm:"type:varchar(20);not null;default:'draft'"`
	Cancellable bool           `gorm:"not null;default:false"`
	Returnable  bool           `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Seller     *User              `gorm:"foreignKey:SellerID"`
	Category   *Category          `gorm:"foreignKey:CategoryID"`
	Variations []ProductVariation `gorm:"foreignKey:ProductID"`
}

func (p *Product) OwnerID() uuid.UUID { return p.SellerID }

func (p *Product) IsActive() bool  { return p.State.IsActive() }
func (p *Product) IsDeleted() bool { return p.State.IsDeleted() }

// Visible reports whether customers may see the product.
func (p *Product) Visible() bool { return p.State.IsActive() }

// RefreshSlug derives the URL slug from brand and name.
func (p *Product) RefreshSlug() {
	p.Slug = slug.Make(strings.TrimSpace(p.Brand + " " + p.Name))
}

// BeforeSave keeps unknown states out of the table.
func (p *Product) BeforeSave(*gorm.DB) error { return checkState(p.State) }
