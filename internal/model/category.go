package model

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products. ParentID == nil marks a root category.
type Category struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string     `gorm:"not null"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	MetadataFields []CategoryMetadataField `gorm:"foreignKey:CategoryID"`
}

// CategoryMetadataField names one attribute slot every variation of the
// category's products must fill.
type CategoryMetadataField struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string    `gorm:"not null;uniqueIndex:idx_category_field_name"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_category_field_name"`
	CreatedAt  time.Time
}

// IsRoot reports whether the category sits at the top of the tree.
func (c *Category) IsRoot() bool { return c.ParentID == nil }
