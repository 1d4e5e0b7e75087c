package model

import (
	"time"

	"catalogbooking/internal/availability"
	"catalogbooking/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Category is the top level of the catalog. Its tax setting is the last
// fallback of tax inheritance.
type Category struct {
	ID            uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string           `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description   string           `gorm:"type:text" json:"description"`
	TaxApplicable *bool            `json:"tax_applicable"`
	TaxPercentage *decimal.Decimal `gorm:"type:decimal(5,2)" json:"tax_percentage"`
	IsActive      bool             `gorm:"not null;index" json:"is_active"`
	Subcategories []Subcategory    `gorm:"foreignKey:CategoryID" json:"subcategories,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Subcategory groups items under a category. A nil TaxApplicable inherits
// from the category.
type Subcategory struct {
	ID            uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CategoryID    uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_subcategory_name" json:"category_id"`
	Category      *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name          string           `gorm:"type:varchar(255);not null;uniqueIndex:idx_subcategory_name" json:"name"`
	Description   string           `gorm:"type:text" json:"description"`
	TaxApplicable *bool            `json:"tax_applicable"`
	TaxPercentage *decimal.Decimal `gorm:"type:decimal(5,2)" json:"tax_percentage"`
	IsActive      bool             `gorm:"not null;index" json:"is_active"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Item is a sellable, optionally bookable catalog entry. It belongs to exactly
// one of Category or Subcategory.
type Item struct {
	ID                 uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CategoryID         *uuid.UUID       `gorm:"type:uuid;index;check:chk_item_parent,(category_id IS NULL) <> (subcategory_id IS NULL)" json:"category_id"`
	Category           *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	SubcategoryID      *uuid.UUID       `gorm:"type:uuid;index" json:"subcategory_id"`
	Subcategory        *Subcategory     `gorm:"foreignKey:SubcategoryID" json:"subcategory,omitempty"`
	Name               string           `gorm:"type:varchar(255);not null" json:"name"`
	Description        string           `gorm:"type:text" json:"description"`
	PricingKind        pricing.Kind     `gorm:"type:varchar(20);not null;index" json:"pricing_kind"`
	PricingConfig      datatypes.JSON   `gorm:"type:jsonb;not null" json:"pricing_config"`
	TaxApplicable      *bool            `json:"tax_applicable"`
	TaxPercentage      *decimal.Decimal `gorm:"type:decimal(5,2)" json:"tax_percentage"`
	IsBookable         bool             `gorm:"not null" json:"is_bookable"`
	AvailabilityConfig datatypes.JSON   `gorm:"type:jsonb" json:"availability_config"`
	IsActive           bool             `gorm:"not null;index" json:"is_active"`
	Addons             []Addon          `gorm:"foreignKey:ItemID" json:"addons,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// Addon is an optional extra sold with an item.
type Addon struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	IsMandatory bool            `gorm:"not null" json:"is_mandatory"`
	IsActive    bool            `gorm:"not null;index" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Pricing decodes the item's pricing configuration for its kind.
func (i *Item) Pricing() (pricing.Config, error) {
	return pricing.ParseConfig(i.PricingKind, i.PricingConfig)
}

// Availability decodes the item's availability configuration; nil means unrestricted.
func (i *Item) Availability() (*availability.Config, error) {
	return availability.ParseConfig(i.AvailabilityConfig)
}

func (i *Item) TaxOverride() pricing.TaxOverride {
	return pricing.TaxOverride{Applicable: i.TaxApplicable, Percentage: i.TaxPercentage}
}

// TaxAncestors returns the subcategory and category overrides that take part
// in tax inheritance. The category is the subcategory's parent when the item
// sits under a subcategory.
func (i *Item) TaxAncestors() (subcategory, category *pricing.TaxOverride) {
	if i.Subcategory != nil {
		subcategory = &pricing.TaxOverride{Applicable: i.Subcategory.TaxApplicable, Percentage: i.Subcategory.TaxPercentage}
		if i.Subcategory.Category != nil {
			category = i.Subcategory.Category.taxOverride()
		}
		return subcategory, category
	}
	if i.Category != nil {
		category = i.Category.taxOverride()
	}
	return nil, category
}

func (c *Category) taxOverride() *pricing.TaxOverride {
	return &pricing.TaxOverride{Applicable: c.TaxApplicable, Percentage: c.TaxPercentage}
}
