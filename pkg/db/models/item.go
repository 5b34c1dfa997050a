package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/boq-builder/pkg/types"
)

// Item is a sanitized catalog entry.
type Item struct {
	ID           string           `gorm:"column:id;primaryKey"`
	Name         string           `gorm:"column:name;not null"`
	Category     string           `gorm:"column:category;not null;index:idx_items_category"`
	Unit         string           `gorm:"column:unit;not null"`
	UnitPrice    decimal.Decimal  `gorm:"column:unit_price;type:numeric(12,2);not null"`
	PricingTerm  string           `gorm:"column:pricing_term;not null;default:''"`
	Tags         []string         `gorm:"column:tags;type:text;serializer:json;not null"`
	Description  string           `gorm:"column:description;not null;default:''"`
	Dependencies []ItemDependency `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// ToCatalogItem converts the row into the domain type.
func (i Item) ToCatalogItem() types.CatalogItem {
	tags := i.Tags
	if tags == nil {
		tags = []string{}
	}
	deps := make([]types.ItemDependency, 0, len(i.Dependencies))
	for _, d := range i.Dependencies {
		deps = append(deps, types.ItemDependency{ItemID: d.DependsOnID, Quantity: d.Quantity})
	}
	return types.CatalogItem{
		ID:           i.ID,
		Name:         i.Name,
		Category:     i.Category,
		Unit:         i.Unit,
		UnitPrice:    i.UnitPrice,
		PricingTerm:  i.PricingTerm,
		Tags:         tags,
		Description:  i.Description,
		Dependencies: deps,
	}
}

// ItemDependency stores one declared prerequisite of an item. DependsOnID is
// not a foreign key: dependencies may name items not yet in the catalog.
type ItemDependency struct {
	ItemID      string          `gorm:"column:item_id;primaryKey"`
	DependsOnID string          `gorm:"column:depends_on_id;primaryKey"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:numeric(14,4);not null"`
	Position    int             `gorm:"column:position;not null;default:0"`
}

func (ItemDependency) TableName() string {
	return "item_dependencies"
}
