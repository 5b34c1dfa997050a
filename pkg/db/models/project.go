package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/boq-builder/pkg/types"
)

// Project owns a bill of quantities.
type Project struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description;not null;default:''"`
	Lines       []BOQLine `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// BOQLine is one catalog item placed in a project. Name, unit, price and
// dependencies are snapshotted when the line is written so the BOQ survives
// catalog edits.
type BOQLine struct {
	ProjectID    string                 `gorm:"column:project_id;primaryKey"`
	ItemID       string                 `gorm:"column:item_id;primaryKey"`
	Name         string                 `gorm:"column:name;not null;default:''"`
	Unit         string                 `gorm:"column:unit;not null;default:''"`
	Quantity     decimal.Decimal        `gorm:"column:quantity;type:numeric(14,4);not null"`
	UnitPrice    decimal.Decimal        `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Dependencies []types.ItemDependency `gorm:"column:dependencies;type:text;serializer:json;not null"`
	Position     int                    `gorm:"column:position;not null;default:0"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (BOQLine) TableName() string {
	return "boq_lines"
}

// ToBOQLine converts the row into the resolver input.
func (l BOQLine) ToBOQLine() types.BOQLine {
	return types.BOQLine{
		ID:           l.ItemID,
		Name:         l.Name,
		Unit:         l.Unit,
		Quantity:     l.Quantity,
		Dependencies: l.Dependencies,
	}
}
