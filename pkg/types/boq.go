package types

import "github.com/shopspring/decimal"

// ItemDependency declares that one unit of an item needs Quantity units of
// ItemID.
type ItemDependency struct {
	ItemID   string          `json:"itemId"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CatalogItem is a sanitized catalog entry.
type CatalogItem struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	Unit         string           `json:"unit"`
	UnitPrice    decimal.Decimal  `json:"unitPrice"`
	PricingTerm  string           `json:"pricingTerm,omitempty"`
	Tags         []string         `json:"tags"`
	Description  string           `json:"description,omitempty"`
	Dependencies []ItemDependency `json:"dependencies"`
}

// BOQLine is a catalog item placed in a project with a quantity. Name and
// Dependencies are a snapshot of the item taken when the line was added.
type BOQLine struct {
	ID           string           `json:"id"`
	Name         string           `json:"name,omitempty"`
	Unit         string           `json:"unit,omitempty"`
	Quantity     decimal.Decimal  `json:"quantity"`
	Dependencies []ItemDependency `json:"dependencies,omitempty"`
}

// Requester is one BOQ line contributing to a missing dependency.
type Requester struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
}

// MissingDependency is a catalog item required by the BOQ but absent from it.
type MissingDependency struct {
	ItemID        string          `json:"itemId"`
	Item          CatalogItem     `json:"item"`
	RequiredBy    []Requester     `json:"requiredBy"`
	TotalQuantity decimal.Decimal `json:"totalQuantity"`
}
