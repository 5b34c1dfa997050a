package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/boq-builder/pkg/pagination"
)

// ItemListFilters describe the supported filter knobs for the browse endpoint.
type ItemListFilters struct {
	Category string           `json:"category,omitempty"`
	Tag      string           `json:"tag,omitempty"`
	PriceMin *decimal.Decimal `json:"price_min,omitempty"`
	PriceMax *decimal.Decimal `json:"price_max,omitempty"`
	Query    string           `json:"q,omitempty"`
}

// ListItemsInput captures the inputs needed to paginate/filter catalog items.
type ListItemsInput struct {
	Filters    ItemListFilters
	Pagination pagination.Params
}
