package catalog

import (
	"time"

	"github.com/angelmondragon/boq-builder/pkg/db/models"
	"github.com/angelmondragon/boq-builder/pkg/types"
	"github.com/angelmondragon/boq-builder/pkg/validation"
)

// ItemDTO is the API representation of a catalog item.
type ItemDTO struct {
	types.CatalogItem
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ItemListResult wraps one page of items.
type ItemListResult struct {
	Items      []ItemDTO `json:"items"`
	NextCursor string    `json:"nextCursor,omitempty"`
}

// CategoryDTO is the API representation of a category.
type CategoryDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ItemCount   int64     `json:"itemCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewItemDTO maps the persisted item.
func NewItemDTO(item *models.Item) *ItemDTO {
	if item == nil {
		return nil
	}
	return &ItemDTO{
		CatalogItem: item.ToCatalogItem(),
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func newCategoryDTO(category models.Category, count int64) CategoryDTO {
	return CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		ItemCount:   count,
		CreatedAt:   category.CreatedAt,
	}
}

// ItemRecord renders a catalog item as an engine record so partial updates
// can be merged over it and re-validated.
func ItemRecord(item types.CatalogItem) validation.Record {
	tags := make([]any, 0, len(item.Tags))
	for _, tag := range item.Tags {
		tags = append(tags, tag)
	}
	deps := make([]any, 0, len(item.Dependencies))
	for _, dep := range item.Dependencies {
		deps = append(deps, map[string]any{
			"itemId":   dep.ItemID,
			"quantity": dep.Quantity.InexactFloat64(),
		})
	}
	return validation.Record{
		"id":           item.ID,
		"name":         item.Name,
		"category":     item.Category,
		"unit":         item.Unit,
		"unitPrice":    item.UnitPrice.InexactFloat64(),
		"pricingTerm":  item.PricingTerm,
		"tags":         tags,
		"description":  item.Description,
		"dependencies": deps,
	}
}

// itemFromRecord maps a sanitized, valid item record onto the model.
func itemFromRecord(rec validation.Record) *models.Item {
	item := &models.Item{
		ID:          rec.Text("id"),
		Name:        rec.Text("name"),
		Category:    rec.Text("category"),
		Unit:        rec.Text("unit"),
		UnitPrice:   rec.Decimal("unitPrice").Round(validation.MoneyScale),
		PricingTerm: rec.Text("pricingTerm"),
		Description: rec.Text("description"),
		Tags:        []string{},
	}

	switch tags := rec["tags"].(type) {
	case []string:
		item.Tags = append(item.Tags, tags...)
	case []any:
		for _, tag := range tags {
			if s, ok := tag.(string); ok {
				item.Tags = append(item.Tags, s)
			}
		}
	}

	if deps, ok := rec["dependencies"].([]any); ok {
		for _, entry := range deps {
			obj, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			dep := validation.Record(obj)
			item.Dependencies = append(item.Dependencies, models.ItemDependency{
				DependsOnID: dep.Text("itemId"),
				Quantity:    dep.Decimal("quantity").Round(validation.QuantityScale),
			})
		}
	}
	return item
}
