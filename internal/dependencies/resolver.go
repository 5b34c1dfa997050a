// Package dependencies derives the catalog items a BOQ still needs.
package dependencies

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/boq-builder/pkg/types"
)

// ComputeMissing returns the dependencies declared by BOQ lines whose target
// item is in the catalog but not in the BOQ. Each line contributes
// line quantity × dependency quantity. Results are ordered by first
// occurrence; requesters follow line order. Unknown dependency targets are
// skipped.
func ComputeMissing(lines []types.BOQLine, catalog []types.CatalogItem) []types.MissingDependency {
	inBOQ := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		inBOQ[line.ID] = struct{}{}
	}

	byID := make(map[string]types.CatalogItem, len(catalog))
	for _, item := range catalog {
		if _, dup := byID[item.ID]; !dup {
			byID[item.ID] = item
		}
	}

	var order []string
	found := make(map[string]*types.MissingDependency)

	for _, line := range lines {
		name, deps := line.Name, line.Dependencies
		if parent, ok := byID[line.ID]; ok {
			name, deps = parent.Name, parent.Dependencies
		}

		for _, dep := range deps {
			if _, present := inBOQ[dep.ItemID]; present {
				continue
			}
			target, ok := byID[dep.ItemID]
			if !ok {
				continue
			}

			qty := line.Quantity.Mul(dep.Quantity)
			missing, seen := found[dep.ItemID]
			if !seen {
				missing = &types.MissingDependency{
					ItemID:        dep.ItemID,
					Item:          target,
					TotalQuantity: decimal.Zero,
				}
				found[dep.ItemID] = missing
				order = append(order, dep.ItemID)
			}
			missing.RequiredBy = append(missing.RequiredBy, types.Requester{Name: name, Quantity: qty})
			missing.TotalQuantity = missing.TotalQuantity.Add(qty)
		}
	}

	out := make([]types.MissingDependency, 0, len(order))
	for _, id := range order {
		out = append(out, *found[id])
	}
	return out
}

// Find returns the missing dependency for itemID, if any.
func Find(missing []types.MissingDependency, itemID string) (types.MissingDependency, bool) {
	for _, m := range missing {
		if m.ItemID == itemID {
			return m, true
		}
	}
	return types.MissingDependency{}, false
}
