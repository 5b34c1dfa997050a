package dependencies

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/boq-builder/pkg/types"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func catalogFixture() []types.CatalogItem {
	return []types.CatalogItem{
		{ID: "A", Name: "A-name", Dependencies: []types.ItemDependency{{ItemID: "B", Quantity: dec("3")}}},
		{ID: "B", Name: "B-name"},
		{ID: "C", Name: "C-name", Dependencies: []types.ItemDependency{{ItemID: "B", Quantity: dec("0.1")}}},
		{ID: "D", Name: "D-name", Dependencies: []types.ItemDependency{
			{ItemID: "ghost", Quantity: dec("1")},
			{ItemID: "A", Quantity: dec("2")},
		}},
	}
}

func TestComputeMissingSingleRequester(t *testing.T) {
	got := ComputeMissing([]types.BOQLine{{ID: "A", Quantity: dec("2")}}, catalogFixture())

	if len(got) != 1 {
		t.Fatalf("expected one missing dependency, got %d", len(got))
	}
	m := got[0]
	if m.ItemID != "B" || m.Item.Name != "B-name" {
		t.Fatalf("unexpected dependency %+v", m)
	}
	if !m.TotalQuantity.Equal(dec("6")) {
		t.Fatalf("expected total 6, got %s", m.TotalQuantity)
	}
	if len(m.RequiredBy) != 1 || m.RequiredBy[0].Name != "A-name" || !m.RequiredBy[0].Quantity.Equal(dec("6")) {
		t.Fatalf("unexpected requesters %+v", m.RequiredBy)
	}
}

func TestComputeMissingSumsRequesters(t *testing.T) {
	lines := []types.BOQLine{
		{ID: "A", Quantity: dec("2")},
		{ID: "C", Quantity: dec("3")},
	}
	got := ComputeMissing(lines, catalogFixture())

	if len(got) != 1 {
		t.Fatalf("expected one missing dependency, got %d", len(got))
	}
	if len(got[0].RequiredBy) != 2 {
		t.Fatalf("expected two requesters, got %+v", got[0].RequiredBy)
	}
	if got[0].RequiredBy[0].Name != "A-name" || got[0].RequiredBy[1].Name != "C-name" {
		t.Fatalf("requesters out of line order: %+v", got[0].RequiredBy)
	}
	if !got[0].RequiredBy[1].Quantity.Equal(dec("0.3")) {
		t.Fatalf("expected exact 0.3, got %s", got[0].RequiredBy[1].Quantity)
	}
	if !got[0].TotalQuantity.Equal(dec("6.3")) {
		t.Fatalf("expected total 6.3, got %s", got[0].TotalQuantity)
	}
}

func TestComputeMissingSkipsPresentAndUnknown(t *testing.T) {
	lines := []types.BOQLine{
		{ID: "D", Quantity: dec("1")},
		{ID: "A", Quantity: dec("1")},
		{ID: "B", Quantity: dec("1")},
	}
	if got := ComputeMissing(lines, catalogFixture()); len(got) != 0 {
		t.Fatalf("expected nothing missing, got %+v", got)
	}

	got := ComputeMissing([]types.BOQLine{{ID: "D", Quantity: dec("1")}}, catalogFixture())
	if len(got) != 1 || got[0].ItemID != "A" {
		t.Fatalf("expected only A to be suggested, got %+v", got)
	}
}

func TestComputeMissingFallsBackToLineSnapshot(t *testing.T) {
	lines := []types.BOQLine{{
		ID:           "retired",
		Name:         "Retired item",
		Quantity:     dec("4"),
		Dependencies: []types.ItemDependency{{ItemID: "B", Quantity: dec("0.5")}},
	}}
	got := ComputeMissing(lines, catalogFixture())

	if len(got) != 1 || got[0].RequiredBy[0].Name != "Retired item" || !got[0].TotalQuantity.Equal(dec("2")) {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestComputeMissingOrderAndIdempotence(t *testing.T) {
	catalog := []types.CatalogItem{
		{ID: "P", Name: "P", Dependencies: []types.ItemDependency{
			{ItemID: "Y", Quantity: dec("1")},
			{ItemID: "X", Quantity: dec("1")},
		}},
		{ID: "Q", Name: "Q", Dependencies: []types.ItemDependency{{ItemID: "Z", Quantity: dec("1")}, {ItemID: "X", Quantity: dec("2")}}},
		{ID: "X", Name: "X"},
		{ID: "Y", Name: "Y"},
		{ID: "Z", Name: "Z"},
	}
	lines := []types.BOQLine{{ID: "P", Quantity: dec("1")}, {ID: "Q", Quantity: dec("1")}}

	first := ComputeMissing(lines, catalog)
	var ids []string
	for _, m := range first {
		ids = append(ids, m.ItemID)
	}
	if !reflect.DeepEqual(ids, []string{"Y", "X", "Z"}) {
		t.Fatalf("unexpected order %v", ids)
	}
	if second := ComputeMissing(lines, catalog); !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output on repeat")
	}
}

func TestComputeMissingEmpty(t *testing.T) {
	got := ComputeMissing(nil, nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestFind(t *testing.T) {
	missing := ComputeMissing([]types.BOQLine{{ID: "A", Quantity: dec("1")}}, catalogFixture())
	if _, ok := Find(missing, "B"); !ok {
		t.Fatalf("expected B to be found")
	}
	if _, ok := Find(missing, "A"); ok {
		t.Fatalf("did not expect A")
	}
}
