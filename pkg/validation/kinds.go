package validation

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/boq-builder/pkg/enums"
	pkgerrors "github.com/angelmondragon/boq-builder/pkg/errors"
)

// ValidatorFunc checks a record and returns its field errors. It must not
// modify rec.
type ValidatorFunc func(rec Record, cfg Config) FieldErrors

// SanitizerFunc returns a cleaned copy of rec.
type SanitizerFunc func(rec Record, cfg Config) Record

// Binding ties a record kind to its schema, validator and sanitizer.
type Binding struct {
	Kind     enums.RecordKind
	Schema   Schema
	Validate ValidatorFunc
	Sanitize SanitizerFunc
}

// ErrUnknownKind is returned for kinds without a registered binding.
var ErrUnknownKind = pkgerrors.New(pkgerrors.CodeUnknownKind, "unknown record kind")

var (
	itemSchema = Schema{
		{Name: "id", Type: FieldString},
		{Name: "name", Type: FieldString, Required: true, FreeText: true},
		{Name: "category", Type: FieldString, Required: true, FreeText: true},
		{Name: "unit", Type: FieldString, Required: true},
		{Name: "unitPrice", Type: FieldNumber, Required: true, Rules: "gte=0", Scale: MoneyScale},
		{Name: "pricingTerm", Type: FieldString, FreeText: true},
		{Name: "tags", Type: FieldTags},
		{Name: "description", Type: FieldString, FreeText: true},
		{Name: "dependencies", Type: FieldDependencies},
	}

	boqItemSchema = Schema{
		{Name: "id", Type: FieldString, Required: true},
		{Name: "name", Type: FieldString, FreeText: true},
		{Name: "unit", Type: FieldString},
		{Name: "quantity", Type: FieldNumber, Required: true, Rules: "gt=0", Scale: QuantityScale},
	}

	projectSchema = Schema{
		{Name: "name", Type: FieldString, Required: true, FreeText: true},
		{Name: "description", Type: FieldString, FreeText: true},
	}

	categorySchema = Schema{
		{Name: "name", Type: FieldString, Required: true, FreeText: true},
		{Name: "description", Type: FieldString, FreeText: true},
	}
)

var registry = map[enums.RecordKind]Binding{
	enums.RecordKindItem:     newBinding(enums.RecordKindItem, itemSchema, checkItemRules),
	enums.RecordKindBOQItem:  newBinding(enums.RecordKindBOQItem, boqItemSchema, checkBOQItemRules),
	enums.RecordKindProject:  newBinding(enums.RecordKindProject, projectSchema, nil),
	enums.RecordKindCategory: newBinding(enums.RecordKindCategory, categorySchema, nil),
}

func newBinding(kind enums.RecordKind, schema Schema, cross func(Record, Config, FieldErrors)) Binding {
	return Binding{
		Kind:   kind,
		Schema: schema,
		Validate: func(rec Record, cfg Config) FieldErrors {
			errs := checkSchema(schema, rec, cfg)
			if cross != nil && (!cfg.AbortEarly || len(errs) == 0) {
				cross(rec, cfg, errs)
			}
			return errs
		},
		Sanitize: func(rec Record, cfg Config) Record {
			return sanitizeRecord(schema, rec, cfg)
		},
	}
}

// Lookup returns the binding registered for kind.
func Lookup(kind enums.RecordKind) (Binding, error) {
	b, ok := registry[kind]
	if !ok {
		return Binding{}, pkgerrors.Wrap(pkgerrors.CodeUnknownKind, ErrUnknownKind, fmt.Sprintf("unknown record kind %q", kind)).
			WithDetails(map[string]any{"kind": string(kind), "supported": enums.RecordKinds()})
	}
	return b, nil
}

func mustLookup(kind enums.RecordKind) Binding {
	b, err := Lookup(kind)
	if err != nil {
		panic(err)
	}
	return b
}

// checkItemRules rejects an item that lists itself as a dependency.
func checkItemRules(rec Record, cfg Config, errs FieldErrors) {
	idValue, ok := rec["id"]
	if !ok || isBlank(idValue) {
		return
	}
	id, ok := toText(idValue, cfg.Transform)
	if !ok {
		return
	}
	id = strings.TrimSpace(id)
	deps, ok := asList(rec["dependencies"])
	if !ok {
		return
	}
	for i, entry := range deps {
		obj, ok := asObject(entry)
		if !ok {
			continue
		}
		depID, ok := toText(obj["itemId"], cfg.Transform)
		if !ok || strings.TrimSpace(depID) != id {
			continue
		}
		key := fmt.Sprintf("dependencies[%d].itemId", i)
		if _, exists := errs[key]; !exists {
			errs[key] = "cannot reference the item itself"
		}
		if cfg.AbortEarly {
			return
		}
	}
}

var countUnits = map[string]struct{}{
	"pcs": {}, "nos": {}, "no": {}, "each": {}, "ea": {},
	"unit": {}, "units": {}, "set": {}, "sets": {}, "pair": {}, "pairs": {},
}

// IsCountUnit reports whether unit measures discrete pieces.
func IsCountUnit(unit string) bool {
	_, ok := countUnits[strings.ToLower(strings.TrimSpace(unit))]
	return ok
}

// checkBOQItemRules requires whole quantities for count units.
func checkBOQItemRules(rec Record, cfg Config, errs FieldErrors) {
	if _, failed := errs["quantity"]; failed {
		return
	}
	unit, ok := toText(rec["unit"], cfg.Transform)
	if !ok || !IsCountUnit(unit) {
		return
	}
	q, ok := toNumber(rec["quantity"], cfg.Transform)
	if !ok {
		return
	}
	if _, ok := checkVar(q, "whole"); !ok {
		errs["quantity"] = fmt.Sprintf("must be a whole number for unit %q", strings.TrimSpace(unit))
	}
}
