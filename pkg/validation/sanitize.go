package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Rounding scales for numeric fields.
const (
	MoneyScale    int32 = 2
	QuantityScale int32 = 4
)

// sanitizeRecord returns a cleaned copy of rec. The input is not modified.
func sanitizeRecord(schema Schema, rec Record, cfg Config) Record {
	out := make(Record, len(rec))
	for key, value := range rec {
		spec, known := schema.Field(key)
		if !known {
			if !cfg.StripUnknown {
				out[key] = cloneValue(value)
			}
			continue
		}
		out[key] = sanitizeValue(spec, value, cfg)
	}
	return out
}

func sanitizeValue(spec FieldSpec, value any, cfg Config) any {
	if value == nil {
		return nil
	}
	switch spec.Type {
	case FieldString:
		s, ok := toText(value, cfg.Transform)
		if !ok {
			return cloneValue(value)
		}
		return sanitizeString(s, spec.FreeText, cfg)
	case FieldNumber:
		return sanitizeNumber(value, spec.Scale, cfg)
	case FieldTags:
		return sanitizeTags(value, cfg)
	case FieldDependencies:
		return sanitizeDependencies(value, cfg)
	default:
		return cloneValue(value)
	}
}

func sanitizeString(s string, freeText bool, cfg Config) string {
	if freeText && !cfg.AllowHTML {
		s = StripHTML(s)
	}
	s = strings.TrimSpace(s)
	if cfg.MaxStringLength > 0 && utf8.RuneCountInString(s) > cfg.MaxStringLength {
		s = strings.TrimSpace(string([]rune(s)[:cfg.MaxStringLength]))
	}
	return s
}

// sanitizeNumber rounds finite numbers half away from zero to scale places.
// Non-numeric and out-of-range values are returned untouched for validation
// to report.
func sanitizeNumber(value any, scale int32, cfg Config) any {
	f, ok := toNumber(value, cfg.Transform)
	if !ok {
		return cloneValue(value)
	}
	if !isFinite(f) {
		return cloneValue(value)
	}
	return Round(f, scale)
}

// Round rounds f half away from zero to scale decimal places.
func Round(f float64, scale int32) float64 {
	return decimal.NewFromFloat(f).Round(scale).InexactFloat64()
}

func sanitizeTags(value any, cfg Config) any {
	list, ok := asList(value)
	if !ok {
		return cloneValue(value)
	}
	out := make([]any, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	allStrings := true
	for _, entry := range list {
		s, ok := toText(entry, cfg.Transform)
		if !ok {
			allStrings = false
			out = append(out, cloneValue(entry))
			continue
		}
		s = sanitizeString(s, false, cfg)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if !allStrings {
		return out
	}
	tags := make([]string, len(out))
	for i, v := range out {
		tags[i] = v.(string)
	}
	return tags
}

func sanitizeDependencies(value any, cfg Config) any {
	list, ok := asList(value)
	if !ok {
		return cloneValue(value)
	}
	out := make([]any, 0, len(list))
	for _, entry := range list {
		obj, ok := asObject(entry)
		if !ok {
			out = append(out, cloneValue(entry))
			continue
		}
		dep := make(map[string]any, len(obj))
		for k, v := range obj {
			switch k {
			case "itemId":
				if s, ok := toText(v, cfg.Transform); ok {
					dep[k] = sanitizeString(s, false, cfg)
				} else {
					dep[k] = cloneValue(v)
				}
			case "quantity":
				dep[k] = sanitizeNumber(v, QuantityScale, cfg)
			default:
				if !cfg.StripUnknown {
					dep[k] = cloneValue(v)
				}
			}
		}
		out = append(out, dep)
	}
	return out
}
