package validation

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var numericPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// toNumber reports the numeric value of v. Strings only count when transform
// is enabled and they look numeric.
func toNumber(v any, transform bool) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		return parseNumeric(string(n))
	case string:
		if !transform {
			return 0, false
		}
		return parseNumeric(n)
	default:
		return 0, false
	}
}

func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !numericPattern.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// out of range still yields a signed infinity the caller can reject
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// toText reports the string form of v. Numbers are rendered only when
// transform is enabled.
func toText(v any, transform bool) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	if !transform {
		return "", false
	}
	if n, ok := v.(json.Number); ok {
		return n.String(), true
	}
	if f, ok := toNumber(v, false); ok && isFinite(f) {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return "", false
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// coerceRecord applies the type coercions validation performs without any
// other sanitization, so callers in validate-only mode see typed values.
func coerceRecord(schema Schema, rec Record, cfg Config) Record {
	out := rec.Clone()
	if out == nil || !cfg.Transform {
		return out
	}
	for _, spec := range schema {
		v, ok := out[spec.Name]
		if !ok || v == nil {
			continue
		}
		switch spec.Type {
		case FieldNumber:
			if f, ok := toNumber(v, true); ok && isFinite(f) {
				out[spec.Name] = f
			}
		case FieldString:
			if s, ok := toText(v, true); ok {
				out[spec.Name] = s
			}
		}
	}
	return out
}
