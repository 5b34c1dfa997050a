package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Text returns the trimmed string stored under key, or "" for any other type.
func (r Record) Text(key string) string {
	s, _ := r[key].(string)
	return strings.TrimSpace(s)
}

// Decimal reads key as a decimal. Missing or unparsable values read as zero.
func (r Record) Decimal(key string) decimal.Decimal {
	switch v := r[key].(type) {
	case float64:
		if isFinite(v) {
			return decimal.NewFromFloat(v)
		}
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case json.Number:
		if d, err := decimal.NewFromString(v.String()); err == nil {
			return d
		}
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return decimal.Zero
}

// ID reads an identifier given as a string or a number.
func (r Record) ID(key string) string {
	switch id := r[key].(type) {
	case string:
		return strings.TrimSpace(id)
	case json.Number:
		return id.String()
	case int, int64, float64:
		return fmt.Sprint(id)
	}
	return ""
}
