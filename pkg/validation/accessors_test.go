package validation

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecordAccessors(t *testing.T) {
	rec := Record{
		"name":   "  Brick  ",
		"count":  3,
		"price":  json.Number("12.35"),
		"text":   " 0.25 ",
		"float":  1.5,
		"inf":    math.Inf(1),
		"bad":    "twelve",
		"numID":  json.Number("42"),
		"intID":  int64(7),
		"object": map[string]any{},
	}

	assert.Equal(t, "Brick", rec.Text("name"))
	assert.Equal(t, "", rec.Text("count"))
	assert.Equal(t, "", rec.Text("missing"))

	assert.True(t, decimal.NewFromInt(3).Equal(rec.Decimal("count")))
	assert.True(t, decimal.RequireFromString("12.35").Equal(rec.Decimal("price")))
	assert.True(t, decimal.RequireFromString("0.25").Equal(rec.Decimal("text")))
	assert.True(t, decimal.RequireFromString("1.5").Equal(rec.Decimal("float")))
	assert.True(t, rec.Decimal("inf").IsZero())
	assert.True(t, rec.Decimal("bad").IsZero())
	assert.True(t, rec.Decimal("missing").IsZero())

	assert.Equal(t, "Brick", rec.ID("name"))
	assert.Equal(t, "42", rec.ID("numID"))
	assert.Equal(t, "7", rec.ID("intID"))
	assert.Equal(t, "", rec.ID("object"))
}
