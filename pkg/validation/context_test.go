package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/boq-builder/pkg/config"
	"github.com/angelmondragon/boq-builder/pkg/enums"
)

func TestNewContextDefaults(t *testing.T) {
	ctx := NewContext(Overrides{})
	assert.Equal(t, Config{
		StripUnknown:       true,
		AbortEarly:         false,
		Transform:          true,
		SanitizeFirst:      true,
		MaxStringLength:    1000,
		AllowHTML:          false,
		ShowWarnings:       true,
		FocusFirstError:    true,
		ValidateOnChange:   true,
		ValidateOnBlur:     true,
		RevalidateOnChange: true,
	}, ctx.Config())
}

func TestNewContextMergesOverrides(t *testing.T) {
	ctx := NewContext(Overrides{
		AbortEarly:      Bool(true),
		MaxStringLength: Int(10),
		ShowWarnings:    Bool(false),
	})
	cfg := ctx.Config()

	assert.True(t, cfg.AbortEarly)
	assert.Equal(t, 10, cfg.MaxStringLength)
	assert.False(t, cfg.ShowWarnings)
	assert.True(t, cfg.StripUnknown)
	assert.True(t, cfg.SanitizeFirst)
}

func TestNewContextFromSettings(t *testing.T) {
	ctx := NewContextFromSettings(config.ValidationConfig{
		StripUnknown:    false,
		Transform:       true,
		SanitizeFirst:   true,
		MaxStringLength: 5,
	})
	res := ctx.ValidateProject(Record{"name": "Warehouse", "budget": 10})

	require.True(t, res.IsValid)
	assert.Equal(t, "Wareh", res.Data["name"])
	assert.Equal(t, 10, res.Data["budget"])
}

func TestContextFieldValidatorSanitizesValue(t *testing.T) {
	ctx := NewContext(Overrides{})
	check, err := ctx.FieldValidator(enums.RecordKindItem, "unitPrice")
	require.NoError(t, err)

	res := check("19.999", Record{})
	assert.True(t, res.IsValid)
	assert.Equal(t, 20.0, res.Value)

	res = check("-1", Record{"name": "Cement"})
	assert.False(t, res.IsValid)
	assert.Equal(t, "must be greater than or equal to 0", res.Error)

	_, err = ctx.FieldValidator(enums.RecordKind("invoice"), "name")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestContextValidateField(t *testing.T) {
	ctx := NewContext(Overrides{SanitizeFirst: Bool(false)})
	res, err := ctx.ValidateField(enums.RecordKindBOQItem, "quantity", 2.5, Record{"id": "brick", "unit": "pcs"})
	require.NoError(t, err)
	assert.False(t, res.IsValid)
	assert.Equal(t, 2.5, res.Value)
}
