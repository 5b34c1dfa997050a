package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/angelmondragon/boq-builder/pkg/enums"
)

func itemValidator(t *testing.T) ValidatorFunc {
	t.Helper()
	b, err := Lookup(enums.RecordKindItem)
	if err != nil {
		t.Fatalf("lookup item: %v", err)
	}
	return b.Validate
}

func TestCreateFieldValidatorIgnoresOtherFields(t *testing.T) {
	check := CreateFieldValidator(itemValidator(t), "unitPrice")

	res := check(5, Record{})
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Error)
	assert.Equal(t, 5, res.Value)

	res = check(-1, Record{})
	assert.False(t, res.IsValid)
	assert.Equal(t, "must be greater than or equal to 0", res.Error)
}

func TestCreateFieldValidatorReportsNestedErrors(t *testing.T) {
	check := CreateFieldValidator(itemValidator(t), "dependencies")
	res := check([]any{map[string]any{"itemId": "sand", "quantity": -1}}, Record{"name": "Cement"})

	assert.False(t, res.IsValid)
	assert.Equal(t, "must be greater than 0", res.Error)
}

func TestCreateFieldValidatorDoesNotMutateForm(t *testing.T) {
	form := Record{"name": "Cement"}
	CreateFieldValidator(itemValidator(t), "unit")("bag", form)

	assert.Equal(t, Record{"name": "Cement"}, form)
}

func TestValidateField(t *testing.T) {
	res := ValidateField("name", "", Record{"unit": "bag"}, itemValidator(t))
	assert.False(t, res.IsValid)
	assert.Equal(t, "is required", res.Error)

	res = ValidateField("name", "Cement", nil, itemValidator(t))
	assert.True(t, res.IsValid)
}
