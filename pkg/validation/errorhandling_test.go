package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/angelmondragon/boq-builder/pkg/errors"
)

func TestToFormErrorsRemapsGeneral(t *testing.T) {
	out := ToFormErrors(FieldErrors{GeneralKey: "record rejected", "name": "is required"})

	assert.Equal(t, map[string]FormError{
		"root": {Message: "record rejected"},
		"name": {Message: "is required"},
	}, out)
}

func TestUserFriendlyMessagesOrder(t *testing.T) {
	msgs := UserFriendlyMessages(FieldErrors{
		"unitPrice":              "must be greater than or equal to 0",
		GeneralKey:               "record rejected",
		"dependencies[0].itemId": "is required",
		"name":                   "is required",
	})

	assert.Equal(t, []string{
		"record rejected",
		"Dependencies 1 item id: is required",
		"Name: is required",
		"Unit price: must be greater than or equal to 0",
	}, msgs)
}

func TestHasCriticalErrors(t *testing.T) {
	assert.True(t, HasCriticalErrors(FieldErrors{GeneralKey: "boom"}))
	assert.True(t, HasCriticalErrors(FieldErrors{GeneralKey: "boom"}, []string{}...))
	assert.False(t, HasCriticalErrors(FieldErrors{"foo": "bad"}, "bar"))
	assert.True(t, HasCriticalErrors(FieldErrors{"foo": "bad"}, "bar", "foo"))
	assert.False(t, HasCriticalErrors(nil))
}

func TestHumanizeField(t *testing.T) {
	cases := map[string]string{
		"unitPrice":                "Unit price",
		"name":                     "Name",
		"pricing_term":             "Pricing term",
		"dependencies[2].quantity": "Dependencies 3 quantity",
		"tags[0]":                  "Tags 1",
		"":                         "",
	}
	for in, want := range cases {
		assert.Equal(t, want, HumanizeField(in), in)
	}
}

func TestResultErr(t *testing.T) {
	assert.NoError(t, Result{IsValid: true}.Err("ignored"))

	err := Result{Errors: FieldErrors{"name": "is required"}}.Err("item validation failed")
	typed := pkgerrors.As(err)
	if assert.NotNil(t, typed) {
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		details, ok := typed.Details().(ErrorDetails)
		assert.True(t, ok)
		assert.Equal(t, []string{"Name: is required"}, details.Messages)
		assert.Equal(t, "is required", details.Errors["name"].Message)
	}
}
