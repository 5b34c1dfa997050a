package validation

import "strings"

// FieldResult is the outcome of validating one field of an in-progress form.
type FieldResult struct {
	IsValid bool   `json:"isValid"`
	Error   string `json:"error,omitempty"`
	Value   any    `json:"value"`
}

// FieldCheck validates value as field within the surrounding record.
type FieldCheck func(value any, rest Record) FieldResult

// CreateFieldValidator returns a check that runs fn over rest with value set
// as field and reports only errors that belong to field. Errors on other
// fields are ignored so partially filled forms can be checked.
func CreateFieldValidator(fn ValidatorFunc, field string) FieldCheck {
	return createFieldValidator(fn, field, DefaultConfig())
}

// ValidateField is the one-shot form of CreateFieldValidator.
func ValidateField(field string, value any, form Record, fn ValidatorFunc) FieldResult {
	return CreateFieldValidator(fn, field)(value, form)
}

func createFieldValidator(fn ValidatorFunc, field string, cfg Config) FieldCheck {
	cfg.AbortEarly = false
	return func(value any, rest Record) FieldResult {
		merged := rest.Clone()
		if merged == nil {
			merged = Record{}
		}
		merged[field] = value
		if msg, failed := firstFieldError(fn(merged, cfg), field); failed {
			return FieldResult{IsValid: false, Error: msg, Value: value}
		}
		return FieldResult{IsValid: true, Value: value}
	}
}

// firstFieldError returns the first error for field, including errors
// reported on its nested entries such as "dependencies[0].quantity".
func firstFieldError(errs FieldErrors, field string) (string, bool) {
	if msg, ok := errs[field]; ok {
		return msg, true
	}
	for _, key := range errs.Keys() {
		if strings.HasPrefix(key, field+"[") || strings.HasPrefix(key, field+".") {
			return errs[key], true
		}
	}
	return "", false
}
