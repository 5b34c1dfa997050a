package validation

import "sort"

// GeneralKey holds errors that apply to the whole record.
const GeneralKey = "_general"

// FieldErrors maps a field name (or GeneralKey) to a message.
type FieldErrors map[string]string

// Keys returns the field names in sorted order with GeneralKey first.
func (e FieldErrors) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		if k != GeneralKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if _, ok := e[GeneralKey]; ok {
		keys = append([]string{GeneralKey}, keys...)
	}
	return keys
}

// Result is the outcome of validating a record.
type Result struct {
	IsValid      bool        `json:"isValid"`
	Data         Record      `json:"data"`
	Errors       FieldErrors `json:"errors"`
	OriginalData Record      `json:"originalData"`
}

func newResult(data Record, errs FieldErrors, original Record) Result {
	if errs == nil {
		errs = FieldErrors{}
	}
	if data == nil {
		data = Record{}
	}
	return Result{
		IsValid:      len(errs) == 0,
		Data:         data,
		Errors:       errs,
		OriginalData: original,
	}
}
