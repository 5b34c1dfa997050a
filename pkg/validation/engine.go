package validation

import (
	"github.com/angelmondragon/boq-builder/pkg/enums"
	pkgerrors "github.com/angelmondragon/boq-builder/pkg/errors"
)

// Validate checks data against the kind's rules. Only type coercions are
// applied to the returned data; the input is never modified.
func Validate(kind enums.RecordKind, data Record, cfg Config) (Result, error) {
	b, err := Lookup(kind)
	if err != nil {
		return unknownKindResult(data, err), err
	}
	errs := b.Validate(data, cfg)
	return newResult(coerceRecord(b.Schema, data, cfg), errs, data.Clone()), nil
}

// Sanitize returns a normalized copy of data. Applying it twice yields the
// same record as applying it once.
func Sanitize(kind enums.RecordKind, data Record, cfg Config) (Record, error) {
	b, err := Lookup(kind)
	if err != nil {
		return nil, err
	}
	return b.Sanitize(data, cfg), nil
}

// ValidateAndSanitize runs sanitization and validation in the order selected
// by cfg.SanitizeFirst. The returned data is always the sanitized record. A
// nil fn uses the validator registered for kind.
func ValidateAndSanitize(data Record, kind enums.RecordKind, fn ValidatorFunc, cfg Config) (Result, error) {
	b, err := Lookup(kind)
	if err != nil {
		return unknownKindResult(data, err), err
	}
	if fn == nil {
		fn = b.Validate
	}
	original := data.Clone()

	if cfg.SanitizeFirst {
		sanitized := b.Sanitize(data, cfg)
		return newResult(sanitized, fn(sanitized, cfg), original), nil
	}

	errs := fn(data, cfg)
	return newResult(b.Sanitize(data, cfg), errs, original), nil
}

func unknownKindResult(data Record, err error) Result {
	msg := "unknown record kind"
	if typed := pkgerrors.As(err); typed != nil {
		msg = typed.Message()
	}
	return newResult(Record{}, FieldErrors{GeneralKey: msg}, data.Clone())
}
