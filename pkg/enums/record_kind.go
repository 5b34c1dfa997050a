package enums

import "fmt"

// RecordKind identifies the shape of a record handed to the validation engine.
type RecordKind string

const (
	RecordKindItem     RecordKind = "item"
	RecordKindBOQItem  RecordKind = "boqItem"
	RecordKindProject  RecordKind = "project"
	RecordKindCategory RecordKind = "category"
)

var validRecordKinds = []RecordKind{
	RecordKindItem,
	RecordKindBOQItem,
	RecordKindProject,
	RecordKindCategory,
}

// RecordKinds returns every supported kind in declaration order.
func RecordKinds() []RecordKind {
	return append([]RecordKind(nil), validRecordKinds...)
}

// String implements fmt.Stringer.
func (k RecordKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known RecordKind.
func (k RecordKind) IsValid() bool {
	for _, candidate := range validRecordKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseRecordKind converts raw input into a RecordKind.
func ParseRecordKind(value string) (RecordKind, error) {
	for _, candidate := range validRecordKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid record kind %q", value)
}
