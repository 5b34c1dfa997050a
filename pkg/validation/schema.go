package validation

// FieldType is the shape a schema field accepts.
type FieldType string

const (
	FieldString       FieldType = "string"
	FieldNumber       FieldType = "number"
	FieldTags         FieldType = "tags"
	FieldDependencies FieldType = "dependencies"
)

// FieldSpec describes one known field of a record kind.
type FieldSpec struct {
	Name     string
	Type     FieldType
	Required bool
	// Rules are validator tags applied after the type check, e.g. "gte=0".
	Rules string
	// FreeText fields have markup stripped during sanitization.
	FreeText bool
	// Scale is the number of decimal places a number field is rounded to.
	Scale int32
}

// Schema is the ordered list of fields known for a record kind. Validation
// reports and aborts in this order.
type Schema []FieldSpec

// Field returns the spec for name.
func (s Schema) Field(name string) (FieldSpec, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Has reports whether name is a known field.
func (s Schema) Has(name string) bool {
	_, ok := s.Field(name)
	return ok
}

// Names returns the field names in schema order.
func (s Schema) Names() []string {
	out := make([]string, len(s))
	for i, f := range s {
		out[i] = f.Name
	}
	return out
}
