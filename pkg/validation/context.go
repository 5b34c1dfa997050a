package validation

import (
	"github.com/angelmondragon/boq-builder/pkg/config"
	"github.com/angelmondragon/boq-builder/pkg/enums"
)

// Context binds one merged Config to every validator and sanitizer so a
// caller gets uniform behaviour across calls. It is safe for concurrent use.
type Context struct {
	cfg Config
}

// NewContext merges overrides over DefaultConfig.
func NewContext(overrides Overrides) *Context {
	return &Context{cfg: DefaultConfig().Merge(overrides)}
}

// NewContextFromSettings builds a Context from environment settings.
func NewContextFromSettings(s config.ValidationConfig) *Context {
	return NewContext(OverridesFromSettings(s))
}

// With returns a new Context whose configuration is c's with o applied.
func (c *Context) With(o Overrides) *Context {
	return &Context{cfg: c.cfg.Merge(o)}
}

// Config returns a copy of the bound configuration.
func (c *Context) Config() Config {
	return c.cfg
}

func (c *Context) Validate(kind enums.RecordKind, rec Record) (Result, error) {
	return Validate(kind, rec, c.cfg)
}

func (c *Context) Sanitize(kind enums.RecordKind, rec Record) (Record, error) {
	return Sanitize(kind, rec, c.cfg)
}

// ValidateAndSanitize uses the registered validator for kind.
func (c *Context) ValidateAndSanitize(kind enums.RecordKind, rec Record) (Result, error) {
	return ValidateAndSanitize(rec, kind, nil, c.cfg)
}

func (c *Context) ValidateItem(rec Record) Result {
	return c.run(enums.RecordKindItem, rec)
}

func (c *Context) ValidateBOQItem(rec Record) Result {
	return c.run(enums.RecordKindBOQItem, rec)
}

func (c *Context) ValidateProject(rec Record) Result {
	return c.run(enums.RecordKindProject, rec)
}

func (c *Context) ValidateCategory(rec Record) Result {
	return c.run(enums.RecordKindCategory, rec)
}

// FieldValidator returns an incremental check for one field of kind. When
// the context sanitizes first, the value is sanitized before it is checked
// and the sanitized value is returned.
func (c *Context) FieldValidator(kind enums.RecordKind, field string) (FieldCheck, error) {
	b, err := Lookup(kind)
	if err != nil {
		return nil, err
	}
	check := createFieldValidator(b.Validate, field, c.cfg)
	spec, known := b.Schema.Field(field)
	if !c.cfg.SanitizeFirst || !known {
		return check, nil
	}
	cfg := c.cfg
	return func(value any, rest Record) FieldResult {
		return check(sanitizeValue(spec, value, cfg), rest)
	}, nil
}

// ValidateField checks value as field of kind within form.
func (c *Context) ValidateField(kind enums.RecordKind, field string, value any, form Record) (FieldResult, error) {
	check, err := c.FieldValidator(kind, field)
	if err != nil {
		return FieldResult{}, err
	}
	return check(value, form), nil
}

func (c *Context) run(kind enums.RecordKind, rec Record) Result {
	b := mustLookup(kind)
	res, _ := ValidateAndSanitize(rec, kind, b.Validate, c.cfg)
	return res
}
