package validation

import "github.com/angelmondragon/boq-builder/pkg/enums"

// QuickValidate validates and sanitizes records with the default
// configuration.
var QuickValidate = quickValidator{ctx: NewContext(Overrides{})}

type quickValidator struct {
	ctx *Context
}

func (q quickValidator) Item(rec Record) Result     { return q.ctx.ValidateItem(rec) }
func (q quickValidator) BOQItem(rec Record) Result  { return q.ctx.ValidateBOQItem(rec) }
func (q quickValidator) Project(rec Record) Result  { return q.ctx.ValidateProject(rec) }
func (q quickValidator) Category(rec Record) Result { return q.ctx.ValidateCategory(rec) }

// Kind dispatches on kind.
func (q quickValidator) Kind(kind enums.RecordKind, rec Record) (Result, error) {
	return q.ctx.ValidateAndSanitize(kind, rec)
}
