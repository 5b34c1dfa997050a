package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("whole", func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Float32, reflect.Float64:
			f := fl.Field().Float()
			return f == math.Trunc(f)
		default:
			return true
		}
	})
	if err != nil {
		panic(fmt.Sprintf("validation: register whole rule: %v", err))
	}
	return v
}

type fieldError struct {
	Field   string
	Message string
}

// checkVar runs validator tags against a single value and returns the
// message for the first failing tag.
func checkVar(value any, tags string) (string, bool) {
	if tags == "" {
		return "", true
	}
	err := validate.Var(value, tags)
	if err == nil {
		return "", true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return validationMessage(verrs[0]), false
	}
	return "is invalid", false
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "whole":
		return "must be a whole number"
	default:
		return "is invalid"
	}
}

func joinTags(tags ...string) string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, ",")
}

func maxLengthTag(cfg Config) string {
	if cfg.MaxStringLength <= 0 {
		return ""
	}
	return "max=" + strconv.Itoa(cfg.MaxStringLength)
}

// checkSchema validates every schema field of rec in schema order.
func checkSchema(schema Schema, rec Record, cfg Config) FieldErrors {
	errs := FieldErrors{}
	for _, spec := range schema {
		found := checkField(spec, rec, cfg)
		if len(found) == 0 {
			continue
		}
		if cfg.AbortEarly {
			errs[found[0].Field] = found[0].Message
			return errs
		}
		for _, fe := range found {
			if _, exists := errs[fe.Field]; !exists {
				errs[fe.Field] = fe.Message
			}
		}
	}
	return errs
}

func checkField(spec FieldSpec, rec Record, cfg Config) []fieldError {
	value, present := rec[spec.Name]
	if !present || isBlank(value) {
		if spec.Required {
			return []fieldError{{Field: spec.Name, Message: "is required"}}
		}
		return nil
	}
	switch spec.Type {
	case FieldString:
		return checkString(spec.Name, value, spec.Rules, cfg)
	case FieldNumber:
		return checkNumber(spec.Name, value, spec.Rules, cfg)
	case FieldTags:
		return checkTags(spec.Name, value, cfg)
	case FieldDependencies:
		return checkDependencies(spec.Name, value, cfg)
	default:
		return nil
	}
}

func checkString(field string, value any, rules string, cfg Config) []fieldError {
	s, ok := toText(value, cfg.Transform)
	if !ok {
		return []fieldError{{Field: field, Message: "must be a string"}}
	}
	if msg, ok := checkVar(s, joinTags(rules, maxLengthTag(cfg))); !ok {
		return []fieldError{{Field: field, Message: msg}}
	}
	return nil
}

func checkNumber(field string, value any, rules string, cfg Config) []fieldError {
	f, ok := toNumber(value, cfg.Transform)
	if !ok {
		return []fieldError{{Field: field, Message: "must be a number"}}
	}
	if !isFinite(f) {
		return []fieldError{{Field: field, Message: "must be a finite number"}}
	}
	if msg, ok := checkVar(f, rules); !ok {
		return []fieldError{{Field: field, Message: msg}}
	}
	return nil
}

func checkTags(field string, value any, cfg Config) []fieldError {
	list, ok := asList(value)
	if !ok {
		return []fieldError{{Field: field, Message: "must be a list of strings"}}
	}
	var out []fieldError
	for i, entry := range list {
		key := fmt.Sprintf("%s[%d]", field, i)
		s, ok := toText(entry, cfg.Transform)
		if !ok {
			out = append(out, fieldError{Field: key, Message: "must be a string"})
		} else if msg, ok := checkVar(s, maxLengthTag(cfg)); !ok {
			out = append(out, fieldError{Field: key, Message: msg})
		}
		if cfg.AbortEarly && len(out) > 0 {
			return out
		}
	}
	return out
}

func checkDependencies(field string, value any, cfg Config) []fieldError {
	list, ok := asList(value)
	if !ok {
		return []fieldError{{Field: field, Message: "must be a list"}}
	}
	var out []fieldError
	seen := make(map[string]struct{}, len(list))
	for i, entry := range list {
		prefix := fmt.Sprintf("%s[%d]", field, i)
		obj, ok := asObject(entry)
		if !ok {
			out = append(out, fieldError{Field: prefix, Message: "must be an object"})
		} else {
			out = append(out, checkDependency(prefix, obj, seen, cfg)...)
		}
		if cfg.AbortEarly && len(out) > 0 {
			return out
		}
	}
	return out
}

func checkDependency(prefix string, obj map[string]any, seen map[string]struct{}, cfg Config) []fieldError {
	var out []fieldError
	idKey := prefix + ".itemId"
	qtyKey := prefix + ".quantity"

	if id, ok := obj["itemId"]; !ok || isBlank(id) {
		out = append(out, fieldError{Field: idKey, Message: "is required"})
	} else if found := checkString(idKey, id, "", cfg); len(found) > 0 {
		out = append(out, found...)
	} else {
		s, _ := toText(id, cfg.Transform)
		s = strings.TrimSpace(s)
		if _, dup := seen[s]; dup {
			out = append(out, fieldError{Field: idKey, Message: "is listed more than once"})
		}
		seen[s] = struct{}{}
	}

	if q, ok := obj["quantity"]; !ok || isBlank(q) {
		out = append(out, fieldError{Field: qtyKey, Message: "is required"})
	} else {
		out = append(out, checkNumber(qtyKey, q, "gt=0", cfg)...)
	}
	return out
}
