package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	pkgerrors "github.com/angelmondragon/boq-builder/pkg/errors"
)

// FormRootKey replaces GeneralKey in form-binding error maps.
const FormRootKey = "root"

// FormError is the per-field error shape form libraries expect.
type FormError struct {
	Message string `json:"message"`
}

// ToFormErrors adapts field errors for form binding.
func ToFormErrors(errs FieldErrors) map[string]FormError {
	out := make(map[string]FormError, len(errs))
	for field, msg := range errs {
		key := field
		if field == GeneralKey {
			key = FormRootKey
		}
		out[key] = FormError{Message: msg}
	}
	return out
}

// UserFriendlyMessages renders errors as readable sentences, the general
// error first and then each field error in field-name order.
func UserFriendlyMessages(errs FieldErrors) []string {
	out := make([]string, 0, len(errs))
	for _, field := range errs.Keys() {
		if field == GeneralKey {
			out = append(out, errs[field])
			continue
		}
		out = append(out, fmt.Sprintf("%s: %s", HumanizeField(field), errs[field]))
	}
	return out
}

// HasCriticalErrors reports a general error, or an error on any of the
// critical fields.
func HasCriticalErrors(errs FieldErrors, critical ...string) bool {
	if _, ok := errs[GeneralKey]; ok {
		return true
	}
	for _, field := range critical {
		if _, ok := errs[field]; ok {
			return true
		}
	}
	return false
}

var indexPattern = regexp.MustCompile(`\[(\d+)\]`)

// HumanizeField turns an identifier such as "dependencies[0].itemId" into
// "Dependencies 1 item id".
func HumanizeField(field string) string {
	s := indexPattern.ReplaceAllStringFunc(field, func(m string) string {
		n, err := strconv.Atoi(m[1 : len(m)-1])
		if err != nil {
			return " " + m[1:len(m)-1] + " "
		}
		return " " + strconv.Itoa(n+1) + " "
	})

	var b strings.Builder
	var prev rune
	for i, r := range s {
		switch {
		case r == '.' || r == '_' || r == '-':
			r = ' '
		case unicode.IsUpper(r) && i > 0 && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			b.WriteRune(' ')
		}
		b.WriteRune(unicode.ToLower(r))
		prev = r
	}

	words := strings.Fields(b.String())
	if len(words) == 0 {
		return ""
	}
	out := []rune(strings.Join(words, " "))
	out[0] = unicode.ToUpper(out[0])
	return string(out)
}

// ErrorDetails is the detail payload attached to validation errors.
type ErrorDetails struct {
	Errors   map[string]FormError `json:"errors"`
	Messages []string             `json:"messages"`
}

// Err converts an invalid result into a CodeValidation error whose details
// carry the form errors and readable messages. It returns nil when the
// result is valid.
func (r Result) Err(message string) error {
	if r.IsValid {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(ErrorDetails{
		Errors:   ToFormErrors(r.Errors),
		Messages: UserFriendlyMessages(r.Errors),
	})
}
