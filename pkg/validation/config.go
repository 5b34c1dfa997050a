package validation

import "github.com/angelmondragon/boq-builder/pkg/config"

// Config controls how records are sanitized and validated. The UI hint
// options are carried for form-binding callers and are not read by the engine.
type Config struct {
	StripUnknown    bool `json:"stripUnknown"`
	AbortEarly      bool `json:"abortEarly"`
	Transform       bool `json:"transform"`
	SanitizeFirst   bool `json:"sanitizeFirst"`
	MaxStringLength int  `json:"maxStringLength"`
	AllowHTML       bool `json:"allowHtml"`

	ShowWarnings       bool `json:"showWarnings"`
	FocusFirstError    bool `json:"focusFirstError"`
	ValidateOnChange   bool `json:"validateOnChange"`
	ValidateOnBlur     bool `json:"validateOnBlur"`
	RevalidateOnChange bool `json:"revalidateOnChange"`
}

// DefaultMaxStringLength bounds string fields when no override is given.
const DefaultMaxStringLength = 1000

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		StripUnknown:       true,
		AbortEarly:         false,
		Transform:          true,
		SanitizeFirst:      true,
		MaxStringLength:    DefaultMaxStringLength,
		AllowHTML:          false,
		ShowWarnings:       true,
		FocusFirstError:    true,
		ValidateOnChange:   true,
		ValidateOnBlur:     true,
		RevalidateOnChange: true,
	}
}

// Overrides holds optional replacements for Config values; nil fields keep
// the base value.
type Overrides struct {
	StripUnknown       *bool `json:"stripUnknown,omitempty"`
	AbortEarly         *bool `json:"abortEarly,omitempty"`
	Transform          *bool `json:"transform,omitempty"`
	SanitizeFirst      *bool `json:"sanitizeFirst,omitempty"`
	MaxStringLength    *int  `json:"maxStringLength,omitempty"`
	AllowHTML          *bool `json:"allowHtml,omitempty"`
	ShowWarnings       *bool `json:"showWarnings,omitempty"`
	FocusFirstError    *bool `json:"focusFirstError,omitempty"`
	ValidateOnChange   *bool `json:"validateOnChange,omitempty"`
	ValidateOnBlur     *bool `json:"validateOnBlur,omitempty"`
	RevalidateOnChange *bool `json:"revalidateOnChange,omitempty"`
}

// Merge applies the non-nil overrides on top of c.
func (c Config) Merge(o Overrides) Config {
	out := c
	setBool(&out.StripUnknown, o.StripUnknown)
	setBool(&out.AbortEarly, o.AbortEarly)
	setBool(&out.Transform, o.Transform)
	setBool(&out.SanitizeFirst, o.SanitizeFirst)
	setBool(&out.AllowHTML, o.AllowHTML)
	setBool(&out.ShowWarnings, o.ShowWarnings)
	setBool(&out.FocusFirstError, o.FocusFirstError)
	setBool(&out.ValidateOnChange, o.ValidateOnChange)
	setBool(&out.ValidateOnBlur, o.ValidateOnBlur)
	setBool(&out.RevalidateOnChange, o.RevalidateOnChange)
	if o.MaxStringLength != nil && *o.MaxStringLength >= 0 {
		out.MaxStringLength = *o.MaxStringLength
	}
	return out
}

// OverridesFromSettings converts environment-driven settings into overrides.
func OverridesFromSettings(s config.ValidationConfig) Overrides {
	return Overrides{
		StripUnknown:       Bool(s.StripUnknown),
		AbortEarly:         Bool(s.AbortEarly),
		Transform:          Bool(s.Transform),
		SanitizeFirst:      Bool(s.SanitizeFirst),
		MaxStringLength:    Int(s.MaxStringLength),
		AllowHTML:          Bool(s.AllowHTML),
		ShowWarnings:       Bool(s.ShowWarnings),
		FocusFirstError:    Bool(s.FocusFirstError),
		ValidateOnChange:   Bool(s.ValidateOnChange),
		ValidateOnBlur:     Bool(s.ValidateOnBlur),
		RevalidateOnChange: Bool(s.RevalidateOnChange),
	}
}

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
