package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/boq-builder/api/responses"
	"github.com/angelmondragon/boq-builder/api/validators"
	"github.com/angelmondragon/boq-builder/pkg/enums"
	pkgerrors "github.com/angelmondragon/boq-builder/pkg/errors"
	"github.com/angelmondragon/boq-builder/pkg/logger"
	"github.com/angelmondragon/boq-builder/pkg/metrics"
	"github.com/angelmondragon/boq-builder/pkg/validation"
)

// Modes accepted by the validate endpoint.
const (
	ModeValidate = "validate"
	ModeSanitize = "sanitize"
	ModeBoth     = "both"
)

type validateResponse struct {
	validation.Result
	Messages []string `json:"messages"`
}

// ValidateRecord runs the engine over the request body. The mode query
// parameter picks validate, sanitize or both (the default). Engine options
// may be overridden per request with query parameters named like the
// configuration keys, e.g. ?abortEarly=true.
func ValidateRecord(rules *validation.Context, m *metrics.ValidationMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := parseKind(chi.URLParam(r, "kind"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithRecordKind(r.Context(), kind.String())

		mode := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("mode")))
		if mode == "" {
			mode = ModeBoth
		}
		if mode != ModeValidate && mode != ModeSanitize && mode != ModeBoth {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "mode must be one of validate, sanitize, both").
				WithDetails(map[string]any{"field": "mode"}))
			return
		}

		overrides, err := parseOverrides(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		ctxRules := rules.With(overrides)

		rec, err := validators.DecodeRecord(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var res validation.Result
		switch mode {
		case ModeSanitize:
			data, err := ctxRules.Sanitize(kind, rec)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			responses.WriteSuccess(w, map[string]any{"data": data})
			return
		case ModeValidate:
			res, err = ctxRules.Validate(kind, rec)
		default:
			res, err = ctxRules.ValidateAndSanitize(kind, rec)
		}
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		m.Observe(kind.String(), res.IsValid, len(res.Errors))
		if !res.IsValid {
			logg.Debug(logg.WithField(ctx, "error_count", len(res.Errors)), "record.invalid")
		}
		responses.WriteSuccess(w, validateResponse{
			Result:   res,
			Messages: validation.UserFriendlyMessages(res.Errors),
		})
	}
}

// ValidateField checks a single field inside its surrounding form. The body
// is {"value": ..., "form": {...}}.
func ValidateField(rules *validation.Context, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := parseKind(chi.URLParam(r, "kind"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithRecordKind(r.Context(), kind.String())
		field := strings.TrimSpace(chi.URLParam(r, "field"))
		if field == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "field is required"))
			return
		}

		rec, err := validators.DecodeRecord(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var form validation.Record
		if raw, ok := rec["form"].(map[string]any); ok {
			form = validation.Record(raw)
		}

		result, err := rules.ValidateField(kind, field, rec["value"], form)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ValidationConfig returns the engine configuration in effect.
func ValidationConfig(rules *validation.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"config": rules.Config(),
			"kinds":  enums.RecordKinds(),
		})
	}
}

func parseKind(raw string) (enums.RecordKind, error) {
	kind := enums.RecordKind(strings.TrimSpace(raw))
	if _, err := validation.Lookup(kind); err != nil {
		return "", err
	}
	return kind, nil
}

func parseOverrides(r *http.Request) (validation.Overrides, error) {
	var o validation.Overrides
	bools := []struct {
		key string
		dst **bool
	}{
		{"stripUnknown", &o.StripUnknown},
		{"abortEarly", &o.AbortEarly},
		{"transform", &o.Transform},
		{"sanitizeFirst", &o.SanitizeFirst},
		{"allowHtml", &o.AllowHTML},
	}
	query := r.URL.Query()
	for _, b := range bools {
		if !query.Has(b.key) {
			continue
		}
		v, err := validators.ParseQueryBool(r, b.key, false)
		if err != nil {
			return validation.Overrides{}, err
		}
		*b.dst = validation.Bool(v)
	}
	if query.Has("maxStringLength") {
		v, err := validators.ParseQueryInt(r, "maxStringLength", 0, 0, 1<<20)
		if err != nil {
			return validation.Overrides{}, err
		}
		o.MaxStringLength = validation.Int(v)
	}
	return o, nil
}
