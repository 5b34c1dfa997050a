package validation

// Record is a raw or sanitized record as it arrives from a form, an import
// file or the catalog store. Nested objects may be Record or map[string]any.
type Record map[string]any

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch typed := v.(type) {
	case Record:
		return typed.Clone()
	case map[string]any:
		return map[string]any(Record(typed).Clone())
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), typed...)
	case []map[string]any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = map[string]any(Record(item).Clone())
		}
		return out
	default:
		return v
	}
}

func asObject(v any) (map[string]any, bool) {
	switch typed := v.(type) {
	case Record:
		return map[string]any(typed), true
	case map[string]any:
		return typed, true
	default:
		return nil, false
	}
}

func asList(v any) ([]any, bool) {
	switch typed := v.(type) {
	case []any:
		return typed, true
	case []string:
		out := make([]any, len(typed))
		for i, s := range typed {
			out[i] = s
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(typed))
		for i, m := range typed {
			out[i] = m
		}
		return out, true
	case []Record:
		out := make([]any, len(typed))
		for i, m := range typed {
			out[i] = m
		}
		return out, true
	default:
		return nil, false
	}
}
