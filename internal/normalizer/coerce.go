package normalizer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Float defensively extracts a float64 from a loosely typed warehouse value.
// Arrays and objects yield nil, whole or in part: a malformed nested payload
// must never contribute a partial number to an aggregate. Anything else is
// converted through its string representation; nil on failure.
func Float(v any) *float64 {
	switch val := v.(type) {
	case nil:
		return nil
	case []any, map[string]any:
		return nil
	case json.RawMessage:
		return fromString(string(val))
	case float64:
		return &val
	case float32:
		f := float64(val)
		return &f
	case int:
		f := float64(val)
		return &f
	case int64:
		f := float64(val)
		return &f
	case uint64:
		f := float64(val)
		return &f
	case string:
		return fromString(val)
	default:
		return fromString(fmt.Sprintf("%v", val))
	}
}

func fromString(s string) *float64 {
	s = strings.TrimSpace(s)
	// Warehouse extracts may carry JSON-encoded scalars ("\"1.5\"").
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// Product multiplies two coerced operands. The result is nil if either
// operand is nil — never zero-defaulted.
func Product(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	p := *a * *b
	return &p
}
