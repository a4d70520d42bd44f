package convert

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

var decCtx = apd.BaseContext.WithPrecision(34)

// Amount parses a loosely typed monetary/weight input into a fixed-point
// value rendered with 2 decimals. Anything that does not parse as a number
// is reported absent, never an error — intake data is not trusted to be
// clean and a bad declared value must not block conversion.
func Amount(v any) (string, bool) {
	var d apd.Decimal
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return "", false
		}
		if _, _, err := d.SetString(s); err != nil {
			return "", false
		}
	case json.Number:
		if _, _, err := d.SetString(t.String()); err != nil {
			return "", false
		}
	case float64:
		if _, err := d.SetFloat64(t); err != nil {
			return "", false
		}
	case int:
		d.SetInt64(int64(t))
	case int64:
		d.SetInt64(t)
	default:
		return "", false
	}
	return quantize2(&d)
}

func quantize2(d *apd.Decimal) (string, bool) {
	var q apd.Decimal
	if _, err := decCtx.Quantize(&q, d, -2); err != nil {
		return "", false
	}
	return q.Text('f'), true
}

var (
	truthyTokens = map[string]bool{"true": true, "1": true, "yes": true, "y": true}
	falsyTokens  = map[string]bool{"false": true, "0": true, "no": true, "n": true}
)

// Truthy coerces a loosely typed flag. Recognized tokens are matched
// case-insensitively; everything else falls back to general truthiness so
// legacy records with odd markers still round-trip.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		tok := strings.ToLower(strings.TrimSpace(t))
		if truthyTokens[tok] {
			return true
		}
		if falsyTokens[tok] {
			return false
		}
		return tok != ""
	case json.Number:
		return t.String() != "0" && t.String() != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
