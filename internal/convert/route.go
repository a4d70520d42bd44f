package convert

import "strings"

// Canonical route tokens. Anything starting with one of these is returned
// unchanged, qualifier suffix included (e.g. PH_TO_UAE_EXPRESS).
var canonicalRoutes = []string{
	"PH_TO_UAE",
	"UAE_TO_PH",
}

// Historical aliases still present on old bookings. Only the alias portion
// is rewritten; a trailing qualifier survives the rewrite.
var routeAliases = map[string]string{
	"PINAS_TO_UAE": "PH_TO_UAE",
	"PHIL_TO_UAE":  "PH_TO_UAE",
	"UAE_TO_PINAS": "UAE_TO_PH",
	"UAE_TO_PHIL":  "UAE_TO_PH",
}

// IsCanonicalRoute reports whether a normalized token belongs to a known
// route family, qualifier suffix allowed.
func IsCanonicalRoute(tok string) bool {
	for _, canon := range canonicalRoutes {
		if tok == canon || strings.HasPrefix(tok, canon+"_") {
			return true
		}
	}
	return false
}

// Route normalizes a free-form route code to its canonical token. Empty
// input yields empty output; unrecognized tokens pass through normalized so
// the caller can log and keep going.
func Route(raw string) string {
	norm := normalizeRouteToken(raw)
	if norm == "" {
		return ""
	}

	for _, canon := range canonicalRoutes {
		if norm == canon || strings.HasPrefix(norm, canon+"_") {
			return norm
		}
	}

	for alias, canon := range routeAliases {
		if norm == alias {
			return canon
		}
		if strings.HasPrefix(norm, alias+"_") {
			return canon + strings.TrimPrefix(norm, alias)
		}
	}

	return norm
}

func normalizeRouteToken(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '-' || r == '_'
	})
	return strings.Join(fields, "_")
}
