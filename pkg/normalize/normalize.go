// Package normalize canonicalizes the size and material labels that appear
// throughout storefront catalog data.
//
// Sizes arrive in many shapes ("L - 70 x 100.0cm", "70x100", "29.7 x 42cm
// (A3)") and materials drift between display and handle form ("400g Cotton
// Canvas" vs "cotton-canvas"). Matching a frame against a variant list only
// works if both sides are reduced to the same key first, so every comparison
// in the engine goes through this package rather than re-deriving its own
// rules.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// sizePattern matches the first "<number> x <number>" pair in a label,
// tolerating decimals and optional whitespace around the separator.
var sizePattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*x\s*(\d+(?:\.\d+)?)`)

// nonAlphanumeric strips everything that is not a lowercase letter or digit.
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]`)

// Size extracts and canonicalizes the first WxH dimension pair in raw.
// Whole-valued dimensions lose their fraction ("100.0" becomes "100") while
// genuinely fractional ones keep it ("29.7" stays "29.7"). The second return
// is false when raw contains no dimension pair, in which case the caller must
// treat the label as unmatchable and skip filtering rather than guess.
func Size(raw string) (string, bool) {
	m := sizePattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return dimension(m[1]) + "x" + dimension(m[2]), true
}

// dimension renders a parsed dimension without a trailing ".0" but preserves
// real fractional parts.
func dimension(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Material reduces a material label to a comparison key: lowercased with all
// non-alphanumeric characters removed. The key is only ever compared, never
// displayed.
func Material(raw string) string {
	return nonAlphanumeric.ReplaceAllString(strings.ToLower(raw), "")
}

// MaterialsMatch reports whether two material labels refer to the same
// material. Exact key equality wins; otherwise a substring containment check
// in either direction tolerates naming drift between display titles and
// handles ("Cotton Canvas" vs "400g cotton-canvas").
func MaterialsMatch(a, b string) bool {
	ka, kb := Material(a), Material(b)
	if ka == "" || kb == "" {
		return ka == kb
	}
	return ka == kb || strings.Contains(ka, kb) || strings.Contains(kb, ka)
}
