package core

import (
	"math"
	"strings"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// CollapseString removes all whitespace in `s` and lowers it.
// Used to build identity keys out of free-text upstream values (course codes etc.).
func CollapseString(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// RoundTo rounds `v` to `precision` decimal places.
func RoundTo(v float64, precision int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	factor := math.Pow(10, float64(precision))
	return math.Round(v*factor) / factor
}
