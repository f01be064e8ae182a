package draw

import (
	"math"
	"strconv"
	"strings"
)

var separatorReplacer = strings.NewReplacer(",", "", "，", "", " ", "", "\u00a0", "")

// ParseAmount strips thousands separators and parses the rest as a number.
// Empty, non-numeric and negative inputs yield nil; it never fails.
func ParseAmount(raw string) *float64 {
	s := separatorReplacer.Replace(strings.TrimSpace(raw))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// FormatAmount renders an optional amount, empty when absent.
func FormatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
