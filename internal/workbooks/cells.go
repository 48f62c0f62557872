package workbooks

import (
	"math"
	"strconv"
	"strings"
)

// parseFloatStrict parses a numeric cell, tolerating currency symbols,
// thousands separators and a trailing percent sign. NaN and infinities are
// rejected.
func parseFloatStrict(s string) (float64, bool) {
	v, ok := parseNumber(s)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseNumber(s string) (float64, bool) {
	if strings.TrimSpace(s) == "" {
		return 0, false
	}
	// Strip common formatting
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ',', '$', ' ':
			return -1
		default:
			return r
		}
	}, s)
	if strings.HasSuffix(clean, "%") {
		v := strings.TrimSuffix(clean, "%")
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f / 100.0, true
		}
		return 0, false
	}
	if f, err := strconv.ParseFloat(clean, 64); err == nil {
		return f, true
	}
	return 0, false
}
