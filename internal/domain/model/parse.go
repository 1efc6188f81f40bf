package model

import (
	"strconv"
	"strings"
)

// ParseMetric parses a ranking value permissively: every rune that
// cannot be part of a number is stripped before parsing, and any
// failure degrades to 0 rather than an error. "7,480 trophies" -> 7480.
func ParseMetric(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}
