package models

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// decimalPrefix matches a plain decimal number at the start of a string. Hex,
// "NaN" and "Inf" spellings never match.
var decimalPrefix = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseNumber reads a whole-string decimal number. Non-finite results are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || decimalPrefix.FindString(s) != s {
		return 0, false
	}
	return finite(s)
}

// LeadingNumber reads the decimal number a free-text value starts with,
// so "4 unidades" gives 4. Text without a leading number is rejected.
func LeadingNumber(s string) (float64, bool) {
	prefix := decimalPrefix.FindString(strings.TrimSpace(s))
	if prefix == "" {
		return 0, false
	}
	return finite(prefix)
}

func finite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
