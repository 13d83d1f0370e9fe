// Package core holds the domain model: normalized project/client/entry
// records, date-only range classification, and dashboard summaries.
//
// This file parses hour quantities from form input. The strict parse here is
// distinct from the permissive coercion in the adapt package: user input
// should be rejected when malformed, upstream payloads should degrade to a
// default.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseHours converts a decimal string to an hour quantity.
//
// It accepts both dot (1.5) and comma (1,5) decimal separators. Returns an
// error for empty input, non-numeric input, non-finite values, and values
// that are zero or negative.
func ParseHours(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidHours
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidHours
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, ErrInvalidHours
	}
	return v, nil
}

// FormatHours renders an hour quantity for display, e.g. "1.50 h".
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', 2, 64) + " h"
}
