// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ParsePage parses a page query parameter. Missing, unparseable, or
// non-positive values become page 1.
func ParsePage(s string) int {
	page := AtoiDefault(s, 1)
	if page < 1 {
		return 1
	}
	return page
}

// ParsePageSize parses a page_size query parameter, clamping the result to
// [1, max]. Missing or unparseable values become def.
func ParsePageSize(s string, def, max int) int {
	size := AtoiDefault(s, def)
	if size < 1 {
		return 1
	}
	if size > max {
		return max
	}
	return size
}
