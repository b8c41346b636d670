// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
//
// Example:
//
//	n := utils.AtoiDefault("42", 0) // returns 42
//	n = utils.AtoiDefault("", 10)   // returns 10
//	n = utils.AtoiDefault("x", 5)   // returns 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// Page normalizes a 1-based page number and a page size and returns them with
// the matching row offset. page < 1 becomes 1, size < 1 becomes def, and a
// positive max caps size.
//
// Example:
//
//	p, size, off := utils.Page(3, 0, 20, 100) // 3, 20, 40
func Page(page, size, def, max int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = def
	}
	if max > 0 && size > max {
		size = max
	}
	return page, size, (page - 1) * size
}
