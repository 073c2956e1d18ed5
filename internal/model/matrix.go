// Package model defines the core domain models used throughout the application.
package model

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Matrix is the raw tabular dataset as delivered by an ingestion source.
// Rows may be ragged and cells may be missing; it is never mutated after fetch.
type Matrix [][]string

// Cell returns the cell at row r, column c, or "" when either index is out of range.
func (m Matrix) Cell(r, c int) string {
	if r < 0 || r >= len(m) {
		return ""
	}
	return CellAt(m[r], c)
}

// Width returns the length of the widest row.
func (m Matrix) Width() int {
	width := 0
	for _, row := range m {
		width = max(width, len(row))
	}
	return width
}

// CellAt returns row[c], or "" when c is out of range.
func CellAt(row []string, c int) string {
	if c < 0 || c >= len(row) {
		return ""
	}
	return row[c]
}

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// leadingNumber matches the numeric prefix of a cell, so "8/10" reads as 8.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// LeadingNumber parses the numeric prefix of a cell.
// It reports false when the cell does not start with a finite number.
func LeadingNumber(s string) (float64, bool) {
	num := leadingNumber.FindString(strings.TrimSpace(s))
	if num == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
