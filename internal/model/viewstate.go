package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SortDirection orders the table view.
type SortDirection int

// Sort directions.
const (
	SortAscending SortDirection = iota
	SortDescending
)

// String returns "asc" or "desc".
func (d SortDirection) String() string {
	if d == SortDescending {
		return "desc"
	}
	return "asc"
}

const (
	// NoSort marks an unsorted table.
	NoSort = -1
	// PageSizeAll shows every row on a single page.
	PageSizeAll = 0
	// DefaultPageSize is the initial number of rows per page.
	DefaultPageSize = 25
)

// PageSizeOptions are the sizes offered by interactive views.
var PageSizeOptions = []int{10, 25, 50, 100, PageSizeAll}

// TableViewState is the user-controlled presentation state of the table.
// It is mutated in place by interaction and survives data refreshes.
type TableViewState struct {
	VisibleColumns []int
	SortColumn     int
	SortDirection  SortDirection
	PageIndex      int
	PageSize       int
}

// NewTableViewState returns the default state with every column visible.
func NewTableViewState(columns int) TableViewState {
	visible := make([]int, columns)
	for i := range visible {
		visible[i] = i
	}
	return TableViewState{
		VisibleColumns: visible,
		SortColumn:     NoSort,
		SortDirection:  SortAscending,
		PageIndex:      1,
		PageSize:       DefaultPageSize,
	}
}

// ToggleSort sorts by column, flipping the direction when it is already the sort column.
func (s *TableViewState) ToggleSort(column int) {
	if column < 0 {
		s.SortColumn = NoSort
		return
	}
	if s.SortColumn == column {
		if s.SortDirection == SortAscending {
			s.SortDirection = SortDescending
		} else {
			s.SortDirection = SortAscending
		}
		return
	}
	s.SortColumn = column
	s.SortDirection = SortAscending
}

// SetPageSize changes the page size and returns to the first page.
func (s *TableViewState) SetPageSize(size int) {
	if size < 0 {
		size = DefaultPageSize
	}
	s.PageSize = size
	s.PageIndex = 1
}

// SetPage moves to page; values below 1 select the first page.
// The upper bound is clamped when the view is built.
func (s *TableViewState) SetPage(page int) {
	s.PageIndex = max(page, 1)
}

// ToggleColumn hides a visible column or shows a hidden one,
// keeping the visible set in ascending order.
func (s *TableViewState) ToggleColumn(column int) {
	for i, c := range s.VisibleColumns {
		if c == column {
			s.VisibleColumns = append(s.VisibleColumns[:i:i], s.VisibleColumns[i+1:]...)
			return
		}
	}
	s.VisibleColumns = append(s.VisibleColumns, column)
	sort.Ints(s.VisibleColumns)
}

// IsVisible reports whether column is in the visible set.
func (s TableViewState) IsVisible(column int) bool {
	for _, c := range s.VisibleColumns {
		if c == column {
			return true
		}
	}
	return false
}

// ParsePageSize parses a positive integer or the literal "all".
func ParsePageSize(v string) (int, error) {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "all" {
		return PageSizeAll, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid page size %q: %w", v, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("page size must be positive, got %d", n)
	}
	return n, nil
}

// FormatPageSize is the inverse of ParsePageSize.
func FormatPageSize(size int) string {
	if size == PageSizeAll {
		return "all"
	}
	return strconv.Itoa(size)
}
