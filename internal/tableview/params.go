package tableview

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/trackboard/internal/model"
)

// Params is the textual form of table state overrides.
type Params struct {
	Sort       string
	PageSize   string
	Columns    []string
	Page       int
	Descending bool
}

// Apply overrides st with the set fields of p. Invalid fields keep the
// current state and are reported together in the returned error.
func (p Params) Apply(header []string, st *model.TableViewState) error {
	var errs []error

	if p.Sort != "" {
		col, err := ResolveColumn(header, p.Sort)
		if err != nil {
			errs = append(errs, fmt.Errorf("sort: %w", err))
		} else {
			st.SortColumn = col
			st.SortDirection = model.SortAscending
			if p.Descending {
				st.SortDirection = model.SortDescending
			}
		}
	}

	if p.PageSize != "" {
		size, err := model.ParsePageSize(p.PageSize)
		if err != nil {
			errs = append(errs, err)
		} else {
			st.SetPageSize(size)
		}
	}

	if len(p.Columns) > 0 {
		visible := make([]int, 0, len(p.Columns))
		for _, ref := range p.Columns {
			col, err := ResolveColumn(header, ref)
			if err != nil {
				errs = append(errs, fmt.Errorf("columns: %w", err))
				continue
			}
			visible = append(visible, col)
		}
		if len(visible) > 0 {
			st.VisibleColumns = VisibleColumns(visible, len(header))
		}
	}

	if p.Page > 0 {
		st.SetPage(p.Page)
	}

	return errors.Join(errs...)
}

// ResolveColumn finds a column by zero-based index, header text
// (case-insensitive) or spreadsheet letter, in that order.
func ResolveColumn(header []string, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, errors.New("empty column reference")
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 0 || n >= len(header) {
			return 0, fmt.Errorf("column %d out of range 0-%d", n, len(header)-1)
		}
		return n, nil
	}
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), ref) {
			return i, nil
		}
	}
	if n, ok := letterIndex(ref); ok && n < len(header) {
		return n, nil
	}
	return 0, fmt.Errorf("unknown column %q", ref)
}

// letterIndex parses A, B, ..., Z, AA, AB, ... into a zero-based index.
func letterIndex(s string) (int, bool) {
	n := 0
	for _, r := range strings.ToUpper(s) {
		if r < 'A' || r > 'Z' {
			return 0, false
		}
		n = n*26 + int(r-'A'+1)
	}
	return n - 1, n > 0
}
