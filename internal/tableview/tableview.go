// Package tableview sorts, paginates and projects filtered rows for display.
package tableview

import (
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/Veraticus/trackboard/internal/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Page is the table view-model for one page of rows.
type Page struct {
	Header       []string   `json:"header"`
	Columns      []int      `json:"columns"`
	Rows         [][]string `json:"rows"`
	TotalRows    int        `json:"total_rows"`
	TotalPages   int        `json:"total_pages"`
	PageIndex    int        `json:"page_index"`
	PageSize     int        `json:"page_size"`
	ShowingStart int        `json:"showing_start"`
	ShowingEnd   int        `json:"showing_end"`
}

// Build sorts rows by the state's sort column, cuts the requested page and
// projects it onto the visible columns. The state is read, never modified.
func Build(header []string, rows []model.ClassifiedRow, st model.TableViewState) Page {
	sorted := Sort(rows, st.SortColumn, st.SortDirection)
	columns := VisibleColumns(st.VisibleColumns, len(header))

	size := st.PageSize
	if size < 0 {
		size = model.DefaultPageSize
	}

	total := len(sorted)
	totalPages := 1
	if size != model.PageSizeAll {
		totalPages = max(1, (total+size-1)/size)
	}
	page := min(max(st.PageIndex, 1), totalPages)

	start, end := 0, total
	if size != model.PageSizeAll {
		start = min((page-1)*size, total)
		end = min(start+size, total)
	}

	out := make([][]string, 0, end-start)
	for _, r := range sorted[start:end] {
		out = append(out, Project(r.Cells, columns))
	}

	p := Page{
		Header:     Project(header, columns),
		Columns:    columns,
		Rows:       out,
		TotalRows:  total,
		TotalPages: totalPages,
		PageIndex:  page,
		PageSize:   size,
	}
	if end > start {
		p.ShowingStart = start + 1
		p.ShowingEnd = end
	}
	return p
}

// Sort returns a stably sorted copy of rows. A negative column returns
// the rows in their original order.
func Sort(rows []model.ClassifiedRow, column int, dir model.SortDirection) []model.ClassifiedRow {
	sorted := slices.Clone(rows)
	if column < 0 {
		return sorted
	}

	cmp := newComparer()
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Cell(column), sorted[j].Cell(column)
		if dir == model.SortDescending {
			return cmp.compare(b, a) < 0
		}
		return cmp.compare(a, b) < 0
	})
	return sorted
}

// comparer orders cell text numerically when both sides are finite numbers
// and by English collation otherwise. Case differences order at the tertiary
// level ("alpha" before "Alpha") instead of comparing equal. A collator is not
// safe for concurrent use, so each sort gets its own.
type comparer struct {
	collator *collate.Collator
}

func newComparer() *comparer {
	return &comparer{collator: collate.New(language.English)}
}

func (c *comparer) compare(a, b string) int {
	if x, ok := parseNumber(a); ok {
		if y, ok := parseNumber(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			default:
				return 0
			}
		}
	}
	return c.collator.CompareString(a, b)
}

// parseNumber accepts finite numbers only; "NaN" and "Inf" cells sort as text.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// VisibleColumns normalizes a visible set into ascending, distinct,
// non-negative indices. A nil set means every one of width columns.
func VisibleColumns(visible []int, width int) []int {
	if visible == nil {
		all := make([]int, width)
		for i := range all {
			all[i] = i
		}
		return all
	}
	out := make([]int, 0, len(visible))
	for _, c := range visible {
		if c >= 0 {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Project keeps the given columns of cells, in the given order.
// Columns past the end of cells project to "".
func Project(cells []string, columns []int) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = model.CellAt(cells, c)
	}
	return out
}
