package tableview

import (
	"strings"

	"github.com/Veraticus/trackboard/internal/model"
)

// Projection returns the header and every row (not only one page) restricted
// to the visible columns. Cells are raw text.
func Projection(header []string, rows []model.ClassifiedRow, visible []int) [][]string {
	columns := VisibleColumns(visible, len(header))
	out := make([][]string, 0, len(rows)+1)
	out = append(out, Project(header, columns))
	for _, r := range rows {
		out = append(out, Project(r.Cells, columns))
	}
	return out
}

// ExportProjection is Projection with every cell wrapped in double quotes
// and embedded quotes doubled. Joining cells with a delimiter is up to the caller.
func ExportProjection(header []string, rows []model.ClassifiedRow, visible []int) [][]string {
	out := Projection(header, rows, visible)
	for _, row := range out {
		for i, cell := range row {
			row[i] = Quote(cell)
		}
	}
	return out
}

// Quote wraps s in double quotes, doubling any quote inside it.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
