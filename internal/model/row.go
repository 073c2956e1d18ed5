package model

import "time"

// ClassifiedRow is a data row with its derived fields.
// Rows are produced wholesale on each refresh and never mutated.
type ClassifiedRow struct {
	ParsedDate *time.Time     `json:"parsed_date,omitempty"`
	Rating     *float64       `json:"rating,omitempty"`
	Location   string         `json:"location"`
	Person     string         `json:"person"`
	Cells      []string       `json:"cells"`
	Status     StatusCategory `json:"status"`
}

// Cell returns the raw cell at column c, or "".
func (r ClassifiedRow) Cell(c int) string {
	return CellAt(r.Cells, c)
}
