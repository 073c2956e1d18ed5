// Package schema infers which columns of the audit sheet hold which role.
package schema

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/Veraticus/trackboard/internal/common"
	"github.com/Veraticus/trackboard/internal/model"
)

// Defaults is the fixed part of the business layout plus the fallbacks used
// when header keywords do not match.
type Defaults struct {
	PersonKeywords   []string `mapstructure:"person_keywords" yaml:"person_keywords" json:"person_keywords"`
	DateKeywords     []string `mapstructure:"date_keywords" yaml:"date_keywords" json:"date_keywords"`
	Location         int      `mapstructure:"location" yaml:"location" json:"location"`
	Person           int      `mapstructure:"person" yaml:"person" json:"person"`
	Date             int      `mapstructure:"date" yaml:"date" json:"date"`
	Status           int      `mapstructure:"status" yaml:"status" json:"status"`
	Rating           int      `mapstructure:"rating" yaml:"rating" json:"rating"`
	// SkipFixedColumns keeps keyword search off the location, status and
	// rating columns, so an "OFFICE NAME" location header never binds person.
	SkipFixedColumns bool     `mapstructure:"skip_fixed_columns" yaml:"skip_fixed_columns" json:"skip_fixed_columns"`
}

// DefaultSchema returns the layout of the weekly audit sheet:
// office in A, personnel in B, rock review in E, meeting rating in H, audit date in J.
func DefaultSchema() Defaults {
	return Defaults{
		Location:       0,
		Person:         1,
		Status:         4,
		Rating:         7,
		Date:           9,
		PersonKeywords: []string{"name", "personnel", "employee"},
		DateKeywords:   []string{"date", "audit"},
	}
}

// Detect picks the header row and binds column roles.
// Location, status and rating are fixed; person and date bind to the first
// header cell containing one of their keywords.
func Detect(m model.Matrix, d Defaults) (model.ColumnSchema, error) {
	if len(m) < 2 {
		return model.ColumnSchema{}, &common.SchemaError{Rows: len(m)}
	}

	headerRow := 0
	if isTitleRow(m[0]) && !isEmptyRow(m[1]) {
		headerRow = 1
	}
	headers := m[headerRow]

	s := model.ColumnSchema{
		HeaderRowIndex: headerRow,
		Location:       d.Location,
		Status:         d.Status,
		Rating:         d.Rating,
	}
	var fixed []int
	if d.SkipFixedColumns {
		fixed = []int{d.Location, d.Status, d.Rating}
	}
	s.Person = findColumn(headers, d.PersonKeywords, d.Person, fixed)
	s.Date = findColumn(headers, d.DateKeywords, d.Date, fixed)

	slog.Debug("Detected column layout",
		"header_row", s.HeaderRowIndex,
		"location", s.Location,
		"person", s.Person,
		"date", s.Date,
		"status", s.Status,
		"rating", s.Rating)

	return s, nil
}

// isTitleRow reports whether more than half of the row's cells are blank.
func isTitleRow(row []string) bool {
	empty := 0
	for _, cell := range row {
		if model.IsBlank(cell) {
			empty++
		}
	}
	return len(row) == 0 || empty*2 > len(row)
}

func isEmptyRow(row []string) bool {
	return len(row) == 0
}

// findColumn returns the first header containing any keyword, or fallback.
// Columns listed in skip are never matched.
func findColumn(headers []string, keywords []string, fallback int, skip []int) int {
	for i, h := range headers {
		lower := strings.ToLower(h)
		if lower == "" || slices.Contains(skip, i) {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return i
			}
		}
	}
	return fallback
}
