// Package testutil builds audit sheet fixtures for tests.
//
// Example:
//
//	m := testutil.NewAuditBuilder().
//		WithTitle("WEEKLY ACCOUNTABILITY").
//		WithRecords(12).
//		Matrix()
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/trackboard/internal/common"
	"github.com/Veraticus/trackboard/internal/engine"
	"github.com/Veraticus/trackboard/internal/model"
	"github.com/Veraticus/trackboard/internal/sheets"
)

// Header is the header row of the weekly audit sheet: office in A,
// personnel in B, rock review in E, rating in H and audit date in J.
var Header = []string{"Office", "Personnel", "C", "D", "Rock Review", "F", "G", "Rating", "I", "Audit Date"}

// Record is one audit row.
type Record struct {
	Location string
	Person   string
	Status   string
	Rating   string
	Date     string
}

// Cells lays the record out in sheet columns.
func (r Record) Cells() []string {
	return []string{r.Location, r.Person, "", "", r.Status, "", "", r.Rating, "", r.Date}
}

// AuditBuilder assembles an audit matrix row by row.
type AuditBuilder struct {
	title   []string
	records []Record
	extra   [][]string
}

// NewAuditBuilder starts an empty sheet.
func NewAuditBuilder() *AuditBuilder {
	return &AuditBuilder{}
}

// WithTitle puts a mostly blank title row above the header.
func (b *AuditBuilder) WithTitle(title string) *AuditBuilder {
	b.title = make([]string, len(Header))
	b.title[0] = title
	return b
}

// WithRecord appends one record.
func (b *AuditBuilder) WithRecord(r Record) *AuditBuilder {
	b.records = append(b.records, r)
	return b
}

// WithRecords appends n generated records: locations cycle through
// "Office 00" to "Office 03", every third record is off-track, ratings cycle
// from 5 to 9 and dates run from 1/1/2024 one day apart, wrapping after 28.
func (b *AuditBuilder) WithRecords(n int) *AuditBuilder {
	for i := range n {
		b.records = append(b.records, GeneratedRecord(i))
	}
	return b
}

// WithRow appends raw cells after the records, e.g. a repeated header.
func (b *AuditBuilder) WithRow(cells ...string) *AuditBuilder {
	b.extra = append(b.extra, cells)
	return b
}

// Matrix returns the built sheet.
func (b *AuditBuilder) Matrix() model.Matrix {
	m := model.Matrix{}
	if b.title != nil {
		m = append(m, b.title)
	}
	m = append(m, append([]string(nil), Header...))
	for _, r := range b.records {
		m = append(m, r.Cells())
	}
	return append(m, b.extra...)
}

// GeneratedRecord is the i-th record produced by WithRecords.
func GeneratedRecord(i int) Record {
	status := "On Track"
	if i%3 == 0 {
		status = "Off Track"
	}
	return Record{
		Location: fmt.Sprintf("Office %02d", i%4),
		Person:   fmt.Sprintf("Person %d", i),
		Status:   status,
		Rating:   fmt.Sprint(5 + i%5),
		Date:     fmt.Sprintf("1/%d/2024", i%28+1),
	}
}

// AuditMatrix is NewAuditBuilder().WithRecords(n).Matrix().
func AuditMatrix(n int) model.Matrix {
	return NewAuditBuilder().WithRecords(n).Matrix()
}

// WriteCSV writes m as a comma separated file in a test directory and returns its path.
// Cells must not contain commas or quotes.
func WriteCSV(t *testing.T, m model.Matrix) string {
	t.Helper()
	var b strings.Builder
	for _, row := range m {
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	path := filepath.Join(t.TempDir(), "audit.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		t.Fatalf("failed to write audit csv: %v", err)
	}
	return path
}

// Now is the fixed clock of the fixtures: Saturday 20 January 2024, noon UTC.
func Now() time.Time {
	return time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)
}

// NewRefresher returns a refresher over a mock reader serving m, with
// logging discarded and the fixture clock.
func NewRefresher(t *testing.T, m model.Matrix, opts ...engine.RefresherOption) (*engine.Refresher, *sheets.MockReader) {
	t.Helper()
	src := &sheets.MockReader{Matrix: m, Name: "test"}
	opts = append([]engine.RefresherOption{
		engine.WithLogger(common.DiscardLogger()),
		engine.WithClock(Now),
	}, opts...)
	return engine.NewRefresher(src, engine.DefaultPipeline(), opts...), src
}
