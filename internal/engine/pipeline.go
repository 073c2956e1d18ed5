package engine

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/trackboard/internal/classification"
	"github.com/Veraticus/trackboard/internal/model"
	"github.com/Veraticus/trackboard/internal/schema"
)

// Pipeline turns a raw matrix into a Dataset: schema detection, then row classification.
type Pipeline struct {
	classifier *classification.Classifier
	defaults   schema.Defaults
}

// NewPipeline creates a pipeline with the given layout defaults and exclusion rules.
func NewPipeline(defaults schema.Defaults, rules classification.ExclusionRules) *Pipeline {
	return &Pipeline{
		defaults:   defaults,
		classifier: classification.NewClassifier(rules),
	}
}

// DefaultPipeline uses the weekly audit sheet layout.
func DefaultPipeline() *Pipeline {
	return NewPipeline(schema.DefaultSchema(), classification.DefaultExclusionRules())
}

// Build runs the pipeline over m. The matrix is retained but never modified.
func (p *Pipeline) Build(m model.Matrix, fetchedAt time.Time) (*Dataset, error) {
	s, err := schema.Detect(m, p.defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to detect schema: %w", err)
	}

	rows := p.classifier.Classify(m, s)
	slog.Debug("Built dataset",
		"rows", len(rows),
		"header_row", s.HeaderRowIndex,
		"fetched_at", fetchedAt)

	return &Dataset{
		Matrix:    m,
		Schema:    s,
		Header:    headerOf(m, s),
		Rows:      rows,
		FetchedAt: fetchedAt,
	}, nil
}

// headerOf returns the trimmed header row, padded to the matrix width with
// spreadsheet column letters so every data column has a name.
func headerOf(m model.Matrix, s model.ColumnSchema) []string {
	width := m.Width()
	header := make([]string, width)
	for i := range header {
		name := strings.TrimSpace(m.Cell(s.HeaderRowIndex, i))
		if name == "" {
			name = ColumnLetter(i)
		}
		header[i] = name
	}
	return header
}

// ColumnLetter returns the spreadsheet letter of a zero-based column: 0 is A, 26 is AA.
func ColumnLetter(i int) string {
	if i < 0 {
		return ""
	}
	var b []byte
	for i >= 0 {
		b = append([]byte{byte('A' + i%26)}, b...)
		i = i/26 - 1
	}
	return string(b)
}
