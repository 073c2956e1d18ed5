package classification

import (
	"log/slog"
	"strings"

	"github.com/Veraticus/trackboard/internal/model"
)

// Classifier derives ClassifiedRows from a matrix body.
// It is safe for concurrent use; its rules are fixed at construction.
type Classifier struct {
	rules ExclusionRules
}

// NewClassifier creates a classifier with the given exclusion rules.
func NewClassifier(rules ExclusionRules) *Classifier {
	return &Classifier{rules: rules.normalized()}
}

// Classify returns the data rows of m below the header, minus excluded rows.
// Input order is preserved. It never fails: unusable cells degrade to nil or Other.
func (c *Classifier) Classify(m model.Matrix, s model.ColumnSchema) []model.ClassifiedRow {
	start := s.DataStartRowIndex()
	if start >= len(m) {
		return []model.ClassifiedRow{}
	}

	rows := make([]model.ClassifiedRow, 0, len(m)-start)
	excluded := 0
	for _, raw := range m[start:] {
		location := strings.TrimSpace(model.CellAt(raw, s.Location))
		if c.IsExcluded(location) {
			excluded++
			continue
		}
		rows = append(rows, model.ClassifiedRow{
			Cells:      raw,
			Location:   location,
			Person:     strings.TrimSpace(model.CellAt(raw, s.Person)),
			ParsedDate: ParseFlexibleDate(model.CellAt(raw, s.Date)),
			Status:     model.ClassifyStatus(model.CellAt(raw, s.Status)),
			Rating:     ParseRating(model.CellAt(raw, s.Rating)),
		})
	}

	slog.Debug("Classified rows", "kept", len(rows), "excluded", excluded)
	return rows
}

// IsExcluded reports whether a location cell marks a header or title artifact.
func (c *Classifier) IsExcluded(location string) bool {
	loc := strings.ToUpper(strings.TrimSpace(location))
	if loc == "" {
		return true
	}
	for _, label := range c.rules.HeaderLabels {
		if loc == label {
			return true
		}
	}
	for _, marker := range c.rules.TitleMarkers {
		if strings.Contains(loc, marker) {
			return true
		}
	}
	return false
}
