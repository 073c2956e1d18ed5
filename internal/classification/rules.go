// Package classification turns raw sheet rows into classified rows.
package classification

import "strings"

// ExclusionRules identify rows that are artifacts of the sheet layout
// (repeated header rows, section titles) rather than data.
type ExclusionRules struct {
	HeaderLabels []string `mapstructure:"header_labels" yaml:"header_labels" json:"header_labels"`
	TitleMarkers []string `mapstructure:"title_markers" yaml:"title_markers" json:"title_markers"`
}

// DefaultExclusionRules returns the rules for the weekly accountability sheet.
func DefaultExclusionRules() ExclusionRules {
	return ExclusionRules{
		HeaderLabels: []string{"OFFICE NAME"},
		TitleMarkers: []string{"WEEKLY ACCOUNTABILITY", "WAM"},
	}
}

// normalized returns a copy with every label trimmed and uppercased.
func (r ExclusionRules) normalized() ExclusionRules {
	return ExclusionRules{
		HeaderLabels: upperAll(r.HeaderLabels),
		TitleMarkers: upperAll(r.TitleMarkers),
	}
}

func upperAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
