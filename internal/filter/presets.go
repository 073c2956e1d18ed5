package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/trackboard/internal/model"
)

// DateLayout is the calendar date format used in criteria descriptions and flags.
const DateLayout = "2006-01-02"

// Preset names.
const (
	PresetToday    = "today"
	PresetWeek     = "week"
	PresetMonth    = "month"
	PresetYear     = "year"
	PresetOffTrack = "offtrack"
)

// PresetNames lists the supported quick filters.
func PresetNames() []string {
	return []string{PresetToday, PresetWeek, PresetMonth, PresetYear, PresetOffTrack}
}

// Preset returns the criteria of a quick filter relative to now.
// Presets replace every other constraint.
func Preset(name string, now time.Time) (model.FilterCriteria, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	var c model.FilterCriteria

	switch strings.ToLower(strings.TrimSpace(name)) {
	case PresetToday:
		c.DateFrom, c.DateTo = &today, &today
	case PresetWeek:
		from := today.AddDate(0, 0, -7)
		c.DateFrom, c.DateTo = &from, &today
	case PresetMonth:
		from := today.AddDate(0, -1, 0)
		c.DateFrom, c.DateTo = &from, &today
	case PresetYear:
		from := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		c.DateFrom, c.DateTo = &from, &today
	case PresetOffTrack:
		status := model.StatusOffTrack
		c.Status = &status
	default:
		return model.FilterCriteria{}, fmt.Errorf("unknown preset %q (valid: %s)",
			name, strings.Join(PresetNames(), ", "))
	}
	return c, nil
}

// Describe renders the active constraints as short tags for display.
func Describe(c model.FilterCriteria) []string {
	tags := []string{}
	if c.DateFrom != nil {
		tags = append(tags, "From: "+c.DateFrom.Format(DateLayout))
	}
	if c.DateTo != nil {
		tags = append(tags, "To: "+c.DateTo.Format(DateLayout))
	}
	if len(c.Locations) > 0 {
		tags = append(tags, "Location: "+strings.Join(c.Locations, ", "))
	}
	if len(c.Persons) > 0 {
		tags = append(tags, "Person: "+strings.Join(c.Persons, ", "))
	}
	if c.Status != nil {
		tags = append(tags, "Status: "+c.Status.String())
	}
	if s := strings.TrimSpace(c.Search); s != "" {
		tags = append(tags, fmt.Sprintf("Search: %q", s))
	}
	return tags
}
