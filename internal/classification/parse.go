package classification

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/trackboard/internal/model"
)

// isoLayouts are tried in order before the slash pattern.
var isoLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// Month/day/year, optionally followed by a time of day.
var slashDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2}|\d{4})(?:\s.*)?$`)

// ParseFlexibleDate parses a date cell on a best-effort basis.
// The result is midnight UTC of the calendar day, or nil when nothing matches.
func ParseFlexibleDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}

	match := slashDatePattern.FindStringSubmatch(s)
	if match == nil {
		return nil
	}
	month, _ := strconv.Atoi(match[1])
	day, _ := strconv.Atoi(match[2])
	year, _ := strconv.Atoi(match[3])
	if len(match[3]) == 2 {
		year += 2000
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes 2/30 into March; reject instead of rolling over.
	if d.Month() != time.Month(month) || d.Day() != day {
		return nil
	}
	return &d
}

// ParseRating reads the leading number of a rating cell.
// Only finite values in [1,10] are ratings; anything else is nil.
func ParseRating(s string) *float64 {
	v, ok := model.LeadingNumber(s)
	if !ok || v < 1 || v > 10 {
		return nil
	}
	return &v
}
