// Package filter narrows classified rows by user criteria.
package filter

import (
	"slices"
	"strings"
	"time"

	"github.com/Veraticus/trackboard/internal/model"
)

// Apply returns the rows matching every constraint in c, in input order.
// The input slice is never modified; applying the same criteria twice is a no-op.
func Apply(rows []model.ClassifiedRow, c model.FilterCriteria) []model.ClassifiedRow {
	from := dayOf(c.DateFrom)
	to := dayOf(c.DateTo)
	search := strings.ToLower(strings.TrimSpace(c.Search))

	out := make([]model.ClassifiedRow, 0, len(rows))
	for _, r := range rows {
		if c.HasDateBound() && !inRange(r.ParsedDate, from, to) {
			continue
		}
		if len(c.Locations) > 0 && !slices.Contains(c.Locations, r.Location) {
			continue
		}
		if len(c.Persons) > 0 && !slices.Contains(c.Persons, r.Person) {
			continue
		}
		if c.Status != nil && r.Status != *c.Status {
			continue
		}
		if search != "" && !matchesSearch(r, search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// dayOf truncates t to its calendar day in UTC, keeping nil.
func dayOf(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

// inRange compares calendar days, both bounds inclusive.
func inRange(date, from, to *time.Time) bool {
	d := dayOf(date)
	if d == nil {
		return false
	}
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}

func matchesSearch(r model.ClassifiedRow, needle string) bool {
	for _, cell := range r.Cells {
		if strings.Contains(strings.ToLower(cell), needle) {
			return true
		}
	}
	return false
}

// Locations returns the distinct locations of rows in first-seen order.
func Locations(rows []model.ClassifiedRow) []string {
	return distinct(rows, func(r model.ClassifiedRow) string { return r.Location })
}

// Persons returns the distinct non-empty persons of rows in first-seen order.
func Persons(rows []model.ClassifiedRow) []string {
	return distinct(rows, func(r model.ClassifiedRow) string { return r.Person })
}

func distinct(rows []model.ClassifiedRow, key func(model.ClassifiedRow) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range rows {
		k := key(r)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
