package model

import "time"

// FilterCriteria constrains a row set. Every zero-valued field means
// "no constraint"; all set fields are combined with AND.
type FilterCriteria struct {
	DateFrom  *time.Time      `json:"date_from,omitempty"`
	DateTo    *time.Time      `json:"date_to,omitempty"`
	Status    *StatusCategory `json:"status,omitempty"`
	Search    string          `json:"search,omitempty"`
	Locations []string        `json:"locations,omitempty"`
	Persons   []string        `json:"persons,omitempty"`
}

// HasDateBound reports whether either date bound is set.
func (c FilterCriteria) HasDateBound() bool {
	return c.DateFrom != nil || c.DateTo != nil
}

// IsEmpty reports whether the criteria impose no constraint at all.
func (c FilterCriteria) IsEmpty() bool {
	return !c.HasDateBound() && c.Status == nil && c.Search == "" &&
		len(c.Locations) == 0 && len(c.Persons) == 0
}
