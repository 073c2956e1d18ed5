package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StatusCategory is the normalized classification of a row's status cell.
type StatusCategory int

// Status categories.
const (
	StatusOther StatusCategory = iota
	StatusOnTrack
	StatusOffTrack
)

// String returns the display label used by the original sheet.
func (s StatusCategory) String() string {
	switch s {
	case StatusOnTrack:
		return "On-Track"
	case StatusOffTrack:
		return "Off-Track"
	default:
		return "Other"
	}
}

// Key returns the stable lowercase identifier used in URLs and config.
func (s StatusCategory) Key() string {
	switch s {
	case StatusOnTrack:
		return "on-track"
	case StatusOffTrack:
		return "off-track"
	default:
		return "other"
	}
}

// MarshalJSON encodes the category as its key.
func (s StatusCategory) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Key())
}

// ClassifyStatus maps free status text to a category.
// "off" together with "track" always wins over "on".
func ClassifyStatus(text string) StatusCategory {
	v := strings.ToLower(strings.TrimSpace(text))
	hasTrack := strings.Contains(v, "track")
	switch {
	case hasTrack && strings.Contains(v, "off"):
		return StatusOffTrack
	case hasTrack && strings.Contains(v, "on"):
		return StatusOnTrack
	default:
		return StatusOther
	}
}

// ParseStatusCategory parses one of the three category labels.
// It accepts keys ("off-track") and display labels ("Off Track") in any case.
func ParseStatusCategory(s string) (StatusCategory, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(norm)
	switch norm {
	case "ontrack":
		return StatusOnTrack, nil
	case "offtrack":
		return StatusOffTrack, nil
	case "other":
		return StatusOther, nil
	}
	return StatusOther, fmt.Errorf("unknown status category %q", s)
}

// AllStatusCategories lists the categories in display order.
func AllStatusCategories() []StatusCategory {
	return []StatusCategory{StatusOnTrack, StatusOffTrack, StatusOther}
}
