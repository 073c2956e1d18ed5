package aggregate

import (
	"strings"

	"github.com/Veraticus/trackboard/internal/model"
)

// UnknownStatus labels rows whose status cell is empty.
const UnknownStatus = "Unknown"

// LocationSummary is the drill-down view of a single location.
type LocationSummary struct {
	Rows        []model.ClassifiedRow   `json:"-"`
	Snapshot    model.AggregateSnapshot `json:"snapshot"`
	Location    string                  `json:"location"`
	Performance string                  `json:"performance"`
}

// LocationDetail returns the rows of one location and their snapshot.
// Matching is exact on the trimmed location text.
func LocationDetail(rows []model.ClassifiedRow, location string) LocationSummary {
	location = strings.TrimSpace(location)
	matched := make([]model.ClassifiedRow, 0)
	for _, r := range rows {
		if r.Location == location {
			matched = append(matched, r)
		}
	}
	snap := Compute(matched)
	return LocationSummary{
		Location:    location,
		Rows:        matched,
		Snapshot:    snap,
		Performance: PerformanceLabel(snap.OnTrackRate),
	}
}

// StatusCount is one entry of the raw status distribution.
type StatusCount struct {
	Status  string  `json:"status"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// StatusDistribution counts the raw status text of every row, in first-seen order.
// Empty cells are counted as UnknownStatus.
func StatusDistribution(rows []model.ClassifiedRow, statusColumn int) []StatusCount {
	index := make(map[string]int)
	dist := []StatusCount{}
	for _, r := range rows {
		status := strings.TrimSpace(r.Cell(statusColumn))
		if status == "" {
			status = UnknownStatus
		}
		i, ok := index[status]
		if !ok {
			i = len(dist)
			index[status] = i
			dist = append(dist, StatusCount{Status: status})
		}
		dist[i].Count++
	}
	for i := range dist {
		dist[i].Percent = Percent(dist[i].Count, len(rows))
	}
	return dist
}

// ColumnMetric summarizes the numeric cells of one column.
type ColumnMetric struct {
	Header  string  `json:"header"`
	Column  int     `json:"column"`
	Count   int     `json:"count"`
	Sum     float64 `json:"sum"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// ColumnMetrics returns a metric for every header column holding at least one number.
func ColumnMetrics(header []string, rows []model.ClassifiedRow) []ColumnMetric {
	metrics := []ColumnMetric{}
	for col, name := range header {
		m := ColumnMetric{Header: strings.TrimSpace(name), Column: col}
		for _, r := range rows {
			v, ok := model.LeadingNumber(r.Cell(col))
			if !ok {
				continue
			}
			if m.Count == 0 {
				m.Min, m.Max = v, v
			}
			m.Count++
			m.Sum += v
			m.Min = min(m.Min, v)
			m.Max = max(m.Max, v)
		}
		if m.Count == 0 {
			continue
		}
		m.Average = Round2(m.Sum / float64(m.Count))
		metrics = append(metrics, m)
	}
	return metrics
}

// Performance labels.
const (
	PerformanceExcellent = "Excellent"
	PerformanceGood      = "Good"
	PerformanceNeedsWork = "Needs Work"
)

// PerformanceLabel grades an on-track percentage.
func PerformanceLabel(pct float64) string {
	switch {
	case pct >= 75:
		return PerformanceExcellent
	case pct >= 50:
		return PerformanceGood
	default:
		return PerformanceNeedsWork
	}
}

// Tier is the colour band of a rate or rating.
type Tier string

// Tiers.
const (
	TierGood    Tier = "good"
	TierWarning Tier = "warning"
	TierDanger  Tier = "danger"
)

// RateTier bands an on-track rate.
func RateTier(pct float64) Tier {
	switch {
	case pct >= 80:
		return TierGood
	case pct >= 60:
		return TierWarning
	default:
		return TierDanger
	}
}

// RatingTier bands an average meeting rating on the 1-10 scale.
func RatingTier(avg float64) Tier {
	switch {
	case avg >= 8:
		return TierGood
	case avg >= 6:
		return TierWarning
	default:
		return TierDanger
	}
}
