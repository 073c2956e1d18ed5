// Package aggregate computes summary statistics over classified rows.
// Every function is pure and depends on input order only for tie-breaks.
package aggregate

import (
	"math"
	"sort"

	"github.com/Veraticus/trackboard/internal/model"
)

// TopLocations caps the per-location breakdown.
const TopLocations = 10

// MonthKeyLayout formats a date as its trend bucket key.
const MonthKeyLayout = "2006-01"

// MonthLabelLayout formats a bucket for display, e.g. "Jan 2024".
const MonthLabelLayout = "Jan 2006"

// Compute builds the snapshot for rows, which may be the full set or a filtered subset.
func Compute(rows []model.ClassifiedRow) model.AggregateSnapshot {
	snap := model.AggregateSnapshot{
		TotalRecords:         len(rows),
		PerLocationBreakdown: []model.LocationBreakdown{},
		MonthlyTrend:         []model.MonthlyBucket{},
	}

	var ratingSum float64
	locations := make(map[string]struct{})
	for _, r := range rows {
		switch r.Status {
		case model.StatusOnTrack:
			snap.OnTrackCount++
		case model.StatusOffTrack:
			snap.OffTrackCount++
		default:
			snap.OtherCount++
		}
		if r.Location != "" {
			locations[r.Location] = struct{}{}
		}
		if r.Rating != nil {
			ratingSum += *r.Rating
			snap.RatingCount++
		}
	}

	snap.TotalLocations = len(locations)
	snap.OnTrackRate = Percent(snap.OnTrackCount, snap.TotalRecords)
	if snap.RatingCount > 0 {
		snap.AverageRating = Round1(ratingSum / float64(snap.RatingCount))
	}
	snap.PerLocationBreakdown = Breakdown(rows, TopLocations)
	snap.MonthlyTrend = MonthlyTrend(rows)

	return snap
}

// Breakdown groups rows by location, largest first, keeping first-seen
// order among equal totals. limit <= 0 returns every location.
func Breakdown(rows []model.ClassifiedRow, limit int) []model.LocationBreakdown {
	index := make(map[string]int)
	groups := []model.LocationBreakdown{}
	for _, r := range rows {
		i, ok := index[r.Location]
		if !ok {
			i = len(groups)
			index[r.Location] = i
			groups = append(groups, model.LocationBreakdown{Location: r.Location})
		}
		g := &groups[i]
		switch r.Status {
		case model.StatusOnTrack:
			g.OnTrack++
		case model.StatusOffTrack:
			g.OffTrack++
		default:
			g.Other++
		}
		g.Total++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Total > groups[j].Total
	})

	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

// MonthlyTrend buckets dated rows by calendar month in chronological order.
// Rows without a parsed date are skipped.
func MonthlyTrend(rows []model.ClassifiedRow) []model.MonthlyBucket {
	buckets := make(map[string]*model.MonthlyBucket)
	for _, r := range rows {
		if r.ParsedDate == nil {
			continue
		}
		key := r.ParsedDate.Format(MonthKeyLayout)
		b, ok := buckets[key]
		if !ok {
			b = &model.MonthlyBucket{
				MonthKey: key,
				Label:    r.ParsedDate.Format(MonthLabelLayout),
			}
			buckets[key] = b
		}
		switch r.Status {
		case model.StatusOnTrack:
			b.OnTrack++
		case model.StatusOffTrack:
			b.OffTrack++
		}
		b.TotalRecords++
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	trend := make([]model.MonthlyBucket, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		b.OnTrackPercent = Percent(b.OnTrack, b.TotalRecords)
		trend = append(trend, *b)
	}
	return trend
}

// Percent returns part/total*100 rounded to one decimal, or 0 when total is 0.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round1(float64(part) / float64(total) * 100)
}

// Round1 rounds to one decimal place, halves away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to two decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
