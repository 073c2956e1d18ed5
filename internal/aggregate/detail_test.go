package aggregate

import (
	"testing"

	"github.com/Veraticus/trackboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationDetail(t *testing.T) {
	rows := []model.ClassifiedRow{
		row("Alpha", model.StatusOnTrack, nil, rating(9)),
		row("Beta", model.StatusOffTrack, nil, nil),
		row("Alpha", model.StatusOnTrack, nil, nil),
		row("Alpha", model.StatusOffTrack, nil, nil),
	}

	detail := LocationDetail(rows, " Alpha ")
	assert.Equal(t, "Alpha", detail.Location)
	assert.Len(t, detail.Rows, 3)
	assert.Equal(t, 3, detail.Snapshot.TotalRecords)
	assert.Equal(t, 66.7, detail.Snapshot.OnTrackRate)
	assert.Equal(t, 9.0, detail.Snapshot.AverageRating)
	assert.Equal(t, PerformanceGood, detail.Performance)

	missing := LocationDetail(rows, "Omega")
	assert.Empty(t, missing.Rows)
	assert.Zero(t, missing.Snapshot.TotalRecords)
	assert.Equal(t, PerformanceNeedsWork, missing.Performance)
}

func TestStatusDistribution(t *testing.T) {
	mk := func(status string) model.ClassifiedRow {
		return model.ClassifiedRow{Location: "A", Cells: []string{"A", status}}
	}
	rows := []model.ClassifiedRow{mk("On Track"), mk(""), mk("On Track"), mk("Pending"), {Location: "A", Cells: []string{"A"}}}

	dist := StatusDistribution(rows, 1)
	require.Len(t, dist, 3)
	assert.Equal(t, StatusCount{Status: "On Track", Count: 2, Percent: 40}, dist[0])
	assert.Equal(t, StatusCount{Status: UnknownStatus, Count: 2, Percent: 40}, dist[1])
	assert.Equal(t, StatusCount{Status: "Pending", Count: 1, Percent: 20}, dist[2])

	assert.Empty(t, StatusDistribution(nil, 1))
}

func TestColumnMetrics(t *testing.T) {
	header := []string{"Office", "Score", "Notes", "Revenue"}
	rows := []model.ClassifiedRow{
		{Cells: []string{"Alpha", "8", "fine", "1200.5"}},
		{Cells: []string{"Beta", "6/10", "", "-200"}},
		{Cells: []string{"Gamma", "n/a", "ok"}},
	}

	metrics := ColumnMetrics(header, rows)
	require.Len(t, metrics, 2)

	assert.Equal(t, ColumnMetric{Header: "Score", Column: 1, Count: 2, Sum: 14, Average: 7, Min: 6, Max: 8}, metrics[0])
	assert.Equal(t, "Revenue", metrics[1].Header)
	assert.Equal(t, 2, metrics[1].Count)
	assert.InDelta(t, 1000.5, metrics[1].Sum, 0.0001)
	assert.InDelta(t, 500.25, metrics[1].Average, 0.0001)
	assert.Equal(t, -200.0, metrics[1].Min)
	assert.Equal(t, 1200.5, metrics[1].Max)
}

func TestLabelsAndTiers(t *testing.T) {
	tests := []struct {
		label  string
		rate   Tier
		rating Tier
		pct    float64
	}{
		{pct: 100, label: PerformanceExcellent, rate: TierGood, rating: TierGood},
		{pct: 80, label: PerformanceExcellent, rate: TierGood, rating: TierGood},
		{pct: 75, label: PerformanceExcellent, rate: TierWarning, rating: TierGood},
		{pct: 60, label: PerformanceGood, rate: TierWarning, rating: TierGood},
		{pct: 50, label: PerformanceGood, rate: TierDanger, rating: TierGood},
		{pct: 7, label: PerformanceNeedsWork, rate: TierDanger, rating: TierWarning},
		{pct: 0, label: PerformanceNeedsWork, rate: TierDanger, rating: TierDanger},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.label, PerformanceLabel(tt.pct), "label for %v", tt.pct)
		assert.Equal(t, tt.rate, RateTier(tt.pct), "rate tier for %v", tt.pct)
		assert.Equal(t, tt.rating, RatingTier(tt.pct), "rating tier for %v", tt.pct)
	}
}
