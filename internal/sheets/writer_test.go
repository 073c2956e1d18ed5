package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/trackboard/internal/model"
	"github.com/Veraticus/trackboard/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *service.Report {
	status := model.StatusOffTrack
	return &service.Report{
		Title:       "Weekly",
		GeneratedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		Criteria:    model.FilterCriteria{Status: &status},
		Header:      []string{"Office", "Status"},
		Rows:        [][]string{{"Alpha", "Off Track"}, {"Beta", "Off Track"}},
		Snapshot: model.AggregateSnapshot{
			TotalRecords:  2,
			OffTrackCount: 2,
			PerLocationBreakdown: []model.LocationBreakdown{
				{Location: "Alpha", OffTrack: 1, Total: 1},
				{Location: "Beta", OffTrack: 1, Total: 1},
			},
			MonthlyTrend: []model.MonthlyBucket{
				{MonthKey: "2024-02", Label: "Feb 2024", OffTrack: 2, TotalRecords: 2},
			},
		},
	}
}

func TestPrepareReportData(t *testing.T) {
	l := prepareReportData(sampleReport())

	assert.Equal(t, []any{"Weekly", "Mar 1, 2024 09:30"}, l.values[0])
	assert.Equal(t, []any{"Filters", "Status: Off-Track"}, l.values[1])

	require.Len(t, l.sectionRows, 4)
	titles := make([]any, 0, len(l.sectionRows))
	for _, row := range l.sectionRows {
		titles = append(titles, l.values[row][0])
	}
	assert.Equal(t, []any{"Summary", "Location Breakdown", "Monthly Trend", "Records"}, titles)

	assert.Equal(t, []any{"Office", "Status"}, l.values[l.tableHeader])
	assert.Equal(t, []any{"Alpha", "Off Track"}, l.values[l.tableHeader+1])
	assert.Equal(t, []any{"Beta", "Off Track"}, l.values[len(l.values)-1])
	assert.Contains(t, l.values, []any{"Alpha", 0, 1, 0, 1})
	assert.Contains(t, l.values, []any{"Feb 2024", 0.0, 2})
	assert.Contains(t, l.values, []any{"On-Track Rate", "0.0%"})
}

func TestPrepareReportData_DefaultTitle(t *testing.T) {
	r := sampleReport()
	r.Title = ""
	r.Criteria = model.FilterCriteria{}

	l := prepareReportData(r)
	assert.Equal(t, "Weekly Accountability Report", l.values[0][0])
	assert.Equal(t, []any{}, l.values[1])
}

func TestQuoteSheet(t *testing.T) {
	assert.Equal(t, "'Report'", quoteSheet("Report"))
	assert.Equal(t, "'Bob''s Report'", quoteSheet("Bob's Report"))
}

func TestMockWriter(t *testing.T) {
	m := NewMockWriter()
	require.NoError(t, m.Write(context.Background(), sampleReport()))

	boom := errors.New("boom")
	m.SetWriteError(boom)
	assert.ErrorIs(t, m.Write(context.Background(), sampleReport()), boom)

	calls := m.GetWriteCalls()
	require.Len(t, calls, 2)
	assert.NoError(t, calls[0].Error)
	assert.ErrorIs(t, calls[1].Error, boom)
	assert.Equal(t, 2, m.WriteCallCount)
}
