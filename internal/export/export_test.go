package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/Veraticus/trackboard/internal/model"
	"github.com/Veraticus/trackboard/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport() *service.Report {
	return &service.Report{
		Title:       "Weekly",
		GeneratedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		Header:      []string{"Office", "Notes"},
		Rows:        [][]string{{"Alpha", `said "hi"`}, {"Beta, East", ""}},
		Snapshot: model.AggregateSnapshot{
			TotalRecords: 2,
			OnTrackCount: 1,
			OnTrackRate:  50,
			PerLocationBreakdown: []model.LocationBreakdown{
				{Location: "Alpha", OnTrack: 1, Total: 1},
				{Location: "Beta, East", Other: 1, Total: 1},
			},
			MonthlyTrend: []model.MonthlyBucket{
				{MonthKey: "2024-02", Label: "Feb 2024", OnTrack: 1, TotalRecords: 2, OnTrackPercent: 50},
			},
		},
	}
}

func TestCSVWriter(t *testing.T) {
	tests := []struct {
		name   string
		writer CSVWriter
		want   string
	}{
		{
			name: "default comma",
			want: "\"Office\",\"Notes\"\n\"Alpha\",\"said \"\"hi\"\"\"\n\"Beta, East\",\"\"\n",
		},
		{
			name:   "semicolon with bom",
			writer: CSVWriter{Delimiter: ";", BOM: true},
			want:   "\ufeff\"Office\";\"Notes\"\n\"Alpha\";\"said \"\"hi\"\"\"\n\"Beta, East\";\"\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, progress bytes.Buffer
			w := tt.writer
			w.Out = &out
			w.Progress = &progress

			require.NoError(t, w.Write(context.Background(), sampleReport()))
			assert.Equal(t, tt.want, out.String())
			assert.NotEmpty(t, progress.String())
		})
	}
}

func TestCSVWriter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := (&CSVWriter{Out: &out}).Write(ctx, sampleReport())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestXLSXWriter(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, (&XLSXWriter{Out: &out}).Write(context.Background(), sampleReport()))

	f, err := excelize.OpenReader(&out)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SummarySheet, LocationsSheet, TrendSheet, DataSheet}, f.GetSheetList())

	data, err := f.GetRows(DataSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Office", "Notes"}, {"Alpha", `said "hi"`}, {"Beta, East"}}, data)

	locations, err := f.GetRows(LocationsSheet)
	require.NoError(t, err)
	require.Len(t, locations, 3)
	assert.Equal(t, []string{"Alpha", "1", "0", "0", "1"}, locations[1])

	rate, err := f.GetCellValue(SummarySheet, "B7")
	require.NoError(t, err)
	assert.Equal(t, "50", rate)

	trend, err := f.GetRows(TrendSheet)
	require.NoError(t, err)
	assert.Equal(t, "Feb 2024", trend[1][1])
}
