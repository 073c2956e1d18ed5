package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/trackboard/internal/filter"
	"github.com/Veraticus/trackboard/internal/service"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the Excel report.
const (
	SummarySheet   = "Summary"
	LocationsSheet = "Locations"
	TrendSheet     = "Trend"
	DataSheet      = "Data"
)

// XLSXWriter writes a workbook with summary, breakdown, trend and data sheets.
type XLSXWriter struct {
	Out      io.Writer
	Progress io.Writer
}

// Write implements service.ReportWriter.
func (w *XLSXWriter) Write(ctx context.Context, report *service.Report) error {
	f, err := BuildWorkbook(ctx, report, w.Progress)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close workbook", "error", closeErr)
		}
	}()

	if _, err := f.WriteTo(w.Out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// BuildWorkbook lays the report out as an in-memory workbook.
func BuildWorkbook(ctx context.Context, report *service.Report, progress io.Writer) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{LocationsSheet, TrendSheet, DataSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	snap := report.Snapshot
	summary := [][]any{
		{report.Title, report.GeneratedAt.Format("2006-01-02 15:04")},
		{"Total Records", snap.TotalRecords},
		{"Locations", snap.TotalLocations},
		{"On-Track", snap.OnTrackCount},
		{"Off-Track", snap.OffTrackCount},
		{"Other", snap.OtherCount},
		{"On-Track Rate", snap.OnTrackRate},
		{"Average Rating", snap.AverageRating},
	}
	for _, tag := range filter.Describe(report.Criteria) {
		summary = append(summary, []any{"Filter", tag})
	}
	if err := writeRows(f, SummarySheet, summary, nil); err != nil {
		return nil, err
	}

	locations := [][]any{{"Location", "On-Track", "Off-Track", "Other", "Total"}}
	for _, b := range snap.PerLocationBreakdown {
		locations = append(locations, []any{b.Location, b.OnTrack, b.OffTrack, b.Other, b.Total})
	}
	if err := writeRows(f, LocationsSheet, locations, nil); err != nil {
		return nil, err
	}

	trend := [][]any{{"Month", "Label", "On-Track", "Off-Track", "Records", "On-Track %"}}
	for _, b := range snap.MonthlyTrend {
		trend = append(trend, []any{b.MonthKey, b.Label, b.OnTrack, b.OffTrack, b.TotalRecords, b.OnTrackPercent})
	}
	if err := writeRows(f, TrendSheet, trend, nil); err != nil {
		return nil, err
	}

	data := make([][]any, 0, len(report.Rows)+1)
	data = append(data, toAny(report.Header))
	for _, row := range report.Rows {
		data = append(data, toAny(row))
	}
	bar := newProgress(progress, len(report.Rows), "Writing workbook...")
	if err := writeRows(f, DataSheet, data, func(i int) error {
		if i > 0 {
			step(bar)
		}
		if i%500 == 0 {
			return ctx.Err()
		}
		return nil
	}); err != nil {
		return nil, err
	}

	for _, name := range []string{LocationsSheet, TrendSheet, DataSheet} {
		if err := f.SetRowStyle(name, 1, 1, bold); err != nil {
			return nil, fmt.Errorf("failed to style %s header: %w", name, err)
		}
	}
	if err := f.SetRowStyle(SummarySheet, 1, 1, bold); err != nil {
		return nil, fmt.Errorf("failed to style summary title: %w", err)
	}

	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any, each func(int) error) error {
	for i, row := range rows {
		if each != nil {
			if err := each(i); err != nil {
				return err
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func toAny(cells []string) []any {
	out := make([]any, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}
