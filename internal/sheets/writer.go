package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/trackboard/internal/common"
	"github.com/Veraticus/trackboard/internal/filter"
	"github.com/Veraticus/trackboard/internal/service"
	"google.golang.org/api/sheets/v4"
)

// Writer implements the ReportWriter interface for Google Sheets.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.ValidateWriter(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := newService(ctx, config, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
	}, nil
}

// Write replaces the report tab with the given report.
func (w *Writer) Write(ctx context.Context, report *service.Report) error {
	spreadsheetID := w.config.ReportTarget()
	w.logger.Info("starting report generation",
		"spreadsheet_id", spreadsheetID,
		"sheet", w.config.ReportSheetName,
		"rows", len(report.Rows))

	sheetID, err := w.ensureSheet(ctx, spreadsheetID)
	if err != nil {
		return fmt.Errorf("failed to prepare sheet: %w", err)
	}

	if clearErr := w.clearSheet(ctx, spreadsheetID); clearErr != nil {
		return fmt.Errorf("failed to clear sheet: %w", clearErr)
	}

	layout := prepareReportData(report)

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	err = common.WithRetry(ctx, func() error {
		return w.writeData(ctx, spreadsheetID, layout.values)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return w.applyFormatting(ctx, spreadsheetID, sheetID, layout)
		}, retryOpts)
		if err != nil {
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("report generation completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(layout.values))

	return nil
}

// ensureSheet returns the id of the report tab, creating it when missing.
func (w *Writer) ensureSheet(ctx context.Context, spreadsheetID string) (int64, error) {
	ss, err := w.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("unable to access spreadsheet %s: %w", spreadsheetID, err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == w.config.ReportSheetName {
			return sh.Properties.SheetId, nil
		}
	}

	resp, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: w.config.ReportSheetName},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("unable to add sheet %q: %w", w.config.ReportSheetName, err)
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil {
		return 0, fmt.Errorf("unable to add sheet %q: empty reply", w.config.ReportSheetName)
	}

	id := resp.Replies[0].AddSheet.Properties.SheetId
	w.logger.Info("created report sheet", "sheet", w.config.ReportSheetName, "sheet_id", id)
	return id, nil
}

func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, quoteSheet(w.config.ReportSheetName), &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// reportLayout is the report as sheet rows plus the rows that need emphasis.
type reportLayout struct {
	values      [][]any
	sectionRows []int
	tableHeader int
}

// prepareReportData lays out the summary, breakdown, trend and data sections.
func prepareReportData(report *service.Report) reportLayout {
	snap := report.Snapshot
	var l reportLayout

	section := func(title string) {
		l.sectionRows = append(l.sectionRows, len(l.values))
		l.values = append(l.values, []any{title})
	}

	title := report.Title
	if title == "" {
		title = "Weekly Accountability Report"
	}
	l.values = append(l.values,
		[]any{title, report.GeneratedAt.Format("Jan 2, 2006 15:04")},
	)
	if tags := filter.Describe(report.Criteria); len(tags) > 0 {
		l.values = append(l.values, []any{"Filters", strings.Join(tags, "; ")})
	}
	l.values = append(l.values, []any{})

	section("Summary")
	l.values = append(l.values,
		[]any{"Total Records", snap.TotalRecords},
		[]any{"Locations", snap.TotalLocations},
		[]any{"On-Track", snap.OnTrackCount},
		[]any{"Off-Track", snap.OffTrackCount},
		[]any{"Other", snap.OtherCount},
		[]any{"On-Track Rate", fmt.Sprintf("%.1f%%", snap.OnTrackRate)},
		[]any{"Average Rating", fmt.Sprintf("%.1f/10", snap.AverageRating)},
		[]any{},
	)

	section("Location Breakdown")
	l.values = append(l.values, []any{"Location", "On-Track", "Off-Track", "Other", "Total"})
	for _, b := range snap.PerLocationBreakdown {
		l.values = append(l.values, []any{b.Location, b.OnTrack, b.OffTrack, b.Other, b.Total})
	}
	l.values = append(l.values, []any{})

	section("Monthly Trend")
	l.values = append(l.values, []any{"Month", "On-Track %", "Records"})
	for _, b := range snap.MonthlyTrend {
		l.values = append(l.values, []any{b.Label, b.OnTrackPercent, b.TotalRecords})
	}
	l.values = append(l.values, []any{}, []any{})

	section("Records")
	l.tableHeader = len(l.values)
	header := make([]any, len(report.Header))
	for i, h := range report.Header {
		header[i] = h
	}
	l.values = append(l.values, header)
	for _, row := range report.Rows {
		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = c
		}
		l.values = append(l.values, cells)
	}

	return l
}

// writeData writes the data to the spreadsheet.
func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(values))
		batch := values[i:end]

		rangeStr := fmt.Sprintf("%s!A%d", quoteSheet(w.config.ReportSheetName), i+1)
		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, rangeStr, &sheets.ValueRange{Values: batch}).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("wrote batch", "start_row", i+1, "rows", len(batch))
	}

	return nil
}

// applyFormatting bolds the title, section and table header rows and freezes the title.
func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, sheetID int64, l reportLayout) error {
	bold := func(row int64, size int64) *sheets.Request {
		return &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:       sheetID,
					StartRowIndex: row,
					EndRowIndex:   row + 1,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true, FontSize: size},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		}
	}

	requests := []*sheets.Request{bold(0, 16)}
	for _, row := range l.sectionRows {
		requests = append(requests, bold(int64(row), 12))
	}
	requests = append(requests,
		bold(int64(l.tableHeader), 10),
		&sheets.Request{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:   sheetID,
					Dimension: "COLUMNS",
				},
			},
		},
		&sheets.Request{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId:        sheetID,
					GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	)

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}

// quoteSheet quotes a sheet title for use in A1 notation.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
