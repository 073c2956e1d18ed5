package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Veraticus/trackboard/internal/cli"
	"github.com/Veraticus/trackboard/internal/common"
	"github.com/Veraticus/trackboard/internal/config"
	"github.com/Veraticus/trackboard/internal/export"
	"github.com/Veraticus/trackboard/internal/service"
	"github.com/Veraticus/trackboard/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultReportTitle = "Weekly Accountability Dashboard"

// newSheetsWriter is replaced in tests.
var newSheetsWriter = func(ctx context.Context, cfg sheets.Config, logger *slog.Logger) (service.ReportWriter, error) {
	return sheets.NewWriter(ctx, cfg, logger)
}

func exportCmd() *cobra.Command {
	var (
		flags   filterFlags
		columns []string
		format  string
		output  string
		title   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered records",
		Long: `Export every filtered record (not only one page) restricted to the
visible columns.

Formats:
  csv     quoted, delimited text (stdout unless --output is set)
  xlsx    workbook with summary, locations, trend and data sheets
  sheets  replace the report tab of the configured Google spreadsheet`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			criteria, err := flags.criteria()
			if err != nil {
				return err
			}
			ds, d, err := loadDataset(ctx)
			if err != nil {
				return err
			}

			st, err := (&tableFlags{columns: columns}).state(ds.Header, d.PageSize)
			if err != nil {
				return err
			}
			report := ds.Report(criteria, st.VisibleColumns, title, now())

			format = strings.ToLower(format)
			if format == "xlsx" && output == "" {
				output = fmt.Sprintf("dashboard-%s.xlsx", report.GeneratedAt.Format("2006-01-02"))
			}

			writer, closeFn, err := reportWriter(ctx, format, output, d, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := writer.Write(ctx, report); err != nil {
				_ = closeFn()
				return fmt.Errorf("export failed: %w", err)
			}
			if err := closeFn(); err != nil {
				return err
			}

			if output != "" || format == "sheets" {
				target := output
				if format == "sheets" {
					target = "Google Sheets"
				}
				fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess(
					fmt.Sprintf("Exported %d records to %s", len(report.Rows), target)))
			}
			return nil
		},
	}

	addFilterFlags(cmd, &flags)
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "columns to export (index, header or letter)")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "export format (csv, xlsx, sheets)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().StringVar(&title, "title", defaultReportTitle, "report title")

	return cmd
}

// reportWriter returns the writer for format and a function releasing its output.
func reportWriter(ctx context.Context, format, output string, d *config.Dashboard, stdout, stderr io.Writer) (service.ReportWriter, func() error, error) {
	noop := func() error { return nil }

	switch format {
	case "csv", "xlsx", "sheets":
	default:
		return nil, nil, common.NewUserError(fmt.Sprintf("Unknown export format %q (valid: csv, xlsx, sheets)", format), nil)
	}

	if format == "sheets" {
		w, err := newSheetsWriter(ctx, config.LoadSheetsConfig(viper.GetViper()), slog.Default())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create sheets writer: %w", err)
		}
		return w, noop, nil
	}

	out, progress, closeFn := stdout, io.Writer(nil), noop
	if output != "" {
		f, err := os.Create(config.ExpandPath(output))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create %s: %w", output, err)
		}
		out, progress, closeFn = f, stderr, f.Close
	}

	if format == "xlsx" {
		return &export.XLSXWriter{Out: out, Progress: progress}, closeFn, nil
	}
	return &export.CSVWriter{Out: out, Progress: progress, Delimiter: d.Export.Delimiter, BOM: d.Export.BOM}, closeFn, nil
}
