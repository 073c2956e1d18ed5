package export

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/trackboard/internal/service"
	"github.com/Veraticus/trackboard/internal/tableview"
)

// CSVWriter writes the report's table as delimited text: header first,
// then every row, each cell double-quoted.
type CSVWriter struct {
	Out       io.Writer
	Progress  io.Writer
	Delimiter string
	BOM       bool
}

// Write implements service.ReportWriter.
func (w *CSVWriter) Write(ctx context.Context, report *service.Report) error {
	delim := w.Delimiter
	if delim == "" {
		delim = ","
	}

	buf := bufio.NewWriter(w.Out)
	if w.BOM {
		if _, err := buf.WriteString("\ufeff"); err != nil {
			return fmt.Errorf("failed to write byte order mark: %w", err)
		}
	}

	if err := writeLine(buf, report.Header, delim); err != nil {
		return err
	}

	bar := newProgress(w.Progress, len(report.Rows), "Exporting rows...")
	for i, row := range report.Rows {
		if i%500 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := writeLine(buf, row, delim); err != nil {
			return err
		}
		step(bar)
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush csv output: %w", err)
	}
	return nil
}

func writeLine(w *bufio.Writer, cells []string, delim string) error {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		quoted[i] = tableview.Quote(c)
	}
	if _, err := w.WriteString(strings.Join(quoted, delim) + "\n"); err != nil {
		return fmt.Errorf("failed to write csv line: %w", err)
	}
	return nil
}
