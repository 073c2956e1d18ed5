// Package ingest reads the audit matrix from local files.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/trackboard/internal/common"
	"github.com/Veraticus/trackboard/internal/model"
	"github.com/xuri/excelize/v2"
)

// XLSXSource reads one worksheet of an Excel workbook.
type XLSXSource struct {
	Path  string
	Sheet string // empty selects the first sheet
}

// Describe names the file and sheet.
func (s *XLSXSource) Describe() string {
	if s.Sheet == "" {
		return "xlsx:" + s.Path
	}
	return fmt.Sprintf("xlsx:%s!%s", s.Path, s.Sheet)
}

// Fetch opens the workbook and returns the sheet's rows as displayed text.
func (s *XLSXSource) Fetch(ctx context.Context) (model.Matrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, common.NewFetchError(s.Describe(), common.FetchIO, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close workbook", "path", s.Path, "error", closeErr)
		}
	}()

	sheet := s.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
		if sheet == "" {
			sheet = f.GetSheetName(0)
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, common.NewFetchError(s.Describe(), common.FetchIO, fmt.Errorf("read sheet %q: %w", sheet, err))
	}
	if len(rows) == 0 {
		return nil, common.NewFetchError(s.Describe(), common.FetchEmpty, common.ErrEmptyResult)
	}

	return model.Matrix(rows), nil
}
