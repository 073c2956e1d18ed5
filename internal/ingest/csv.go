package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/Veraticus/trackboard/internal/common"
	"github.com/Veraticus/trackboard/internal/model"
)

// CSVSource reads a delimited text export of the sheet.
type CSVSource struct {
	Path      string
	Delimiter rune // zero means comma
}

// Describe names the file.
func (s *CSVSource) Describe() string {
	return "csv:" + s.Path
}

// Fetch reads the whole file. Rows may have differing lengths.
func (s *CSVSource) Fetch(ctx context.Context) (model.Matrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path) // #nosec G304
	if err != nil {
		return nil, common.NewFetchError(s.Describe(), common.FetchIO, err)
	}
	defer func() { _ = f.Close() }()

	m, err := readCSV(f, s.Delimiter)
	if err != nil {
		return nil, common.NewFetchError(s.Describe(), common.FetchIO, err)
	}
	if len(m) == 0 {
		return nil, common.NewFetchError(s.Describe(), common.FetchEmpty, common.ErrEmptyResult)
	}
	return m, nil
}

func readCSV(r io.Reader, delimiter rune) (model.Matrix, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	if delimiter != 0 {
		reader.Comma = delimiter
	}

	var m model.Matrix
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(m) == 0 && len(record) > 0 {
			record[0] = strings.TrimPrefix(record[0], "\ufeff")
		}
		m = append(m, record)
	}
	return m, nil
}
