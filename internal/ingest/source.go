package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/Veraticus/trackboard/internal/common"
	"github.com/Veraticus/trackboard/internal/service"
	"github.com/Veraticus/trackboard/internal/sheets"
)

// Source types.
const (
	TypeSheets = "sheets"
	TypeXLSX   = "xlsx"
	TypeCSV    = "csv"
)

// Config selects and configures the matrix source.
type Config struct {
	Type      string `mapstructure:"type" yaml:"type" json:"type"`
	Path      string `mapstructure:"path" yaml:"path,omitempty" json:"path,omitempty"`
	Sheet     string `mapstructure:"sheet" yaml:"sheet,omitempty" json:"sheet,omitempty"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter,omitempty" json:"delimiter,omitempty"`
}

// ResolveType returns the configured type, inferring it from the file
// extension when unset. No path and no type means Google Sheets.
func (c Config) ResolveType() string {
	if c.Type != "" {
		return strings.ToLower(c.Type)
	}
	switch strings.ToLower(filepath.Ext(c.Path)) {
	case ".xlsx", ".xlsm":
		return TypeXLSX
	case ".csv", ".tsv", ".txt":
		return TypeCSV
	case "":
		return TypeSheets
	default:
		return ""
	}
}

// NewSource builds the matrix source described by cfg.
func NewSource(ctx context.Context, cfg Config, sheetsCfg sheets.Config, logger *slog.Logger) (service.MatrixSource, error) {
	switch t := cfg.ResolveType(); t {
	case TypeSheets:
		reader, err := sheets.NewReader(ctx, sheetsCfg, logger)
		if err != nil {
			return nil, err
		}
		return reader, nil
	case TypeXLSX:
		if cfg.Path == "" {
			return nil, fmt.Errorf("%w: xlsx source needs a path", common.ErrMissingConfig)
		}
		return &XLSXSource{Path: cfg.Path, Sheet: cfg.Sheet}, nil
	case TypeCSV:
		if cfg.Path == "" {
			return nil, fmt.Errorf("%w: csv source needs a path", common.ErrMissingConfig)
		}
		delim, err := parseDelimiter(cfg.Delimiter, cfg.Path)
		if err != nil {
			return nil, err
		}
		return &CSVSource{Path: cfg.Path, Delimiter: delim}, nil
	default:
		return nil, fmt.Errorf("%w: unknown source type %q (valid: sheets, xlsx, csv)", common.ErrInvalidConfig, t)
	}
}

func parseDelimiter(d, path string) (rune, error) {
	switch {
	case d == "" && strings.EqualFold(filepath.Ext(path), ".tsv"):
		return '\t', nil
	case d == "":
		return ',', nil
	case d == `\t` || d == "tab":
		return '\t', nil
	case len([]rune(d)) == 1:
		return []rune(d)[0], nil
	default:
		return 0, fmt.Errorf("%w: delimiter must be a single character, got %q", common.ErrInvalidConfig, d)
	}
}
