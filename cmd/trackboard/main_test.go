package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/trackboard/internal/common"
	"github.com/Veraticus/trackboard/internal/export"
	"github.com/Veraticus/trackboard/internal/service"
	"github.com/Veraticus/trackboard/internal/sheets"
	"github.com/Veraticus/trackboard/internal/testutil"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeAuditCSV writes 12 records over 4 offices; every third is off-track.
func writeAuditCSV(t *testing.T) string {
	t.Helper()
	return testutil.WriteCSV(t, testutil.AuditMatrix(12))
}

// execute runs the root command with a clean viper and config directory.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	viper.Reset()
	cfgFile = ""
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	prevNow, prevLogger := now, slog.Default()
	now = testutil.Now
	t.Cleanup(func() {
		now = prevNow
		slog.SetDefault(prevLogger)
	})

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append(args, "--log-level", "error"))

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestSummaryCommand(t *testing.T) {
	src := writeAuditCSV(t)

	out, _, err := execute(t, "summary", "--source", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Total records:   12")
	assert.Contains(t, out, "Locations:       4")
	assert.Contains(t, out, "Office 00")
	assert.Contains(t, out, "Jan 2024")

	out, _, err = execute(t, "summary", "--source", src, "--status", "off-track")
	require.NoError(t, err)
	assert.Contains(t, out, "Total records:   4")
	assert.Contains(t, out, "Status: Off-Track")
}

func TestTableCommand(t *testing.T) {
	src := writeAuditCSV(t)

	tests := []struct {
		name     string
		args     []string
		contains []string
		absent   []string
	}{
		{
			name:     "second page",
			args:     []string{"--page-size", "5", "--page", "2"},
			contains: []string{"Showing 6-10 of 12 (page 2 of 3)", "Person 5", "Person 9"},
			absent:   []string{"Person 4 ", "Person 10"},
		},
		{
			name:     "projected and sorted",
			args:     []string{"--columns", "Office,H", "--sort", "Rating", "--desc", "--page-size", "all"},
			contains: []string{"Rating", "Showing 1-12 of 12 (page 1 of 1)"},
			absent:   []string{"Personnel", "Rock Review"},
		},
		{
			name:     "no matches",
			args:     []string{"--search", "nobody-matches-this"},
			contains: []string{"No records match the current filters."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, append([]string{"table", "--source", src}, tt.args...)...)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestCommands_InvalidOptions(t *testing.T) {
	src := writeAuditCSV(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "bad status", args: []string{"summary", "--source", src, "--status", "late"}},
		{name: "bad date", args: []string{"table", "--source", src, "--from", "2024/01/01"}},
		{name: "bad column", args: []string{"table", "--source", src, "--sort", "Nope"}},
		{name: "bad export format", args: []string{"export", "--source", src, "--format", "pdf"}},
		{name: "bad config format", args: []string{"config", "show", "--format", "toml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			var userErr *common.UserError
			assert.True(t, errors.As(err, &userErr), "want a user error, got %v", err)
		})
	}
}

func TestCommands_MissingSource(t *testing.T) {
	_, _, err := execute(t, "summary", "--source", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrFetch))
}

func TestLocationsCommand(t *testing.T) {
	src := writeAuditCSV(t)

	out, _, err := execute(t, "locations", "--source", src, "--limit", "2")
	require.NoError(t, err)
	assert.Equal(t, 2+2, strings.Count(out, "\n"), out)

	out, _, err = execute(t, "locations", "Office 01", "--source", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Office 01")
	assert.Contains(t, out, "Total records:   3")

	out, _, err = execute(t, "locations", "Atlantis", "--source", src)
	require.NoError(t, err)
	assert.Contains(t, out, `No records for location "Atlantis"`)
}

func TestInspectCommands(t *testing.T) {
	src := writeAuditCSV(t)

	out, _, err := execute(t, "schema", "--source", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Audit Date")
	assert.Contains(t, out, "Header row 1, 12 data rows kept")

	out, _, err = execute(t, "statuses", "--source", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Off Track")
	assert.Contains(t, out, "On Track")

	out, _, err = execute(t, "columns", "--source", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Rating")

	out, _, err = execute(t, "trend", "--source", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Jan 2024")
}

func TestExportCommand_CSV(t *testing.T) {
	src := writeAuditCSV(t)

	out, _, err := execute(t, "export", "--source", src, "--columns", "A,E", "--status", "off-track")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, `"Office","Rock Review"`, lines[0])
	assert.Equal(t, `"Office 00","Off Track"`, lines[1])
}

func TestExportCommand_XLSX(t *testing.T) {
	src := writeAuditCSV(t)
	dest := filepath.Join(t.TempDir(), "report.xlsx")

	_, stderr, err := execute(t, "export", "--source", src, "--format", "xlsx", "--output", dest)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Exported 12 records")

	f, err := excelize.OpenFile(dest)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.DataSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 13)
}

func TestExportCommand_Sheets(t *testing.T) {
	src := writeAuditCSV(t)
	mock := sheets.NewMockWriter()

	prev := newSheetsWriter
	newSheetsWriter = func(context.Context, sheets.Config, *slog.Logger) (service.ReportWriter, error) {
		return mock, nil
	}
	t.Cleanup(func() { newSheetsWriter = prev })

	_, _, err := execute(t, "export", "--source", src, "--format", "sheets", "--location", "Office 02", "--title", "Weekly")
	require.NoError(t, err)

	require.Equal(t, 1, mock.WriteCallCount)
	assert.Equal(t, "Weekly", mock.LastReport.Title)
	assert.Len(t, mock.LastReport.Rows, 3)
	assert.Equal(t, 3, mock.LastReport.Snapshot.TotalRecords)
	assert.Len(t, mock.LastReport.Header, 10)
}

func TestConfigShow(t *testing.T) {
	t.Setenv("TRACKBOARD_SHEETS_API_KEY", "secret-key")
	t.Setenv("TRACKBOARD_PAGE_SIZE", "50")

	out, _, err := execute(t, "config", "show", "--format", "json")
	require.NoError(t, err)

	var eff effectiveConfig
	require.NoError(t, json.Unmarshal([]byte(out), &eff))
	assert.Equal(t, 50, eff.Dashboard.PageSize)
	assert.Equal(t, 2*time.Minute, eff.Dashboard.RefreshInterval)
	assert.Equal(t, redacted, eff.Sheets.APIKey)
	assert.NotContains(t, out, "secret-key")

	out, _, err = execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "refresh_interval: 2m0s")
	assert.Contains(t, out, "page_size: 25")
}

func TestConfigFile(t *testing.T) {
	src := writeAuditCSV(t)
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("source:\n  path: "+src+"\npage_size: 4\n"), 0o600))

	out, _, err := execute(t, "table", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Showing 1-4 of 12 (page 1 of 3)")
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "trackboard dev\n", out)
}
