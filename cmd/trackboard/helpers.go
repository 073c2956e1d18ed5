package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/trackboard/internal/common"
	"github.com/Veraticus/trackboard/internal/config"
	"github.com/Veraticus/trackboard/internal/engine"
	"github.com/Veraticus/trackboard/internal/filter"
	"github.com/Veraticus/trackboard/internal/ingest"
	"github.com/Veraticus/trackboard/internal/model"
	"github.com/Veraticus/trackboard/internal/tableview"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// now is replaced in tests.
var now = time.Now

// newRefresher builds the configured source and pipeline without fetching.
func newRefresher(ctx context.Context, logger *slog.Logger, opts ...engine.RefresherOption) (*engine.Refresher, *config.Dashboard, error) {
	d, err := config.LoadDashboard(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}

	src, err := ingest.NewSource(ctx, d.Source, config.LoadSheetsConfig(viper.GetViper()), logger)
	if err != nil {
		if errors.Is(err, common.ErrMissingConfig) {
			return nil, nil, common.NewUserError(
				"No audit source configured. Pass --source <file> or set sheets.spreadsheet_id in the config file", err)
		}
		return nil, nil, fmt.Errorf("failed to create source: %w", err)
	}

	opts = append([]engine.RefresherOption{engine.WithLogger(logger), engine.WithClock(now)}, opts...)
	return engine.NewRefresher(src, engine.NewPipeline(d.Schema, d.Exclusions), opts...), d, nil
}

// loadDataset fetches the source once and runs the pipeline.
func loadDataset(ctx context.Context) (*engine.Dataset, *config.Dashboard, error) {
	r, d, err := newRefresher(ctx, slog.Default())
	if err != nil {
		return nil, nil, err
	}
	ds, err := r.Refresh(ctx)
	if err != nil {
		if errors.Is(err, common.ErrSchema) {
			return nil, nil, common.NewUserError("The audit sheet has no data rows", err)
		}
		return nil, nil, err
	}
	return ds, d, nil
}

// filterFlags are the filter options shared by every reporting command.
type filterFlags struct {
	from      string
	to        string
	status    string
	preset    string
	search    string
	locations []string
	persons   []string
}

func addFilterFlags(cmd *cobra.Command, f *filterFlags) {
	cmd.Flags().StringVar(&f.from, "from", "", "earliest audit date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "latest audit date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.status, "status", "", "status category (on-track, off-track, other)")
	cmd.Flags().StringVar(&f.preset, "preset", "", "date preset (today, week, month, year, offtrack); replaces other filters")
	cmd.Flags().StringVarP(&f.search, "search", "q", "", "keyword search over free-text columns")
	cmd.Flags().StringSliceVar(&f.locations, "location", nil, "location to include (repeatable)")
	cmd.Flags().StringSliceVar(&f.persons, "person", nil, "person to include (repeatable)")
}

// criteria converts the flags into filter criteria. Unlike the HTTP API,
// the CLI rejects invalid values.
func (f *filterFlags) criteria() (model.FilterCriteria, error) {
	c, err := filter.Params{
		From:      f.from,
		To:        f.to,
		Status:    f.status,
		Preset:    f.preset,
		Search:    f.search,
		Locations: f.locations,
		Persons:   f.persons,
	}.Criteria(now())
	if err != nil {
		return model.FilterCriteria{}, common.NewUserError("Invalid filter", err)
	}
	return c, nil
}

// tableFlags override the table view state.
type tableFlags struct {
	sort     string
	pageSize string
	columns  []string
	page     int
	desc     bool
}

func addTableFlags(cmd *cobra.Command, f *tableFlags) {
	cmd.Flags().StringVar(&f.sort, "sort", "", "sort column (index, header or letter)")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "sort descending")
	cmd.Flags().IntVar(&f.page, "page", 1, "page to show")
	cmd.Flags().StringVar(&f.pageSize, "page-size", "", "rows per page (10, 25, 50, 100 or all)")
	cmd.Flags().StringSliceVar(&f.columns, "columns", nil, "visible columns (index, header or letter)")
}

func (f *tableFlags) state(header []string, pageSize int) (model.TableViewState, error) {
	st := model.NewTableViewState(len(header))
	st.SetPageSize(pageSize)
	err := tableview.Params{
		Sort:       f.sort,
		Descending: f.desc,
		Page:       f.page,
		PageSize:   f.pageSize,
		Columns:    f.columns,
	}.Apply(header, &st)
	if err != nil {
		return st, common.NewUserError("Invalid table option", err)
	}
	return st, nil
}
