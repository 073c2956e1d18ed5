package main

import (
	"fmt"

	"github.com/Veraticus/trackboard/internal/aggregate"
	"github.com/Veraticus/trackboard/internal/cli"
	"github.com/Veraticus/trackboard/internal/filter"
	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	var (
		flags filterFlags
		limit int
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the dashboard summary",
		Long: `Fetch the audit data once and print the headline figures, the
per-location breakdown and the monthly trend for the filtered records.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			criteria, err := flags.criteria()
			if err != nil {
				return err
			}
			ds, _, err := loadDataset(ctx)
			if err != nil {
				return err
			}

			rows := filter.Apply(ds.Rows, criteria)
			snap := aggregate.Compute(rows)
			out := cmd.OutOrStdout()

			if err := cli.RenderSummary(out, snap, filter.Describe(criteria)); err != nil {
				return err
			}
			fmt.Fprintln(out, cli.FormatTitle("Locations"))
			if err := cli.RenderLocations(out, aggregate.Breakdown(rows, limit)); err != nil {
				return err
			}
			fmt.Fprintln(out, cli.FormatTitle("Monthly trend"))
			return cli.RenderTrend(out, snap.MonthlyTrend)
		},
	}

	addFilterFlags(cmd, &flags)
	cmd.Flags().IntVar(&limit, "limit", 10, "locations to show, 0 for all")

	return cmd
}

func trendCmd() *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show the monthly on-track trend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria, err := flags.criteria()
			if err != nil {
				return err
			}
			ds, _, err := loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			return cli.RenderTrend(cmd.OutOrStdout(), ds.Snapshot(criteria).MonthlyTrend)
		},
	}

	addFilterFlags(cmd, &flags)
	return cmd
}

func locationsCmd() *cobra.Command {
	var (
		flags filterFlags
		limit int
	)

	cmd := &cobra.Command{
		Use:   "locations [name]",
		Short: "Show the per-location breakdown or drill into one location",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := flags.criteria()
			if err != nil {
				return err
			}
			ds, _, err := loadDataset(cmd.Context())
			if err != nil {
				return err
			}

			rows := filter.Apply(ds.Rows, criteria)
			if len(args) == 1 {
				return cli.RenderLocationDetail(cmd.OutOrStdout(), aggregate.LocationDetail(rows, args[0]))
			}
			return cli.RenderLocations(cmd.OutOrStdout(), aggregate.Breakdown(rows, limit))
		},
	}

	addFilterFlags(cmd, &flags)
	cmd.Flags().IntVar(&limit, "limit", 0, "locations to show, 0 for all")

	return cmd
}

func tableCmd() *cobra.Command {
	var (
		flags filterFlags
		table tableFlags
	)

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Show one page of the filtered records",
		Long: `Print the filtered audit records as a table. Columns may be referenced
by zero-based index, header text or spreadsheet letter.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria, err := flags.criteria()
			if err != nil {
				return err
			}
			ds, d, err := loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			st, err := table.state(ds.Header, d.PageSize)
			if err != nil {
				return err
			}
			return cli.RenderPage(cmd.OutOrStdout(), ds.View(criteria, st).Page)
		},
	}

	addFilterFlags(cmd, &flags)
	addTableFlags(cmd, &table)

	return cmd
}
