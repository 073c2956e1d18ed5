package main

import (
	"github.com/Veraticus/trackboard/internal/aggregate"
	"github.com/Veraticus/trackboard/internal/cli"
	"github.com/Veraticus/trackboard/internal/filter"
	"github.com/spf13/cobra"
)

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Show the detected column layout",
		Long: `Show which columns were bound to the location, person, date, status
and rating roles, and which row was taken as the header.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, _, err := loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			return cli.RenderSchema(cmd.OutOrStdout(), ds)
		},
	}
}

func statusesCmd() *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "statuses",
		Short: "Show the raw status values and their share",
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria, err := flags.criteria()
			if err != nil {
				return err
			}
			ds, _, err := loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			rows := filter.Apply(ds.Rows, criteria)
			return cli.RenderStatuses(cmd.OutOrStdout(), aggregate.StatusDistribution(rows, ds.Schema.Status))
		},
	}

	addFilterFlags(cmd, &flags)
	return cmd
}

func columnsCmd() *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "columns",
		Short: "Show count, sum, average and range of every numeric column",
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria, err := flags.criteria()
			if err != nil {
				return err
			}
			ds, _, err := loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			rows := filter.Apply(ds.Rows, criteria)
			return cli.RenderColumnMetrics(cmd.OutOrStdout(), aggregate.ColumnMetrics(ds.Header, rows))
		},
	}

	addFilterFlags(cmd, &flags)
	return cmd
}
