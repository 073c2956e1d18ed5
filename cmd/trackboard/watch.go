package main

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/Veraticus/trackboard/internal/common"
	"github.com/Veraticus/trackboard/internal/config"
	"github.com/Veraticus/trackboard/internal/tui"
	"github.com/Veraticus/trackboard/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func watchCmd() *cobra.Command {
	var (
		flags   filterFlags
		theme   string
		logFile string
		inline  bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Open the live dashboard in the terminal",
		Long: `Open the interactive dashboard. Data refreshes automatically every
refresh_interval (default 2m) and on demand with 'r'; a refresh requested
while another is running is ignored.

Logs would corrupt the screen, so they are discarded unless --log-file is set.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			criteria, err := flags.criteria()
			if err != nil {
				return err
			}

			if !slices.Contains(themes.Names(), theme) {
				return common.NewUserError(fmt.Sprintf("Unknown theme %q (valid: %s)", theme, strings.Join(themes.Names(), ", ")), nil)
			}

			logger := common.DiscardLogger()
			if logFile != "" {
				f, err := os.OpenFile(config.ExpandPath(logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer f.Close()

				level, err := common.ParseLevel(viper.GetString("logging.level"))
				if err != nil {
					return err
				}
				handler, err := common.NewHandler(f, level, viper.GetString("logging.format"))
				if err != nil {
					return err
				}
				logger = slog.New(handler)
			}
			slog.SetDefault(logger)

			r, d, err := newRefresher(ctx, logger)
			if err != nil {
				return err
			}

			return tui.Run(ctx,
				tui.WithRefresher(r),
				tui.WithTheme(themes.GetTheme(theme)),
				tui.WithCriteria(criteria),
				tui.WithPageSize(d.PageSize),
				tui.WithRefreshInterval(d.RefreshInterval),
				tui.WithClock(now),
				tui.WithAltScreen(!inline),
			)
		},
	}

	addFilterFlags(cmd, &flags)
	cmd.Flags().StringVar(&theme, "theme", "default", "color theme ("+strings.Join(themes.Names(), ", ")+")")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the dashboard is open")
	cmd.Flags().BoolVar(&inline, "inline", false, "render inline instead of in the alternate screen")

	return cmd
}
