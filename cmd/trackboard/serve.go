package main

import (
	"log/slog"
	"path/filepath"

	"github.com/Veraticus/trackboard/internal/certs"
	"github.com/Veraticus/trackboard/internal/config"
	"github.com/Veraticus/trackboard/internal/engine"
	"github.com/Veraticus/trackboard/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard as an HTTP JSON API",
		Long: `Serve the dashboard over HTTP. The data refreshes every refresh_interval
and on POST /api/refresh; clients on /api/ws receive the summary after
every refresh. Prometheus metrics are exposed on /metrics.

With --tls the server uses a self-signed certificate kept in the config
directory and regenerated when it expires.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := slog.Default()

			metrics := server.NewMetrics()
			r, d, err := newRefresher(ctx, logger, engine.WithObserver(metrics))
			if err != nil {
				return err
			}

			cfg := server.DefaultConfig()
			cfg.Addr = d.Server.Addr
			cfg.AllowedOrigins = d.Server.AllowedOrigins
			cfg.RefreshInterval = d.RefreshInterval
			cfg.PageSize = d.PageSize
			cfg.ExportDelimiter = d.Export.Delimiter
			cfg.ExportBOM = d.Export.BOM
			cfg.ReportTitle = title

			if d.Server.TLS {
				m := certs.NewFileManager(filepath.Join(config.Dir(), "certs"), d.Server.TLSHosts...)
				if cfg.TLS, err = m.TLSConfig(); err != nil {
					return err
				}
			}

			srv := server.New(r, cfg,
				server.WithMetrics(metrics),
				server.WithLogger(logger),
				server.WithClock(now))
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default 127.0.0.1:8080)")
	cmd.Flags().StringVar(&title, "title", defaultReportTitle, "title of exported reports")
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed certificate")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.tls", cmd.Flags().Lookup("tls"))

	return cmd
}
