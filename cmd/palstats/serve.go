package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lisacrebassa/pals-analysis/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		Long: `Load every dataset once, then serve the three views:

  /views/:view                 HTML page
  /api/views/:view             page as JSON
  /charts/:view/:section.png   chart image
  /export/:view.xlsx           workbook (view or "all")
  /metrics                     Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			defer func() { _ = a.logger.Sync() }()
			if !a.cfg.Logging.Development {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := a.loadStore(ctx)
			if err != nil {
				return err
			}
			a.logger.Info("Datasets ready", zap.Int("datasets", len(store.Names())))

			srv := server.New(a.newRouter(store),
				server.WithLogger(a.logger),
				server.WithChartSize(a.chartSize()),
			)
			return srv.Run(ctx, a.cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
	return cmd
}
