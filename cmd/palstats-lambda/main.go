//go:build lambda

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/gin-gonic/gin"

	"github.com/lisacrebassa/pals-analysis/config"
	"github.com/lisacrebassa/pals-analysis/dataset"
	"github.com/lisacrebassa/pals-analysis/logging"
	"github.com/lisacrebassa/pals-analysis/render"
	"github.com/lisacrebassa/pals-analysis/server"
	"github.com/lisacrebassa/pals-analysis/views"
)

// The store is loaded on the first invocation and reused by warm ones.
func main() {
	cfg, err := config.Load(os.Getenv("PALSTATS_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
	gin.SetMode(gin.ReleaseMode)

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		logger = logging.NewDefaultLogger()
	}

	cache := dataset.NewCache(func(ctx context.Context) (*dataset.Store, error) {
		return dataset.Open(ctx, cfg.Data, logger)
	})

	opts := views.Options{
		TopN:          cfg.Dashboard.TopN,
		ZoneTopK:      cfg.Dashboard.ZoneTopK,
		HistogramBins: cfg.Dashboard.HistogramBins,
	}
	srv := server.NewLazy(func(ctx context.Context) (*views.Router, error) {
		store, err := cache.Get(ctx)
		if err != nil {
			return nil, err
		}
		return views.NewRouter(store, views.WithOptions(opts), views.WithLogger(logger)), nil
	},
		server.WithLogger(logger),
		server.WithChartSize(render.Size{Width: cfg.Dashboard.ChartWidth, Height: cfg.Dashboard.ChartHeight}),
	)

	lambda.Start(srv.ServeLambda)
}
