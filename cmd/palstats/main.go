package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lisacrebassa/pals-analysis/config"
	"github.com/lisacrebassa/pals-analysis/dataset"
	"github.com/lisacrebassa/pals-analysis/logging"
	"github.com/lisacrebassa/pals-analysis/render"
	"github.com/lisacrebassa/pals-analysis/views"
)

// ============================================================================
// PALSTATS CLI: Palworld strategy dashboard
// ============================================================================

const version = "0.3.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

// app carries the persistent flags and what they resolve to.
type app struct {
	configPath string
	source     string
	dataDir    string
	logLevel   string
	topN       int
	zoneTopK   int
	bins       int

	cfg    config.Config
	logger *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "palstats",
		Short: "Palworld strategy dashboard",
		Long: `Analyse stratégique de Palworld.

Loads the six cleaned Palworld tables (combat, jobs, hidden attributes,
refresh areas, tower bosses, ordinary bosses) and renders three views:

  combat   Stratégie de Combat
  camp     Gestion du Campement
  zones    Zones & Boss

Configuration is read from palstats.yaml, then .env, then PALSTATS_*
variables; flags win over all of them.

Examples:
  palstats serve --addr :8080
  palstats render zones --format text
  palstats render all --format csv -o dashboard.csv
  palstats export all -o palstats.xlsx
  palstats discover --data-dir ./data`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "palstats.yaml", "Path to the YAML config file")
	pf.StringVar(&a.source, "source", "", "Data source: file or s3")
	pf.StringVarP(&a.dataDir, "data-dir", "d", "", "Directory holding the CSV files")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.IntVar(&a.topN, "top-n", 0, "Rows in the top-N tables")
	pf.IntVar(&a.zoneTopK, "zone-top-k", 0, "Named zones in the spawn area count plot")
	pf.IntVar(&a.bins, "bins", 0, "Bins in the spawn level histogram")

	root.AddCommand(
		newServeCmd(a),
		newRenderCmd(a),
		newExportCmd(a),
		newDiscoverCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup resolves the configuration and the logger. Flags override the file
// and the environment only when they were given.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Data.Source = a.source
	}
	if flags.Changed("data-dir") {
		cfg.Data.Dir = a.dataDir
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("top-n") {
		cfg.Dashboard.TopN = a.topN
	}
	if flags.Changed("zone-top-k") {
		cfg.Dashboard.ZoneTopK = a.zoneTopK
	}
	if flags.Changed("bins") {
		cfg.Dashboard.HistogramBins = a.bins
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return errors.Wrap(err, "build logger")
	}
	a.cfg, a.logger = cfg, logger
	return nil
}

func (a *app) loadStore(ctx context.Context) (*dataset.Store, error) {
	return dataset.Open(ctx, a.cfg.Data, a.logger)
}

func (a *app) newRouter(store *dataset.Store) *views.Router {
	return views.NewRouter(store,
		views.WithOptions(views.Options{
			TopN:          a.cfg.Dashboard.TopN,
			ZoneTopK:      a.cfg.Dashboard.ZoneTopK,
			HistogramBins: a.cfg.Dashboard.HistogramBins,
		}),
		views.WithLogger(a.logger),
	)
}

func (a *app) chartSize() render.Size {
	return render.Size{Width: a.cfg.Dashboard.ChartWidth, Height: a.cfg.Dashboard.ChartHeight}
}

// renderPages renders one view, or every view for "all".
func (a *app) renderPages(ctx context.Context, name string) ([]*views.Page, error) {
	store, err := a.loadStore(ctx)
	if err != nil {
		return nil, err
	}
	router := a.newRouter(store)

	if name == "" || name == "all" {
		return router.RenderAll(ctx)
	}
	kind, err := views.ParseKind(name)
	if err != nil {
		return nil, err
	}
	page, err := router.Render(ctx, kind)
	if err != nil {
		return nil, err
	}
	return []*views.Page{page}, nil
}

// output opens path for writing, or returns the command's stdout.
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "create output file")
	}
	return f, f.Close, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// No config needed to print the version.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "palstats %s\n", version)
		},
	}
}
