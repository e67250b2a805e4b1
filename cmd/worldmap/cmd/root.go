package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/phanxgames/worldmap"
	"github.com/phanxgames/worldmap/dataset"
	"github.com/phanxgames/worldmap/internal/config"
	"github.com/phanxgames/worldmap/internal/logging"
	"github.com/phanxgames/worldmap/internal/metrics"
)

var (
	// Global flags
	configPath  string
	datasetFlag string
	logLevel    string
	logFormat   string
)

var rootCmd = &cobra.Command{
	Use:   "worldmap",
	Short: "Interactive world map explorer",
	Long: `worldmap projects a world countries dataset and lets you explore it:
pan, zoom, hover and select countries in a window, a terminal or a browser.

Examples:
  worldmap window                          # Open the map in a window
  worldmap term                            # Explore in the terminal
  worldmap serve --port 8000               # Serve the dataset, atlas and SVG renders
  worldmap svg -o world.svg --active FRA   # Render France framed to a file
  worldmap info --list                     # Show atlas statistics
  worldmap tour tours/europe.json          # Replay a scripted tour`,
	SilenceUsage: true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./worldmap.yaml or ./configs/worldmap.yaml)")
	rootCmd.PersistentFlags().StringVar(&datasetFlag, "dataset", "", "GeoJSON file, .shp file or http(s) URL (overrides dataset.source)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides log.level)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "text or json (overrides log.format)")
}

// session is a loaded configuration and projected atlas shared by every
// subcommand.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	atlas  *worldmap.Atlas
	raw    []byte
}

func loadSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if datasetFlag != "" {
		cfg.Dataset.Source = datasetFlag
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Dataset.Timeout)
	defer cancel()

	raw, err := dataset.Read(ctx, cfg.Dataset.Source, cfg.DatasetFormat())
	var features []worldmap.Feature
	if err == nil {
		features, err = dataset.DecodeGeoJSON(raw)
	}
	metrics.ObserveDatasetLoad(err)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", cfg.Dataset.Source, err)
	}

	palette, err := cfg.Palette()
	if err != nil {
		return nil, fmt.Errorf("colors: %w", err)
	}
	atlas, err := worldmap.NewProjector(palette, cfg.ProjectorConfig()).Project(features)
	if err != nil {
		return nil, fmt.Errorf("project dataset: %w", err)
	}

	st := atlas.Stats()
	logger.Info("dataset loaded",
		"source", cfg.Dataset.Source,
		"countries", st.Countries,
		"segments", st.Segments,
		"points", st.Points,
	)
	return &session{cfg: cfg, logger: logger, atlas: atlas, raw: raw}, nil
}

// newMap builds a loaded map on surface. Debug logging turns on per-paint
// stats.
func (s *session) newMap(surface worldmap.Surface, vp worldmap.ViewportConfig) *worldmap.Map {
	m := worldmap.New(surface,
		worldmap.WithLogger(s.logger),
		worldmap.WithViewportConfig(vp),
		worldmap.WithRouterConfig(s.cfg.RouterConfig()),
	)
	m.SetDebug(strings.EqualFold(s.cfg.Log.Level, "debug"))
	m.Load(s.atlas)
	return m
}
