package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/phanxgames/worldmap/internal/server"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dataset, projected atlas and SVG renders over HTTP",
	Long: `Starts the map server.

Routes:
  GET /healthz                     - Liveness
  GET /assets/world.geo.json       - The dataset as GeoJSON
  GET /api/countries               - Projected countries with colors and bounds
  GET /api/countries/:code?w=&h=   - One country and the view that frames it
  GET /map.svg?w=&h=&active=       - SVG render, optionally framing a country
  GET /metrics                     - Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (overrides server.host)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd)
	if err != nil {
		return err
	}
	sc := s.cfg.Server
	if serveHost != "" {
		sc.Host = serveHost
	}
	if servePort != 0 {
		sc.Port = servePort
	}

	srv := server.New(s.atlas, s.raw, server.Options{
		Viewport:    s.cfg.ViewportConfig(),
		CORSOrigins: sc.CORSOrigins,
		Logger:      s.logger,
	})

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Listen(sc.Addr())
	}()

	select {
	case err := <-errc:
		return err
	case <-cmd.Context().Done():
	}

	s.logger.Info("shutdown signal received, draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
