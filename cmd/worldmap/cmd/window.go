package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phanxgames/worldmap"
	"github.com/phanxgames/worldmap/backend/ebitenmap"
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Open the map in a window",
	Long: `Opens the map in a resizable window.

Controls:
  Click          - Select a country and zoom to it
  Drag           - Pan
  Wheel / Pinch  - Zoom around the cursor
  + / -          - Zoom around the screen center
  Arrow keys     - Pan
  R / Home       - Reset the view
  Escape         - Clear the selection`,
	Args: cobra.NoArgs,
	RunE: runWindow,
}

var tourExit bool

var tourCmd = &cobra.Command{
	Use:   "tour <script.json>",
	Short: "Replay a scripted tour in a window",
	Long: `Opens the map window and replays a JSON tour, one step per frame.

Steps: select, reset, click, drag, wheel, wait, screenshot. Screenshots are
written to window.screenshot_dir.`,
	Args: cobra.ExactArgs(1),
	RunE: runTour,
}

func init() {
	tourCmd.Flags().BoolVar(&tourExit, "exit", false, "close the window when the tour ends")
	rootCmd.AddCommand(windowCmd)
	rootCmd.AddCommand(tourCmd)
}

func runWindow(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd)
	if err != nil {
		return err
	}
	return s.openWindow(nil, false)
}

func runTour(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read tour: %w", err)
	}
	tour, err := worldmap.LoadTour(data)
	if err != nil {
		return err
	}
	s, err := loadSession(cmd)
	if err != nil {
		return err
	}
	return s.openWindow(tour, tourExit)
}

func (s *session) openWindow(tour *worldmap.Tour, exitAfterTour bool) error {
	wc := s.cfg.Window
	surface := ebitenmap.NewSurface(wc.Width, wc.Height)
	m := s.newMap(surface, s.cfg.ViewportConfig())

	g := ebitenmap.New(m, surface, ebitenmap.Config{
		Title:         wc.Title,
		Width:         wc.Width,
		Height:        wc.Height,
		ScreenshotDir: wc.ScreenshotDir,
		ExitAfterTour: exitAfterTour,
		ShowFPS:       strings.EqualFold(s.cfg.Log.Level, "debug"),
	}, s.logger)
	g.SetTour(tour)
	return ebitenmap.Run(g)
}
