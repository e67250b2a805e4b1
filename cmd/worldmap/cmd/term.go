package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/phanxgames/worldmap/backend/termmap"
	"github.com/phanxgames/worldmap/internal/logging"
)

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Explore the map in the terminal",
	Long: `Draws the map with half-block characters and drives it with the mouse
and keyboard. Needs a terminal with mouse reporting and true color.

Controls:
  Click / Drag / Wheel  - Select, pan, zoom
  + / -                 - Zoom
  Arrow keys            - Pan
  R / Home              - Reset the view
  Escape                - Clear the selection
  Q / Ctrl-C            - Quit`,
	Args: cobra.NoArgs,
	RunE: runTerm,
}

func init() {
	rootCmd.AddCommand(termCmd)
}

func runTerm(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd)
	if err != nil {
		return err
	}

	screen, err := termmap.NewScreen()
	if err != nil {
		return err
	}
	// Log lines would tear the screen while it is active.
	prev := slog.Default()
	s.logger = logging.Discard()
	slog.SetDefault(s.logger)
	defer slog.SetDefault(prev)

	cols, rows := screen.Size()
	canvas := termmap.NewCanvas(cols, rows-1)
	vp := termmap.ViewportConfig()
	vp.ReframeDuration = float32(s.cfg.Viewport.ReframeSeconds)
	m := s.newMap(canvas, vp)

	return termmap.NewApp(screen, m, canvas, s.logger).Run(cmd.Context())
}
