package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/worldmap"
	"github.com/phanxgames/worldmap/backend/svgmap"
)

var (
	svgOutput string
	svgActive string
	svgWidth  int
	svgHeight int
)

var svgCmd = &cobra.Command{
	Use:   "svg",
	Short: "Render the map to an SVG file",
	Args:  cobra.NoArgs,
	RunE:  runSVG,
}

func init() {
	svgCmd.Flags().StringVarP(&svgOutput, "output", "o", "-", "output file, - for stdout")
	svgCmd.Flags().StringVar(&svgActive, "active", "", "ISO3 or ISO2 code of a country to select and frame")
	svgCmd.Flags().IntVar(&svgWidth, "width", 0, "image width (default window.width)")
	svgCmd.Flags().IntVar(&svgHeight, "height", 0, "image height (default window.height)")
	rootCmd.AddCommand(svgCmd)
}

func runSVG(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd)
	if err != nil {
		return err
	}
	w, h := svgWidth, svgHeight
	if w <= 0 {
		w = s.cfg.Window.Width
	}
	if h <= 0 {
		h = s.cfg.Window.Height
	}

	vp := s.cfg.ViewportConfig()
	vp.ReframeDuration = 0
	m := s.newMap(&worldmap.FixedSurface{Width: float64(w), Height: float64(h)}, vp)
	if svgActive != "" && !m.SelectCountry(svgActive) {
		return fmt.Errorf("unknown country %q", svgActive)
	}

	canvas, st := svgmap.Render(m)
	if svgOutput == "" || svgOutput == "-" {
		_, err = canvas.WriteTo(cmd.OutOrStdout())
		return err
	}
	if err := os.WriteFile(svgOutput, canvas.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", svgOutput, err)
	}
	s.logger.Info("svg written", "path", svgOutput, "painted", st.Painted, "culled", st.Culled)
	return nil
}
