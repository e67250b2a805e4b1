// Package ebitenmap presents a worldmap.Map in an ebiten window.
package ebitenmap

import (
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/worldmap"
)

// Config sets up the window.
type Config struct {
	Title         string
	Width, Height int
	ScreenshotDir string

	// ExitAfterTour ends the game once an attached tour has finished.
	ExitAfterTour bool
	ShowFPS       bool
}

// DefaultConfig returns a 1280x720 window titled "World Explorer".
func DefaultConfig() Config {
	return Config{
		Title:         "World Explorer",
		Width:         1280,
		Height:        720,
		ScreenshotDir: "screenshots",
	}
}

// Surface tracks the window's layout size.
type Surface struct {
	w, h int
}

// NewSurface returns a surface with the initial window size.
func NewSurface(width, height int) *Surface {
	return &Surface{w: width, h: height}
}

// Size reports the layout size in pixels.
func (s *Surface) Size() (float64, float64) { return float64(s.w), float64(s.h) }

// Game implements ebiten.Game around a map.
type Game struct {
	m       *worldmap.Map
	surface *Surface
	cfg     Config
	logger  *slog.Logger
	painter *painter
	input   inputState
	tour    *worldmap.Tour
	label   string
	fps     *fpsOverlay

	screenshotQueue []string
}

// New wraps m, which must have been created with surface. The on-screen
// label follows the selection.
func New(m *worldmap.Map, surface *Surface, cfg Config, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}
	g := &Game{
		m:       m,
		surface: surface,
		cfg:     cfg,
		logger:  logger,
		painter: newPainter(),
		label:   worldmap.CountryLabel(nil),
	}
	if cfg.ShowFPS {
		g.fps = &fpsOverlay{}
	}
	m.AddObserver(worldmap.SelectionObserverFunc(func(ev worldmap.SelectionEvent) {
		g.label = worldmap.CountryLabel(ev.Country)
	}))
	return g
}

// SetTour attaches a tour. Its screenshot steps capture the window.
func (g *Game) SetTour(t *worldmap.Tour) {
	g.tour = t
	if t != nil {
		t.OnScreenshot = g.Screenshot
	}
}

// Label is the text shown in the corner.
func (g *Game) Label() string { return g.label }

// Update runs one tick. Injected input takes priority over real input.
func (g *Game) Update() error {
	if g.tour != nil {
		g.tour.Step(g.m)
	}
	if !g.m.Router().ProcessInjected() {
		g.pollInput()
	}
	g.pollKeys()
	dt := 1 / float64(ebiten.TPS())
	g.m.Update(float32(dt))
	if g.fps != nil {
		g.fps.update(dt, ebiten.ActualFPS(), ebiten.ActualTPS())
	}

	if g.cfg.ExitAfterTour && g.tour != nil && g.tour.Done() && len(g.screenshotQueue) == 0 {
		return ebiten.Termination
	}
	return nil
}

// Draw paints the ocean, the countries and the label.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(worldmap.ColorOcean.NRGBA())
	g.painter.dst = screen
	g.m.Paint(g.painter)
	g.painter.dst = nil
	ebitenutil.DebugPrint(screen, g.label)
	g.flushScreenshots(screen)
	if g.fps != nil {
		g.fps.draw(screen)
	}
}

// Layout follows the window size and refits the map when it changes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.surface.w || outsideHeight != g.surface.h {
		g.surface.w, g.surface.h = outsideWidth, outsideHeight
		g.m.Resize()
	}
	return outsideWidth, outsideHeight
}

// Run opens the window and blocks until it closes.
func Run(g *Game) error {
	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}
