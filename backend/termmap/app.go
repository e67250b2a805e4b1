// Package termmap presents a worldmap.Map in a terminal with tcell.
package termmap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/worldmap"
)

const frameInterval = time.Second / 30

// wheelStep is the pixel delta reported for one wheel notch.
const wheelStep = 100.0

// ViewportConfig shrinks the pixel margins to fit a terminal grid.
func ViewportConfig() worldmap.ViewportConfig {
	cfg := worldmap.DefaultViewportConfig()
	cfg.Margin = 2
	cfg.PanSlack = 2
	cfg.FitPadding = 4
	return cfg
}

// App drives a map from terminal events.
type App struct {
	screen tcell.Screen
	m      *worldmap.Map
	canvas *Canvas
	logger *slog.Logger
	label  string

	buttons tcell.ButtonMask
	mouseX  float64
	mouseY  float64
}

// NewApp wraps m, which must have been created with canvas as its surface.
// The screen must already be initialized.
func NewApp(screen tcell.Screen, m *worldmap.Map, canvas *Canvas, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		screen: screen,
		m:      m,
		canvas: canvas,
		logger: logger,
		label:  worldmap.CountryLabel(nil),
	}
	m.AddObserver(worldmap.SelectionObserverFunc(func(ev worldmap.SelectionEvent) {
		a.label = worldmap.CountryLabel(ev.Country)
	}))
	return a
}

// NewScreen creates and initializes a tcell screen with mouse reporting.
func NewScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault)
	screen.EnableMouse()
	screen.Clear()
	return screen, nil
}

// Label is the status line text.
func (a *App) Label() string { return a.label }

// Run processes events and redraws at 30 frames per second until ctx is
// done or the user quits. It finalizes the screen on return.
func (a *App) Run(ctx context.Context) error {
	defer a.screen.Fini()

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go a.screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	a.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok || !a.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			a.m.Update(float32(frameInterval.Seconds()))
			a.Draw()
		}
	}
}

// HandleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventResize:
		a.screen.Sync()
		cols, rows := ev.Size()
		a.canvas.Resize(cols, rows-1) // last row is the status line
		a.m.Resize()
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyEscape:
		a.m.Do(worldmap.ActionClear)
	case tcell.KeyHome:
		a.m.Do(worldmap.ActionReset)
	case tcell.KeyLeft:
		a.m.Do(worldmap.ActionPanLeft)
	case tcell.KeyRight:
		a.m.Do(worldmap.ActionPanRight)
	case tcell.KeyUp:
		a.m.Do(worldmap.ActionPanUp)
	case tcell.KeyDown:
		a.m.Do(worldmap.ActionPanDown)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return false
		case 'r', 'R':
			a.m.Do(worldmap.ActionReset)
		case '+', '=':
			a.m.Do(worldmap.ActionZoomIn)
		case '-', '_':
			a.m.Do(worldmap.ActionZoomOut)
		}
	}
	return true
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	col, row := ev.Position()
	x, y := CellToPixel(col, row)
	r := a.m.Router()
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		r.Wheel(x, y, -wheelStep)
	case buttons&tcell.WheelDown != 0:
		r.Wheel(x, y, wheelStep)
	}

	wasDown := a.buttons&tcell.Button1 != 0
	isDown := buttons&tcell.Button1 != 0
	switch {
	case isDown && !wasDown:
		r.PointerDown(0, x, y)
	case !isDown && wasDown:
		r.PointerUp(0, x, y)
	case x != a.mouseX || y != a.mouseY:
		r.PointerMove(0, x, y)
	}
	a.buttons = buttons &^ (tcell.WheelUp | tcell.WheelDown)
	a.mouseX, a.mouseY = x, y
}

// Draw paints the map and the status line and shows the screen.
func (a *App) Draw() {
	a.canvas.Clear()
	st := a.m.Paint(a.canvas)
	a.canvas.Blit(a.screen)

	_, rows := a.screen.Size()
	cols := a.canvas.width
	status := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	line := []rune(fmt.Sprintf(" %s  (%d drawn, zoom %.2f)  q quit  r reset", a.label, st.Painted, a.m.Viewport().Zoom()))
	for x := 0; x < cols; x++ {
		ch := ' '
		if x < len(line) {
			ch = line[x]
		}
		a.screen.SetContent(x, rows-1, ch, nil, status)
	}
	a.screen.Show()
}
