package worldmap

import "log/slog"

// Option configures a Map.
type Option func(*Map)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Map) { m.logger = l }
}

// WithViewportConfig overrides the viewport constants.
func WithViewportConfig(cfg ViewportConfig) Option {
	return func(m *Map) { m.viewportCfg = cfg }
}

// WithRouterConfig overrides the wheel and click constants.
func WithRouterConfig(cfg RouterConfig) Option {
	return func(m *Map) { m.routerCfg = cfg }
}

// WithObserver registers a selection observer.
func WithObserver(o SelectionObserver) Option {
	return func(m *Map) { m.observers = append(m.observers, o) }
}

// Map is the interactive world map: a projected atlas drawn into a world
// container, framed by a Viewport, driven by a Router and styled by a
// Selection. It is not safe for concurrent use.
//
// A Map accepts input before an atlas is loaded; every operation is a no-op
// until Load succeeds.
type Map struct {
	logger  *slog.Logger
	surface Surface
	debug   bool

	viewportCfg ViewportConfig
	routerCfg   RouterConfig

	atlas     *Atlas
	container *Container
	viewport  *Viewport
	router    *Router
	selection Selection
	observers []SelectionObserver
}

// New creates an empty map over surface.
func New(surface Surface, opts ...Option) *Map {
	if surface == nil {
		panic("worldmap: New requires a surface")
	}
	m := &Map{
		logger:      slog.Default(),
		surface:     surface,
		viewportCfg: DefaultViewportConfig(),
		routerCfg:   DefaultRouterConfig(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	m.container = NewContainer()
	m.viewport = NewViewport(surface, m.viewportCfg)
	m.router = NewRouter(m.viewport, m.container, m.routerCfg)
	return m
}

// Load builds the scene for atlas and fits it to the surface. Any previous
// scene and selection are discarded.
func (m *Map) Load(atlas *Atlas) {
	if atlas == nil {
		return
	}
	m.atlas = atlas
	m.selection = Selection{}
	m.router.Cancel()
	BuildScene(m.container, atlas.Countries, SceneHandlers{
		Hover:   m.SetHoveredCountry,
		Unhover: m.unhover,
		Select:  m.SetActiveCountry,
	}, m.logger)
	m.viewport.Attach(m.container, atlas.Bounds)

	st := atlas.Stats()
	m.logger.Info("map loaded",
		"countries", st.Countries,
		"segments", st.Segments,
		"points", st.Points,
		"base_scale", m.viewport.BaseScale())
}

// Ready reports whether an atlas has been loaded.
func (m *Map) Ready() bool { return m.atlas != nil }

// Atlas returns the loaded atlas, or nil.
func (m *Map) Atlas() *Atlas { return m.atlas }

// Container returns the world container.
func (m *Map) Container() *Container { return m.container }

// Viewport returns the viewport controller.
func (m *Map) Viewport() *Viewport { return m.viewport }

// Router returns the interaction router backends feed input into.
func (m *Map) Router() *Router { return m.router }

// Surface returns the display surface.
func (m *Map) Surface() Surface { return m.surface }

// AddObserver registers a selection observer.
func (m *Map) AddObserver(o SelectionObserver) {
	m.observers = append(m.observers, o)
}

// SetDebug enables per-paint stats at debug level.
func (m *Map) SetDebug(enabled bool) { m.debug = enabled }

// Resize refits the world after the surface changed size.
func (m *Map) Resize() {
	m.viewport.Resize()
}

// Update runs one frame: the pinch step and any reframe animation.
func (m *Map) Update(dt float32) {
	m.router.Update()
	m.viewport.Update(dt)
}

// Paint draws every visible graphic through p.
func (m *Map) Paint(p Painter) PaintStats {
	w, h := m.surface.Size()
	st := m.container.Paint(p, Rect{Width: w, Height: h})
	if m.debug {
		m.debugLog(st)
	}
	return st
}

// HoveredCountry returns the hovered country, or nil.
func (m *Map) HoveredCountry() *Country { return m.selection.Hovered() }

// ActiveCountry returns the active country, or nil.
func (m *Map) ActiveCountry() *Country { return m.selection.Active() }

// SetHoveredCountry hovers c, or clears hover when c is nil.
func (m *Map) SetHoveredCountry(c *Country) {
	if m.selection.SetHovered(c) {
		RefreshStyles(m.countries(), &m.selection)
	}
}

func (m *Map) unhover(c *Country) {
	if m.selection.Hovered() == c {
		m.SetHoveredCountry(nil)
	}
}

// SetActiveCountry selects c and frames seg, or its main landmass when seg
// is nil. A nil country clears the selection and resets the view.
func (m *Map) SetActiveCountry(c *Country, seg *Segment) {
	if !m.Ready() {
		return
	}
	m.selection.SetActive(c)
	ev := SelectionEvent{Country: c, Segment: seg}
	if c == nil {
		m.viewport.Reset()
	} else {
		ev.Centroid = c.Centroid(seg)
		m.viewport.ZoomToCountry(c, seg)
		m.logger.Debug("country selected", "iso3", c.ISO3, "name", c.Name, "zoom", m.viewport.Zoom())
	}
	RefreshStyles(m.countries(), &m.selection)
	m.notify(ev)
}

// SelectCountry selects the country with the given ISO3 or ISO2 code and
// reports whether it exists.
func (m *Map) SelectCountry(code string) bool {
	if !m.Ready() {
		return false
	}
	c := m.atlas.Lookup(code)
	if c == nil {
		return false
	}
	m.SetActiveCountry(c, nil)
	return true
}

// ResetView restores the fitted view and clears the active country.
func (m *Map) ResetView() {
	if !m.Ready() {
		return
	}
	m.viewport.Reset()
	if m.selection.Active() == nil {
		return
	}
	m.selection.SetActive(nil)
	RefreshStyles(m.countries(), &m.selection)
	m.notify(SelectionEvent{})
}

func (m *Map) notify(ev SelectionEvent) {
	for _, o := range m.observers {
		o.SelectionChanged(ev)
	}
}

func (m *Map) countries() []*Country {
	if m.atlas == nil {
		return nil
	}
	return m.atlas.Countries
}

// FrameTime is the nominal frame length in seconds for backends that do
// not measure dt.
const FrameTime float32 = 1.0 / 60
