package server

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/phanxgames/worldmap"
	"github.com/phanxgames/worldmap/backend/svgmap"
	"github.com/phanxgames/worldmap/internal/metrics"
)

const (
	defaultWidth  = 1280
	defaultHeight = 720
	maxDimension  = 8192
)

// Options configures a Server.
type Options struct {
	Viewport    worldmap.ViewportConfig
	CORSOrigins string
	Logger      *slog.Logger
}

// Server serves the dataset, the projected atlas and SVG renders of it.
// Renders share one map, so requests that touch it are serialized.
type Server struct {
	app    *fiber.App
	logger *slog.Logger
	raw    []byte

	mu      sync.Mutex
	m       *worldmap.Map
	surface *worldmap.FixedSurface
}

// New builds the fiber app around atlas. raw is served as the dataset file.
func New(atlas *worldmap.Atlas, raw []byte, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := opts.CORSOrigins
	if origins == "" {
		origins = "*"
	}

	// Renders are single frames, so reframing never animates here.
	vp := opts.Viewport
	vp.ReframeDuration = 0

	surface := &worldmap.FixedSurface{Width: defaultWidth, Height: defaultHeight}
	m := worldmap.New(surface, worldmap.WithLogger(logger), worldmap.WithViewportConfig(vp))
	m.Load(atlas)
	metrics.SetAtlas(atlas.Stats())

	s := &Server{logger: logger, raw: raw, m: m, surface: surface}

	app := fiber.New(fiber.Config{
		AppName:               "worldmap",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,HEAD,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(metrics.Middleware())
	app.Use(accessLog(logger))

	app.Get("/healthz", s.health)
	app.Get("/metrics", metrics.Handler())
	app.Get("/assets/world.geo.json", s.dataset)
	app.Get("/api/countries", s.listCountries)
	app.Get("/api/countries/:code", s.getCountry)
	app.Get("/map.svg", s.renderSVG)

	s.app = app
	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info("map server starting", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) dataset(c *fiber.Ctx) error {
	if len(s.raw) == 0 {
		return fiber.NewError(fiber.StatusNotFound, "dataset not available")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	c.Set(fiber.HeaderCacheControl, "no-cache")
	return c.Send(s.raw)
}

type boundsJSON struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type countryJSON struct {
	Name      string     `json:"name"`
	ISO3      string     `json:"iso3"`
	ISO2      string     `json:"iso2"`
	Label     string     `json:"label"`
	Color     string     `json:"color"`
	Highlight string     `json:"highlight"`
	Segments  int        `json:"segments"`
	Bounds    boundsJSON `json:"bounds"`
}

type framingJSON struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Zoom   float64 `json:"zoom"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

func toCountryJSON(c *worldmap.Country) countryJSON {
	b := c.Bounds()
	return countryJSON{
		Name:      c.Name,
		ISO3:      c.ISO3,
		ISO2:      c.ISO2,
		Label:     worldmap.CountryLabel(c),
		Color:     c.BaseColor.HexString(),
		Highlight: c.HighlightColor.HexString(),
		Segments:  len(c.Segments),
		Bounds:    boundsJSON{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height},
	}
}

func (s *Server) listCountries(c *fiber.Ctx) error {
	atlas := s.m.Atlas()
	out := make([]countryJSON, 0, len(atlas.Countries))
	for _, country := range atlas.Countries {
		out = append(out, toCountryJSON(country))
	}
	st := atlas.Stats()
	return c.JSON(fiber.Map{
		"count":     st.Countries,
		"segments":  st.Segments,
		"points":    st.Points,
		"countries": out,
	})
}

func (s *Server) getCountry(c *fiber.Ctx) error {
	country := s.m.Atlas().Lookup(c.Params("code"))
	if country == nil {
		return fiber.NewError(fiber.StatusNotFound, "unknown country "+strings.ToUpper(c.Params("code")))
	}
	w, h, err := screenSize(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.resize(w, h)
	zoom, pos := s.m.Viewport().Framing(country.MainSegment().Bounds())
	s.mu.Unlock()

	return c.JSON(fiber.Map{
		"country": toCountryJSON(country),
		"framing": framingJSON{Width: w, Height: h, Zoom: zoom, X: pos.X, Y: pos.Y},
	})
}

func (s *Server) renderSVG(c *fiber.Ctx) error {
	w, h, err := screenSize(c)
	if err != nil {
		return err
	}
	active := c.Query("active")

	s.mu.Lock()
	s.resize(w, h)
	if active != "" {
		if !s.m.SelectCountry(active) {
			s.mu.Unlock()
			return fiber.NewError(fiber.StatusNotFound, "unknown country "+strings.ToUpper(active))
		}
	} else {
		s.m.ResetView()
	}
	canvas, st := svgmap.Render(s.m)
	s.mu.Unlock()
	metrics.ObserveRender("svg", st)

	c.Set(fiber.HeaderContentType, "image/svg+xml")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	return c.Send(canvas.Bytes())
}

// resize must be called with mu held.
func (s *Server) resize(w, h float64) {
	if s.surface.Width == w && s.surface.Height == h {
		return
	}
	s.surface.Width, s.surface.Height = w, h
	s.m.Resize()
}

func screenSize(c *fiber.Ctx) (float64, float64, error) {
	w := c.QueryInt("w", defaultWidth)
	h := c.QueryInt("h", defaultHeight)
	if w <= 0 || h <= 0 || w > maxDimension || h > maxDimension {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "w and h must be between 1 and 8192")
	}
	return float64(w), float64(h), nil
}

func accessLog(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		logger.Log(c.UserContext(), level, "http request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start).String(),
		)
		return err
	}
}
