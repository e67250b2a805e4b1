package worldmap

import (
	"log/slog"
	"strconv"
)

// SceneHandlers receives the interactions of country graphics.
type SceneHandlers struct {
	// Hover is called when a released pointer enters a country.
	Hover func(c *Country)
	// Unhover is called when a pointer leaves a country.
	Unhover func(c *Country)
	// Select is called when a pointer is released over a segment without
	// having dragged.
	Select func(c *Country, seg *Segment)
}

// BuildScene clears c and draws one pickable graphic per segment of every
// country, in atlas order. Each graphic is filled with its country's base
// color, outlined at DefaultStrokeAlpha, and hit-tested against its exact
// polygon. Previous graphics are detached from their segments first.
//
// It returns the number of graphics built. An empty atlas is logged as a
// warning and leaves c empty.
func BuildScene(c *Container, countries []*Country, h SceneHandlers, logger *slog.Logger) int {
	if logger == nil {
		logger = slog.Default()
	}
	for _, g := range c.Graphics() {
		if seg, ok := g.UserData.(*Segment); ok && seg.graphic == g {
			seg.graphic = nil
		}
	}
	c.RemoveAll()

	if len(countries) == 0 {
		logger.Warn("no countries available in dataset")
		return 0
	}

	built := 0
	for _, country := range countries {
		for i, seg := range country.Segments {
			g := NewGraphic(country.ISO3 + "#" + strconv.Itoa(i))
			g.DrawPolygon(seg.Points, country.BaseColor, DefaultStrokeAlpha)
			g.UserData = seg
			c.Add(g)
			if len(seg.Points) >= 3 {
				g.SetHitRegion(seg.Points)
			}
			bindSegment(g, country, seg, h)
			seg.graphic = g
			built++
		}
	}
	logger.Debug("scene built", "countries", len(countries), "graphics", built)
	return built
}

func bindSegment(g *Graphic, country *Country, seg *Segment, h SceneHandlers) {
	g.OnPointerEnter = func(ev *PointerEvent) {
		if ev.Down || h.Hover == nil {
			return
		}
		h.Hover(country)
	}
	g.OnPointerLeave = func(*PointerEvent) {
		if h.Unhover != nil {
			h.Unhover(country)
		}
	}
	g.OnPointerUp = func(ev *PointerEvent) {
		ev.StopPropagation()
		if ev.Dragged || h.Select == nil {
			return
		}
		h.Select(country, seg)
	}
}

// RefreshStyles restyles every segment graphic from sel in place.
func RefreshStyles(countries []*Country, sel *Selection) {
	for _, country := range countries {
		fill, alpha := sel.Style(country)
		for _, seg := range country.Segments {
			if seg.graphic != nil {
				seg.graphic.SetStyle(fill, alpha)
			}
		}
	}
}
