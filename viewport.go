package worldmap

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ViewportConfig holds the fitting and clamping constants.
type ViewportConfig struct {
	// Margin is kept free on every side when fitting the world to the screen.
	Margin float64
	// MinZoomFactor and MaxZoomFactor bound zoom relative to the base scale.
	MinZoomFactor float64
	MaxZoomFactor float64
	// PanSlack is how much empty space may show past the map edge.
	PanSlack float64
	// FitPadding is kept free on every side when framing a country.
	FitPadding float64
	// FitFill is the share of the padded screen a framed country fills.
	FitFill float64
	// ZoomEpsilon ignores zoom changes smaller than this.
	ZoomEpsilon float64
	// ReframeDuration animates ZoomToCountry and Reset over this many
	// seconds. Zero applies them immediately.
	ReframeDuration float32
	// ReframeEase is the easing for animated reframes (default OutCubic).
	ReframeEase ease.TweenFunc
}

// DefaultViewportConfig returns the standard constants with immediate reframing.
func DefaultViewportConfig() ViewportConfig {
	return ViewportConfig{
		Margin:        80,
		MinZoomFactor: 0.35,
		MaxZoomFactor: 999,
		PanSlack:      30,
		FitPadding:    100,
		FitFill:       0.8,
		ZoomEpsilon:   0.0001,
		ReframeEase:   ease.OutCubic,
	}
}

// reframeAnim holds the tweens of an animated reframe.
type reframeAnim struct {
	zoom, x, y *gween.Tween
	// exact end pose, applied when the tweens finish
	endZoom float64
	endPos  Vec2
}

// Viewport owns the zoom and pan of the world container: fitting the world
// to the screen, zooming around a focal point, clamping pan against the
// world bounds and framing countries.
//
// Every operation is a no-op until a container is attached.
type Viewport struct {
	cfg       ViewportConfig
	surface   Surface
	container *Container
	world     Rect

	zoom      float64
	baseScale float64

	anim *reframeAnim
}

// NewViewport creates a viewport over surface. Zero or negative config
// fields take their DefaultViewportConfig values.
func NewViewport(surface Surface, cfg ViewportConfig) *Viewport {
	if surface == nil {
		panic("worldmap: NewViewport requires a surface")
	}
	def := DefaultViewportConfig()
	if cfg.Margin <= 0 {
		cfg.Margin = def.Margin
	}
	if cfg.MinZoomFactor <= 0 {
		cfg.MinZoomFactor = def.MinZoomFactor
	}
	if cfg.MaxZoomFactor <= 0 {
		cfg.MaxZoomFactor = def.MaxZoomFactor
	}
	if cfg.PanSlack <= 0 {
		cfg.PanSlack = def.PanSlack
	}
	if cfg.FitPadding <= 0 {
		cfg.FitPadding = def.FitPadding
	}
	if cfg.FitFill <= 0 {
		cfg.FitFill = def.FitFill
	}
	if cfg.ZoomEpsilon <= 0 {
		cfg.ZoomEpsilon = def.ZoomEpsilon
	}
	if cfg.ReframeEase == nil {
		cfg.ReframeEase = def.ReframeEase
	}
	return &Viewport{cfg: cfg, surface: surface, zoom: 1, baseScale: 1}
}

// Attach binds the viewport to a container showing a world of the given
// bounds, then fits it to the surface.
func (v *Viewport) Attach(c *Container, world Rect) {
	v.container = c
	v.world = world
	v.anim = nil
	v.Resize()
}

// Zoom returns the current zoom.
func (v *Viewport) Zoom() float64 { return v.zoom }

// BaseScale returns the zoom that fits the whole world on screen.
func (v *Viewport) BaseScale() float64 { return v.baseScale }

// MinZoom returns the smallest allowed zoom.
func (v *Viewport) MinZoom() float64 { return v.baseScale * v.cfg.MinZoomFactor }

// MaxZoom returns the largest allowed zoom.
func (v *Viewport) MaxZoom() float64 { return v.baseScale * v.cfg.MaxZoomFactor }

// World returns the world bounds the viewport clamps against.
func (v *Viewport) World() Rect { return v.world }

// Position returns the screen position of the world origin, or the zero
// vector before a container is attached.
func (v *Viewport) Position() Vec2 {
	if v.container == nil {
		return Vec2{}
	}
	return v.container.Position()
}

// Animating reports whether an animated reframe is in progress.
func (v *Viewport) Animating() bool { return v.anim != nil }

// screenCenter returns the middle of the surface.
func (v *Viewport) screenCenter() Vec2 {
	w, h := v.surface.Size()
	return Vec2{w / 2, h / 2}
}

// Resize refits the world to the surface's current size.
func (v *Viewport) Resize() {
	w, h := v.surface.Size()
	v.FitToSize(w, h)
}

// FitToSize computes the base scale that fits the world into width x height
// minus the margin, resets zoom to it and recenters the container.
func (v *Viewport) FitToSize(width, height float64) {
	if v.container == nil {
		return
	}
	v.anim = nil

	availW := math.Max(width-2*v.cfg.Margin, 1)
	availH := math.Max(height-2*v.cfg.Margin, 1)
	base := math.Inf(1)
	if v.world.Width > 0 {
		base = availW / v.world.Width
	}
	if v.world.Height > 0 {
		base = math.Min(base, availH/v.world.Height)
	}
	if math.IsInf(base, 1) {
		base = 1
	}

	v.baseScale = base
	v.setZoomRaw(base)
	v.container.SetPosition(width/2, height/2)
	v.ConstrainPan()
}

// SetZoom zooms around the screen center.
func (v *Viewport) SetZoom(target float64) {
	v.ZoomAt(target, v.screenCenter())
}

// ZoomAt zooms to target, clamped to [MinZoom, MaxZoom], keeping the world
// point under the focal screen point in place.
func (v *Viewport) ZoomAt(target float64, focal Vec2) {
	if v.container == nil {
		return
	}
	target = clamp(target, v.MinZoom(), v.MaxZoom())
	if math.Abs(target-v.zoom) < v.cfg.ZoomEpsilon {
		return
	}
	v.anim = nil

	world := focal.Sub(v.container.Position()).Scale(1 / v.zoom)
	v.setZoomRaw(target)
	pos := focal.Sub(world.Scale(target))
	v.container.SetPosition(pos.X, pos.Y)
	v.ConstrainPan()
}

// Pan moves the container by a screen-space delta, then clamps.
func (v *Viewport) Pan(dx, dy float64) {
	if v.container == nil {
		return
	}
	v.anim = nil
	v.container.SetPosition(v.container.X+dx, v.container.Y+dy)
	v.ConstrainPan()
}

// ConstrainPan keeps the map from being dragged more than PanSlack pixels
// past its edge. A map smaller than the screen stays centered.
func (v *Viewport) ConstrainPan() {
	if v.container == nil {
		return
	}
	w, h := v.surface.Size()
	x, y := v.clampPosition(v.container.X, v.container.Y, v.zoom, w, h)
	v.container.SetPosition(x, y)
}

func (v *Viewport) clampPosition(x, y, zoom, screenW, screenH float64) (float64, float64) {
	halfW := v.world.Width * zoom / 2
	halfH := v.world.Height * zoom / 2
	maxX := math.Max(0, halfW-screenW/2+v.cfg.PanSlack)
	maxY := math.Max(0, halfH-screenH/2+v.cfg.PanSlack)
	cx, cy := screenW/2, screenH/2
	return clamp(x, cx-maxX, cx+maxX), clamp(y, cy-maxY, cy+maxY)
}

// ZoomToCountry frames seg, or the country's largest segment when seg is nil.
func (v *Viewport) ZoomToCountry(c *Country, seg *Segment) {
	if c == nil {
		return
	}
	if seg == nil {
		seg = c.MainSegment()
	}
	if seg == nil {
		return
	}
	v.ZoomToBounds(seg.Bounds())
}

// Framing returns the zoom and container position that center b on screen
// at FitFill of the padded screen, after clamping.
func (v *Viewport) Framing(b Rect) (zoom float64, pos Vec2) {
	sw, sh := v.surface.Size()
	pad := v.cfg.FitPadding
	scaleX := (sw - 2*pad) / math.Max(b.Width, minHitExtent)
	scaleY := (sh - 2*pad) / math.Max(b.Height, minHitExtent)
	zoom = clamp(math.Min(scaleX, scaleY)*v.cfg.FitFill, v.MinZoom(), v.MaxZoom())

	center := b.Center()
	x, y := v.clampPosition(sw/2-center.X*zoom, sh/2-center.Y*zoom, zoom, sw, sh)
	return zoom, Vec2{x, y}
}

// ZoomToBounds frames a world-space rectangle.
func (v *Viewport) ZoomToBounds(b Rect) {
	if v.container == nil {
		return
	}
	zoom, pos := v.Framing(b)
	v.moveTo(zoom, pos)
}

// Reset restores the base zoom with the world centered.
func (v *Viewport) Reset() {
	if v.container == nil {
		return
	}
	sw, sh := v.surface.Size()
	x, y := v.clampPosition(sw/2, sh/2, v.baseScale, sw, sh)
	v.moveTo(v.baseScale, Vec2{x, y})
}

// moveTo applies a clamped pose now, or starts tweening to it.
func (v *Viewport) moveTo(zoom float64, pos Vec2) {
	if v.cfg.ReframeDuration <= 0 {
		v.anim = nil
		v.setZoomRaw(zoom)
		v.container.SetPosition(pos.X, pos.Y)
		v.ConstrainPan()
		return
	}
	d, fn := v.cfg.ReframeDuration, v.cfg.ReframeEase
	v.anim = &reframeAnim{
		zoom:    gween.New(float32(v.zoom), float32(zoom), d, fn),
		x:       gween.New(float32(v.container.X), float32(pos.X), d, fn),
		y:       gween.New(float32(v.container.Y), float32(pos.Y), d, fn),
		endZoom: zoom,
		endPos:  pos,
	}
}

// Update advances an animated reframe by dt seconds. Idempotent when no
// animation is running.
func (v *Viewport) Update(dt float32) {
	if v.anim == nil || v.container == nil {
		return
	}
	z, doneZ := v.anim.zoom.Update(dt)
	x, doneX := v.anim.x.Update(dt)
	y, doneY := v.anim.y.Update(dt)
	if doneZ && doneX && doneY {
		a := v.anim
		v.anim = nil
		v.setZoomRaw(a.endZoom)
		v.container.SetPosition(a.endPos.X, a.endPos.Y)
		v.ConstrainPan()
		return
	}
	v.setZoomRaw(float64(z))
	v.container.SetPosition(float64(x), float64(y))
}

// CancelAnimation stops an animated reframe where it is.
func (v *Viewport) CancelAnimation() {
	v.anim = nil
}

func (v *Viewport) setZoomRaw(z float64) {
	v.zoom = z
	if v.container != nil {
		v.container.SetScale(z)
	}
}
