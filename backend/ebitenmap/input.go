package ebitenmap

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/worldmap"
)

const (
	maxTouches = 9 // router pointers 1-9

	// wheelLineHeight converts ebiten's wheel ticks to browser-style pixel
	// deltas. Ebiten reports scrolling up as positive.
	wheelLineHeight = 100.0
)

// touchSlots maps ebiten touch IDs to router pointer IDs 1-9.
type touchSlots struct {
	ids   [maxTouches + 1]ebiten.TouchID
	used  [maxTouches + 1]bool
	lastX [maxTouches + 1]int
	lastY [maxTouches + 1]int
}

// slot returns the pointer for tid, allocating a free one if needed. The
// second result reports a new allocation. Returns -1 when all are taken.
func (s *touchSlots) slot(tid ebiten.TouchID) (int, bool) {
	for i := 1; i <= maxTouches; i++ {
		if s.used[i] && s.ids[i] == tid {
			return i, false
		}
	}
	for i := 1; i <= maxTouches; i++ {
		if !s.used[i] {
			s.used[i] = true
			s.ids[i] = tid
			return i, true
		}
	}
	return -1, false
}

func (s *touchSlots) release(i int) {
	s.used[i] = false
	s.ids[i] = 0
}

type inputState struct {
	mouseX, mouseY int
	touches        touchSlots
	touchIDs       []ebiten.TouchID
}

var keyActions = []struct {
	key    ebiten.Key
	action worldmap.Action
}{
	{ebiten.KeyR, worldmap.ActionReset},
	{ebiten.KeyHome, worldmap.ActionReset},
	{ebiten.KeyEscape, worldmap.ActionClear},
	{ebiten.KeyEqual, worldmap.ActionZoomIn},
	{ebiten.KeyNumpadAdd, worldmap.ActionZoomIn},
	{ebiten.KeyMinus, worldmap.ActionZoomOut},
	{ebiten.KeyNumpadSubtract, worldmap.ActionZoomOut},
}

var panKeys = []struct {
	key    ebiten.Key
	action worldmap.Action
}{
	{ebiten.KeyArrowLeft, worldmap.ActionPanLeft},
	{ebiten.KeyArrowRight, worldmap.ActionPanRight},
	{ebiten.KeyArrowUp, worldmap.ActionPanUp},
	{ebiten.KeyArrowDown, worldmap.ActionPanDown},
}

// pollInput feeds this tick's mouse, touch and wheel state to the router.
func (g *Game) pollInput() {
	r := g.m.Router()
	g.pollMouse(r)
	g.pollTouches(r)

	if _, wy := ebiten.Wheel(); wy != 0 {
		r.Wheel(float64(g.input.mouseX), float64(g.input.mouseY), wheelDelta(wy))
	}
}

func (g *Game) pollMouse(r *worldmap.Router) {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		r.PointerDown(0, x, y)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		r.PointerUp(0, x, y)
	case mx != g.input.mouseX || my != g.input.mouseY:
		r.PointerMove(0, x, y)
	}
	g.input.mouseX, g.input.mouseY = mx, my
}

func (g *Game) pollTouches(r *worldmap.Router) {
	s := &g.input.touches
	g.input.touchIDs = ebiten.AppendTouchIDs(g.input.touchIDs[:0])

	var active [maxTouches + 1]bool
	for _, tid := range g.input.touchIDs {
		i, fresh := s.slot(tid)
		if i < 0 {
			continue
		}
		active[i] = true
		tx, ty := ebiten.TouchPosition(tid)
		switch {
		case fresh:
			r.PointerDown(i, float64(tx), float64(ty))
		case tx != s.lastX[i] || ty != s.lastY[i]:
			r.PointerMove(i, float64(tx), float64(ty))
		}
		s.lastX[i], s.lastY[i] = tx, ty
	}

	for i := 1; i <= maxTouches; i++ {
		if s.used[i] && !active[i] {
			r.PointerUp(i, float64(s.lastX[i]), float64(s.lastY[i]))
			s.release(i)
		}
	}
}

func (g *Game) pollKeys() {
	for _, k := range keyActions {
		if inpututil.IsKeyJustPressed(k.key) {
			g.m.Do(k.action)
		}
	}
	for _, k := range panKeys {
		if ebiten.IsKeyPressed(k.key) {
			g.m.Do(k.action)
		}
	}
}

func wheelDelta(wy float64) float64 {
	return -wy * wheelLineHeight
}
