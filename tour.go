package worldmap

import (
	"encoding/json"
	"fmt"
)

// tourStep is a single action in a tour script.
type tourStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Code   string  `json:"code,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	DeltaY float64 `json:"deltaY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// tourScript is the top-level JSON structure for a tour.
type tourScript struct {
	Steps []tourStep `json:"steps"`
}

var tourActions = map[string]bool{
	"select":     true,
	"wait":       true,
	"click":      true,
	"drag":       true,
	"wheel":      true,
	"reset":      true,
	"screenshot": true,
}

// Tour replays a scripted sequence of selections and synthetic input, one
// step per frame.
type Tour struct {
	steps     []tourStep
	cursor    int
	waitCount int
	done      bool

	// OnScreenshot is called for "screenshot" steps. Backends that can
	// capture frames set it.
	OnScreenshot func(label string)
}

// LoadTour parses a JSON tour script.
func LoadTour(jsonData []byte) (*Tour, error) {
	var script tourScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse tour: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse tour: no steps")
	}
	for i, st := range script.Steps {
		if !tourActions[st.Action] {
			return nil, fmt.Errorf("parse tour: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Tour{steps: script.Steps}, nil
}

// Done reports whether every step has run.
func (t *Tour) Done() bool {
	return t.done
}

// Step advances the tour by one frame. Call it once per frame before the
// router processes injected input.
func (t *Tour) Step(m *Map) {
	if t.done {
		return
	}
	r := m.Router()
	// Wait for pending injections to drain before advancing.
	if r.Injected() > 0 {
		return
	}
	if t.waitCount > 0 {
		t.waitCount--
		return
	}
	if t.cursor >= len(t.steps) {
		t.done = true
		return
	}

	st := t.steps[t.cursor]
	t.cursor++

	switch st.Action {
	case "select":
		if !m.SelectCountry(st.Code) {
			m.logger.Warn("tour: unknown country", "code", st.Code)
		}
	case "reset":
		m.ResetView()
	case "screenshot":
		if t.OnScreenshot != nil {
			t.OnScreenshot(st.Label)
		}
	case "click":
		r.InjectClick(st.X, st.Y)
	case "drag":
		r.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wheel":
		r.InjectWheel(st.X, st.Y, st.DeltaY)
	case "wait":
		if st.Frames > 0 {
			t.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if t.cursor >= len(t.steps) && t.waitCount == 0 && r.Injected() == 0 {
		t.done = true
	}
}
