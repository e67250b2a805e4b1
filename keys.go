package worldmap

// Action is a keyboard command shared by every backend.
type Action uint8

const (
	ActionNone Action = iota
	ActionReset
	ActionClear
	ActionZoomIn
	ActionZoomOut
	ActionPanLeft
	ActionPanRight
	ActionPanUp
	ActionPanDown
)

const (
	keyZoomStep = 1.25
	keyPanStep  = 40.0 // pixels
)

var actionNames = [...]string{
	ActionNone:     "none",
	ActionReset:    "reset",
	ActionClear:    "clear",
	ActionZoomIn:   "zoom-in",
	ActionZoomOut:  "zoom-out",
	ActionPanLeft:  "pan-left",
	ActionPanRight: "pan-right",
	ActionPanUp:    "pan-up",
	ActionPanDown:  "pan-down",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Do runs a keyboard action. Arrow actions move the view, so the map
// content shifts the opposite way.
func (m *Map) Do(a Action) {
	v := m.viewport
	switch a {
	case ActionReset:
		m.ResetView()
	case ActionClear:
		m.SetActiveCountry(nil, nil)
	case ActionZoomIn:
		v.SetZoom(v.Zoom() * keyZoomStep)
	case ActionZoomOut:
		v.SetZoom(v.Zoom() / keyZoomStep)
	case ActionPanLeft:
		v.Pan(keyPanStep, 0)
	case ActionPanRight:
		v.Pan(-keyPanStep, 0)
	case ActionPanUp:
		v.Pan(0, keyPanStep)
	case ActionPanDown:
		v.Pan(0, -keyPanStep)
	}
}
