package worldmap

import "strings"

// Outline alphas per selection state.
const (
	ActiveStrokeAlpha  = 0.38
	HoverStrokeAlpha   = 0.26
	DefaultStrokeAlpha = 0.18
)

// Selection tracks the hovered and active countries. Both are references
// into the atlas and may be nil.
type Selection struct {
	hovered *Country
	active  *Country
}

// Hovered returns the hovered country, or nil.
func (s *Selection) Hovered() *Country { return s.hovered }

// Active returns the active country, or nil.
func (s *Selection) Active() *Country { return s.active }

// SetHovered changes the hovered country and reports whether anything
// changed. Hovering the current hover or the active country does nothing.
// Clearing (nil) always clears, even when no country is active.
func (s *Selection) SetHovered(c *Country) bool {
	if c == s.hovered {
		return false
	}
	if c != nil && c == s.active {
		return false
	}
	s.hovered = c
	return true
}

// SetActive replaces the active country. A nil country clears it.
func (s *Selection) SetActive(c *Country) {
	s.active = c
}

// Style returns the fill and outline alpha for c under the current
// selection. Active wins over hovered.
func (s *Selection) Style(c *Country) (Color, float64) {
	switch {
	case c == nil:
		return ColorWhite, DefaultStrokeAlpha
	case c == s.active:
		return c.HighlightColor, ActiveStrokeAlpha
	case c == s.hovered:
		return c.BaseColor.Lighten(HoverLighten), HoverStrokeAlpha
	default:
		return c.BaseColor, DefaultStrokeAlpha
	}
}

// SelectionEvent describes a change of the active country. Country is nil
// when the selection was cleared.
type SelectionEvent struct {
	Country *Country
	// Segment is the clicked segment, or nil when the whole country was selected.
	Segment  *Segment
	Centroid Vec2
}

// SelectionObserver is notified whenever the active country changes.
type SelectionObserver interface {
	SelectionChanged(ev SelectionEvent)
}

// SelectionObserverFunc adapts a plain function to SelectionObserver.
type SelectionObserverFunc func(ev SelectionEvent)

// SelectionChanged calls f(ev).
func (f SelectionObserverFunc) SelectionChanged(ev SelectionEvent) { f(ev) }

// FlagEmoji returns the regional-indicator flag for a two-letter ISO code,
// or "" when iso2 is not two uppercase ASCII letters.
func FlagEmoji(iso2 string) string {
	if len(iso2) != 2 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < 2; i++ {
		c := iso2[i]
		if c < 'A' || c > 'Z' {
			return ""
		}
		b.WriteRune(rune(0x1F1E6 + int(c-'A')))
	}
	return b.String()
}

// CountryLabel returns the flag and name of c for display.
func CountryLabel(c *Country) string {
	if c == nil {
		return "Click a country"
	}
	flag := FlagEmoji(c.ISO2)
	if flag == "" {
		return c.Name
	}
	return flag + " " + c.Name
}
