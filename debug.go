package worldmap

import (
	"log/slog"
	"time"
)

// debugMaxPaintTime is the paint duration above which debug mode warns.
const debugMaxPaintTime = 16 * time.Millisecond // one frame at 60 TPS

// debugLog reports paint stats. Only called when the map is in debug mode.
func (m *Map) debugLog(st PaintStats) {
	attrs := []any{
		slog.Int("painted", st.Painted),
		slog.Int("culled", st.Culled),
		slog.Duration("duration", st.Duration),
		slog.Float64("zoom", m.viewport.Zoom()),
	}
	if st.Duration > debugMaxPaintTime {
		m.logger.Warn("paint exceeded frame budget", attrs...)
		return
	}
	m.logger.Debug("paint", attrs...)
}
