package session

import "github.com/ugaemi/epidemic-sim/internal/epidemic"

// History is the time series of per-tick statistics for one run. When a limit
// is set, the oldest points are dropped once it is exceeded.
type History struct {
	points []epidemic.Stats
	limit  int
}

// NewHistory creates an empty history keeping at most limit points.
// A limit of zero or less keeps everything.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Append adds a snapshot to the end of the series.
func (h *History) Append(s epidemic.Stats) {
	h.points = append(h.points, s)
	if h.limit > 0 && len(h.points) > h.limit {
		drop := len(h.points) - h.limit
		h.points = append(h.points[:0], h.points[drop:]...)
	}
}

// Len returns the number of stored points.
func (h *History) Len() int {
	return len(h.points)
}

// Last returns the most recent snapshot.
func (h *History) Last() (epidemic.Stats, bool) {
	if len(h.points) == 0 {
		return epidemic.Stats{}, false
	}
	return h.points[len(h.points)-1], true
}

// Points returns a copy of the full series.
func (h *History) Points() []epidemic.Stats {
	out := make([]epidemic.Stats, len(h.points))
	copy(out, h.points)
	return out
}

// Downsample returns at most limit points taken at a fixed stride from the
// start of the series, preserving its shape for charts.
func (h *History) Downsample(limit int) []epidemic.Stats {
	return Downsample(h.points, limit)
}

// Downsample keeps every ceil(len/limit)-th point of points.
func Downsample(points []epidemic.Stats, limit int) []epidemic.Stats {
	if limit <= 0 || len(points) <= limit {
		out := make([]epidemic.Stats, len(points))
		copy(out, points)
		return out
	}

	step := (len(points) + limit - 1) / limit
	out := make([]epidemic.Stats, 0, limit)
	for i := 0; i < len(points); i += step {
		out = append(out, points[i])
	}
	return out
}
