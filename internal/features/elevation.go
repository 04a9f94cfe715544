package features

import (
	"github.com/trackrec/records-backend-go/internal/models"
	"github.com/trackrec/records-backend-go/internal/spatial"
)

// movingAverage keeps the last n samples
type movingAverage struct {
	buf  []float64
	next int
	full bool
}

func newMovingAverage(n int) *movingAverage {
	return &movingAverage{buf: make([]float64, n)}
}

func (m *movingAverage) push(v float64) {
	m.buf[m.next] = v
	m.next++
	if m.next == len(m.buf) {
		m.next = 0
		m.full = true
	}
}

func (m *movingAverage) mean() float64 {
	n := m.next
	if m.full {
		n = len(m.buf)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += m.buf[i]
	}
	return sum / float64(n)
}

// elevationGainLoss accumulates climb and descent over smoothed elevations.
//
// Every point with position and elevation feeds the smoothing window, but a
// delta is only evaluated against points that moved at least
// MinHorizontalMeters from the previously accepted point, and deltas inside
// the ±MinElevationDeltaMeters dead zone are dropped. The window restarts at
// each segment. ok is false when no point carried an elevation.
func elevationGainLoss(segments []models.Segment, cfg Config) (gain, loss float64, ok bool) {
	for _, seg := range segments {
		window := newMovingAverage(cfg.SmoothingWindow)

		var prevLat, prevLon, prevSmoothed float64
		accepted := false

		for _, p := range seg {
			if !p.Positioned() || p.Elevation == nil {
				continue
			}
			ok = true
			lat, lon := *p.Latitude, *p.Longitude

			if accepted && spatial.HaversineDistance(prevLat, prevLon, lat, lon) < cfg.MinHorizontalMeters {
				window.push(*p.Elevation)
				continue
			}

			window.push(*p.Elevation)
			smoothed := window.mean()
			if accepted {
				delta := smoothed - prevSmoothed
				if delta >= cfg.MinElevationDeltaMeters {
					gain += delta
				} else if delta <= -cfg.MinElevationDeltaMeters {
					loss -= delta
				}
			}

			prevLat, prevLon, prevSmoothed = lat, lon, smoothed
			accepted = true
		}
	}
	return gain, loss, ok
}
