package features

import (
	"time"

	"github.com/trackrec/records-backend-go/internal/models"
	"github.com/trackrec/records-backend-go/internal/spatial"
)

// Measurements holds the raw physical quantities of a track before rounding
// and classification. Distances are meters.
type Measurements struct {
	PositionedPoints int

	First *models.RawPoint // first positioned point
	Last  *models.RawPoint // last positioned point

	TotalDistance    *float64
	StraightDistance *float64

	ElevationGain *float64
	ElevationLoss *float64

	StartTime *time.Time
	EndTime   *time.Time

	Moving *MovingData
}

// Aggregate computes distances, elevation and timing over all segments of a track.
func Aggregate(track models.RawTrack, cfg Config) Measurements {
	cfg = cfg.withDefaults()
	var m Measurements

	// Pairs bridge invalid points and segment boundaries: total >= straight line.
	var total float64
	var prev *models.RawPoint
	for _, seg := range track.Segments {
		for i := range seg {
			p := &seg[i]
			if p.Time != nil {
				if m.StartTime == nil {
					m.StartTime = models.Time(*p.Time)
				}
				m.EndTime = models.Time(*p.Time)
			}
			if !p.Positioned() {
				continue
			}

			m.PositionedPoints++
			if m.First == nil {
				m.First = p
			}
			m.Last = p

			if prev != nil {
				total += spatial.HaversineDistance(*prev.Latitude, *prev.Longitude, *p.Latitude, *p.Longitude)
			}
			prev = p
		}
	}

	if m.PositionedPoints > 0 {
		m.TotalDistance = models.Float(total)
		m.StraightDistance = models.Float(spatial.HaversineDistance(
			*m.First.Latitude, *m.First.Longitude, *m.Last.Latitude, *m.Last.Longitude))
	}

	if gain, loss, ok := elevationGainLoss(track.Segments, cfg); ok {
		m.ElevationGain = models.Float(gain)
		m.ElevationLoss = models.Float(loss)
	}

	if m.StartTime != nil {
		m.Moving = movingData(track.Segments, cfg)
		if m.Moving == nil {
			// timestamps without a usable pair of positioned points
			m.Moving = &MovingData{}
		}
	}

	return m
}
