package features

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/trackrec/records-backend-go/internal/models"
	"github.com/trackrec/records-backend-go/internal/spatial"
)

// MovingData splits the timed part of a track into moving and stopped samples.
// Distances are meters, times seconds, speeds m/s.
type MovingData struct {
	MovingTime      float64
	StoppedTime     float64
	MovingDistance  float64
	StoppedDistance float64
	MaxSpeed        *float64
}

type speedSample struct {
	speed    float64
	distance float64
}

// movingData walks consecutive positioned, timestamped points of every
// segment. A sample is moving when its speed exceeds StoppedSpeedThresholdKmh.
// Returns nil when the track has no such pair of points.
func movingData(segments []models.Segment, cfg Config) *MovingData {
	var md MovingData
	var samples []speedSample
	pairs := 0

	for _, seg := range segments {
		var prev *models.RawPoint
		for i := range seg {
			p := &seg[i]
			if !p.Positioned() || p.Time == nil {
				continue
			}
			if prev == nil {
				prev = p
				continue
			}

			seconds := p.Time.Sub(*prev.Time).Seconds()
			if seconds < 0 {
				// out-of-order sample, restart from here
				prev = p
				continue
			}
			pairs++

			dist := sampleDistance(*prev, *p)
			speedKmh := 0.0
			if seconds > 0 {
				speedKmh = (dist / 1000) / (seconds / 3600)
			}

			if speedKmh <= cfg.StoppedSpeedThresholdKmh {
				md.StoppedTime += seconds
				md.StoppedDistance += dist
			} else {
				md.MovingTime += seconds
				md.MovingDistance += dist
				if dist > 0 {
					samples = append(samples, speedSample{speed: dist / seconds, distance: dist})
				}
			}
			prev = p
		}
	}

	if pairs == 0 {
		return nil
	}
	md.MaxSpeed = maxSpeed(samples, cfg)
	return &md
}

func sampleDistance(a, b models.RawPoint) float64 {
	if a.Elevation != nil && b.Elevation != nil {
		return spatial.Distance3D(*a.Latitude, *a.Longitude, *a.Elevation, *b.Latitude, *b.Longitude, *b.Elevation)
	}
	return spatial.HaversineDistance(*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude)
}

// maxSpeed reports a robust maximum: samples whose distance is far from the
// mean sample distance are dropped, then the top MaxSpeedExtremePercentile
// of speeds is ignored. Short tracks get no maximum at all.
func maxSpeed(samples []speedSample, cfg Config) *float64 {
	if len(samples) < cfg.MaxSpeedMinSamples {
		return nil
	}

	distances := make([]float64, len(samples))
	for i, s := range samples {
		distances[i] = s.distance
	}
	mean, std := stat.PopMeanStdDev(distances, nil)
	limit := std*1.5 + 1e-9 // float noise on evenly spaced samples

	speeds := make([]float64, 0, len(samples))
	for _, s := range samples {
		if math.Abs(s.distance-mean) <= limit {
			speeds = append(speeds, s.speed)
		}
	}
	if len(speeds) == 0 {
		return nil
	}
	sort.Float64s(speeds)

	idx := int(float64(len(speeds)) * (1 - cfg.MaxSpeedExtremePercentile))
	if idx >= len(speeds) {
		idx = len(speeds) - 1
	}
	v := speeds[idx]
	return &v
}
