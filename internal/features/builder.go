package features

import (
	"math"
	"time"

	"github.com/trackrec/records-backend-go/internal/models"
)

// Builder turns a parsed track into its feature record.
type Builder struct {
	cfg Config
	now func() time.Time
}

// NewBuilder creates a builder using the given constants
func NewBuilder(cfg Config) *Builder {
	return &Builder{cfg: cfg.withDefaults(), now: time.Now}
}

// WithClock replaces the clock stamping ComputedAt
func (b *Builder) WithClock(now func() time.Time) *Builder {
	return &Builder{cfg: b.cfg, now: now}
}

// Config returns the constants the builder runs with
func (b *Builder) Config() Config {
	return b.cfg
}

// Build extracts the feature record of one track. Every field except
// ComputedAt is a pure function of the input points.
func (b *Builder) Build(trackID string, userID int64, format string, track models.RawTrack) models.TrackFeatures {
	m := Aggregate(track, b.cfg)

	f := models.TrackFeatures{
		TrackID:         trackID,
		UserID:          userID,
		FeaturesVersion: models.FeaturesVersion,
		ComputedAt:      b.now().UTC(),
		SourceFormat:    format,
	}

	// Start / end position
	if m.First != nil {
		f.StartLatitude = models.Float(*m.First.Latitude)
		f.StartLongitude = models.Float(*m.First.Longitude)
		f.EndLatitude = models.Float(*m.Last.Latitude)
		f.EndLongitude = models.Float(*m.Last.Longitude)
	}
	f.StartAreaID = StartAreaID(f.StartLatitude, f.StartLongitude, b.cfg.StartAreaPrecision)

	// Distance and shape
	if m.TotalDistance != nil {
		f.TotalDistanceKm = models.Float(round(*m.TotalDistance/1000, 3))
	}
	if m.StraightDistance != nil {
		f.StraightLineDistanceKm = models.Float(round(*m.StraightDistance/1000, 3))
	}
	f.SinuosityRatio = b.sinuosity(f.TotalDistanceKm, f.StraightLineDistanceKm)
	f.RouteCurvature = ClassifyCurvature(f.SinuosityRatio)

	// Elevation
	if m.ElevationGain != nil {
		f.ElevationGainM = models.Float(round(*m.ElevationGain, 1))
		f.ElevationLossM = models.Float(round(*m.ElevationLoss, 1))
		if f.TotalDistanceKm != nil && *f.TotalDistanceKm != 0 {
			perKm := *f.ElevationGainM / math.Max(*f.TotalDistanceKm, b.cfg.SinuosityEpsilonKm)
			f.GainPerKm = models.Float(round(perKm, 1))
		}
	}
	f.Terrain = ClassifyTerrain(f.GainPerKm)

	// Time
	if m.StartTime != nil {
		f.StartTime = m.StartTime
		f.EndTime = m.EndTime
		f.StartHourOfDay = models.Int(m.StartTime.Hour())
		f.DayOfWeek = models.Int(mondayFirst(m.StartTime.Weekday()))

		elapsed := int64(m.EndTime.Sub(*m.StartTime) / time.Second)
		f.ElapsedSeconds = models.Int64(elapsed)

		moving := int64(m.Moving.MovingTime)
		f.MovingSeconds = models.Int64(moving)
		f.StoppedSeconds = models.Int64(max(elapsed-moving, 0))

		if m.Moving.MovingTime > 0 {
			f.AvgSpeedKmh = models.Float(round(m.Moving.MovingDistance/m.Moving.MovingTime*3.6, 2))
		}
		if m.Moving.MaxSpeed != nil && *m.Moving.MaxSpeed > 0 {
			f.MaxSpeedKmh = models.Float(round(*m.Moving.MaxSpeed*3.6, 2))
		}
	}

	return f
}

// sinuosity is defined only when both rounded distances are non-zero
func (b *Builder) sinuosity(totalKm, straightKm *float64) *float64 {
	if totalKm == nil || straightKm == nil || *totalKm == 0 || *straightKm == 0 {
		return nil
	}
	ratio := *totalKm / math.Max(*straightKm, b.cfg.SinuosityEpsilonKm)
	return models.Float(round(ratio, 3))
}

// mondayFirst maps Go's Sunday-first weekday to 0=Mon..6=Sun
func mondayFirst(d time.Weekday) int {
	return (int(d) + 6) % 7
}
