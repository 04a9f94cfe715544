package vectorize

import (
	"math"

	"github.com/trackrec/records-backend-go/internal/models"
	"github.com/trackrec/records-backend-go/internal/spatial"
)

// Range is a closed interval used for linear scaling
type Range struct {
	Min float64
	Max float64
}

// Bounds holds the fixed scaling ranges of the linear slots.
// They are domain constants, not learned from data.
type Bounds struct {
	DistanceKm Range
	GainPerKm  Range
	Sinuosity  Range
}

// DefaultBounds returns the ranges tuned for recreational activity tracks
func DefaultBounds() Bounds {
	return Bounds{
		DistanceKm: Range{Min: 0, Max: 30},
		GainPerKm:  Range{Min: 0, Max: 60},
		Sinuosity:  Range{Min: 1, Max: 3},
	}
}

// neutral encodes an unknown category
const neutral = 0.5

var curvatureScalar = map[models.RouteCurvature]float64{
	models.CurvatureStraight: 0.0,
	models.CurvatureMixed:    0.5,
	models.CurvatureCurvy:    1.0,
}

var terrainScalar = map[models.TerrainCategory]float64{
	models.TerrainFlat:    0.0,
	models.TerrainRolling: 0.5,
	models.TerrainHilly:   1.0,
}

var slotNames = [models.VectorSize]string{
	"distance_km",
	"gain_per_km",
	"sinuosity",
	"start_hour_sin",
	"start_hour_cos",
	"day_of_week_sin",
	"day_of_week_cos",
	"start_lat_sin",
	"start_lat_cos",
	"start_lon_sin",
	"start_lon_cos",
	"route_curvature",
	"terrain",
}

// Vectorizer encodes feature profiles into fixed-length vectors.
type Vectorizer struct {
	bounds Bounds
}

// New creates a vectorizer with the given scaling bounds
func New(bounds Bounds) *Vectorizer {
	return &Vectorizer{bounds: bounds}
}

// NewDefault creates a vectorizer with DefaultBounds
func NewDefault() *Vectorizer {
	return New(DefaultBounds())
}

// Size returns the vector length
func (v *Vectorizer) Size() int {
	return models.VectorSize
}

// SlotNames returns the name of each vector slot in order
func (v *Vectorizer) SlotNames() []string {
	return append([]string(nil), slotNames[:]...)
}

// Vectorize encodes a profile. It never fails: absent values take a fixed
// fallback (0 for scaled slots, hour/day/degree 0 for cyclical slots and 0.5
// for categories).
//
// Hour, weekday and coordinates are cyclical and go through sin/cos pairs so
// that hour 23 stays next to hour 0.
func (v *Vectorizer) Vectorize(p models.FeatureProfile) models.FeatureVector {
	var out models.FeatureVector

	out[0] = scale(p.TotalDistanceKm, v.bounds.DistanceKm)
	out[1] = scale(p.GainPerKm, v.bounds.GainPerKm)
	out[2] = scale(p.SinuosityRatio, v.bounds.Sinuosity)

	out[3], out[4] = spatial.CyclicalEncode(valueOr(p.StartHourOfDay, 0), 24)
	out[5], out[6] = spatial.CyclicalEncode(valueOr(p.DayOfWeek, 0), 7)

	lat := spatial.DegreesToRadians(valueOr(p.StartLatitude, 0))
	lon := spatial.DegreesToRadians(valueOr(p.StartLongitude, 0))
	out[7], out[8] = math.Sin(lat), math.Cos(lat)
	out[9], out[10] = math.Sin(lon), math.Cos(lon)

	out[11] = neutral
	if p.RouteCurvature != nil {
		if s, ok := curvatureScalar[*p.RouteCurvature]; ok {
			out[11] = s
		}
	}
	out[12] = neutral
	if p.Terrain != nil {
		if s, ok := terrainScalar[*p.Terrain]; ok {
			out[12] = s
		}
	}

	return out
}

// VectorizeFeatures encodes a single feature record
func (v *Vectorizer) VectorizeFeatures(f models.TrackFeatures) models.FeatureVector {
	return v.Vectorize(f.Profile())
}

// scale clips value into r and maps it linearly onto [0, 1]
func scale(value *float64, r Range) float64 {
	if value == nil || r.Max <= r.Min || math.IsNaN(*value) {
		return 0
	}
	clipped := math.Max(r.Min, math.Min(r.Max, *value))
	return (clipped - r.Min) / (r.Max - r.Min)
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return fallback
	}
	return *v
}
