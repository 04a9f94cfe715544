package recommend

import (
	"gonum.org/v1/gonum/stat"

	"github.com/trackrec/records-backend-go/internal/models"
)

// AverageProfile folds a user's feature records into one profile.
//
// Numeric fields take the arithmetic mean of their present values. The two
// categories take the most frequent present value, ties going to the value
// seen first. A field with no observations stays absent.
func AverageProfile(records []models.TrackFeatures) models.FeatureProfile {
	profiles := make([]models.FeatureProfile, len(records))
	for i, r := range records {
		profiles[i] = r.Profile()
	}

	field := func(get func(models.FeatureProfile) *float64) *float64 {
		values := make([]float64, 0, len(profiles))
		for _, p := range profiles {
			if v := get(p); v != nil {
				values = append(values, *v)
			}
		}
		if len(values) == 0 {
			return nil
		}
		return models.Float(stat.Mean(values, nil))
	}

	avg := models.FeatureProfile{
		StartHourOfDay:         field(func(p models.FeatureProfile) *float64 { return p.StartHourOfDay }),
		DayOfWeek:              field(func(p models.FeatureProfile) *float64 { return p.DayOfWeek }),
		StartLatitude:          field(func(p models.FeatureProfile) *float64 { return p.StartLatitude }),
		StartLongitude:         field(func(p models.FeatureProfile) *float64 { return p.StartLongitude }),
		EndLatitude:            field(func(p models.FeatureProfile) *float64 { return p.EndLatitude }),
		EndLongitude:           field(func(p models.FeatureProfile) *float64 { return p.EndLongitude }),
		TotalDistanceKm:        field(func(p models.FeatureProfile) *float64 { return p.TotalDistanceKm }),
		StraightLineDistanceKm: field(func(p models.FeatureProfile) *float64 { return p.StraightLineDistanceKm }),
		SinuosityRatio:         field(func(p models.FeatureProfile) *float64 { return p.SinuosityRatio }),
		ElevationGainM:         field(func(p models.FeatureProfile) *float64 { return p.ElevationGainM }),
		ElevationLossM:         field(func(p models.FeatureProfile) *float64 { return p.ElevationLossM }),
		GainPerKm:              field(func(p models.FeatureProfile) *float64 { return p.GainPerKm }),
		ElapsedSeconds:         field(func(p models.FeatureProfile) *float64 { return p.ElapsedSeconds }),
		MovingSeconds:          field(func(p models.FeatureProfile) *float64 { return p.MovingSeconds }),
		StoppedSeconds:         field(func(p models.FeatureProfile) *float64 { return p.StoppedSeconds }),
		AvgSpeedKmh:            field(func(p models.FeatureProfile) *float64 { return p.AvgSpeedKmh }),
		MaxSpeedKmh:            field(func(p models.FeatureProfile) *float64 { return p.MaxSpeedKmh }),
		TrackCount:             len(records),
	}

	var curvatures []models.RouteCurvature
	var terrains []models.TerrainCategory
	for _, r := range records {
		if r.RouteCurvature != nil {
			curvatures = append(curvatures, *r.RouteCurvature)
		}
		if r.Terrain != nil {
			terrains = append(terrains, *r.Terrain)
		}
	}
	avg.RouteCurvature = mode(curvatures)
	avg.Terrain = mode(terrains)

	return avg
}

// mode returns the most frequent value; the earliest one wins a tie
func mode[T comparable](values []T) *T {
	if len(values) == 0 {
		return nil
	}
	counts := make(map[T]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	best := values[0]
	for _, v := range values {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return &best
}
