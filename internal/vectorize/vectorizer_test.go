package vectorize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackrec/records-backend-go/internal/models"
)

func TestVectorize_EmptyProfileFallbacks(t *testing.T) {
	v := NewDefault()

	got := v.Vectorize(models.FeatureProfile{})

	want := models.FeatureVector{
		0, 0, 0, // scaled slots
		0, 1, // hour 0
		0, 1, // day 0
		0, 1, // latitude 0
		0, 1, // longitude 0
		0.5, 0.5, // unknown categories
	}
	assert.Equal(t, want, got)
}

func TestVectorize_LinearSlots(t *testing.T) {
	tests := []struct {
		name  string
		prof  models.FeatureProfile
		slot  int
		value float64
	}{
		{"distance lower bound", models.FeatureProfile{TotalDistanceKm: models.Float(0)}, 0, 0},
		{"distance midpoint", models.FeatureProfile{TotalDistanceKm: models.Float(15)}, 0, 0.5},
		{"distance upper bound", models.FeatureProfile{TotalDistanceKm: models.Float(30)}, 0, 1},
		{"distance clipped", models.FeatureProfile{TotalDistanceKm: models.Float(120)}, 0, 1},
		{"gain per km", models.FeatureProfile{GainPerKm: models.Float(15)}, 1, 0.25},
		{"gain per km clipped", models.FeatureProfile{GainPerKm: models.Float(-4)}, 1, 0},
		{"sinuosity straight", models.FeatureProfile{SinuosityRatio: models.Float(1)}, 2, 0},
		{"sinuosity", models.FeatureProfile{SinuosityRatio: models.Float(1.5)}, 2, 0.25},
		{"sinuosity clipped", models.FeatureProfile{SinuosityRatio: models.Float(40)}, 2, 1},
	}

	v := NewDefault()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Vectorize(tt.prof)
			assert.InDelta(t, tt.value, got[tt.slot], 1e-12)
		})
	}
}

func TestVectorize_Categories(t *testing.T) {
	v := NewDefault()
	curvy := models.CurvatureCurvy
	straight := models.CurvatureStraight
	rolling := models.TerrainRolling
	hilly := models.TerrainHilly
	unknown := models.TerrainCategory("alpine")

	assert.Equal(t, 1.0, v.Vectorize(models.FeatureProfile{RouteCurvature: &curvy})[11])
	assert.Equal(t, 0.0, v.Vectorize(models.FeatureProfile{RouteCurvature: &straight})[11])
	assert.Equal(t, 0.5, v.Vectorize(models.FeatureProfile{Terrain: &rolling})[12])
	assert.Equal(t, 1.0, v.Vectorize(models.FeatureProfile{Terrain: &hilly})[12])
	assert.Equal(t, 0.5, v.Vectorize(models.FeatureProfile{Terrain: &unknown})[12])
}

func TestVectorize_HourIsCyclical(t *testing.T) {
	v := NewDefault()
	hourPair := func(h float64) (float64, float64) {
		vec := v.Vectorize(models.FeatureProfile{StartHourOfDay: models.Float(h)})
		return vec[3], vec[4]
	}

	s0, c0 := hourPair(0)
	s23, c23 := hourPair(23)
	s12, c12 := hourPair(12)

	near := math.Hypot(s23-s0, c23-c0)
	far := math.Hypot(s12-s0, c12-c0)
	assert.Less(t, near, far)
	assert.InDelta(t, 2.0, far, 1e-12)
}

func TestVectorize_ComponentRanges(t *testing.T) {
	v := NewDefault()
	mixed := models.CurvatureMixed
	flat := models.TerrainFlat
	profiles := []models.FeatureProfile{
		{},
		{
			TotalDistanceKm: models.Float(1e6),
			GainPerKm:       models.Float(-30),
			SinuosityRatio:  models.Float(0.2),
			StartHourOfDay:  models.Float(17.5),
			DayOfWeek:       models.Float(6),
			StartLatitude:   models.Float(-89.9),
			StartLongitude:  models.Float(179.99),
			RouteCurvature:  &mixed,
			Terrain:         &flat,
		},
		{TotalDistanceKm: models.Float(math.NaN())},
	}

	for _, p := range profiles {
		vec := v.Vectorize(p)
		require.Len(t, vec.Slice(), v.Size())
		for i, x := range vec {
			switch i {
			case 3, 4, 5, 6, 7, 8, 9, 10:
				assert.True(t, x >= -1 && x <= 1, "slot %s = %v", v.SlotNames()[i], x)
			default:
				assert.True(t, x >= 0 && x <= 1, "slot %s = %v", v.SlotNames()[i], x)
			}
		}
	}
}

func TestVectorizeFeatures(t *testing.T) {
	v := NewDefault()
	f := models.TrackFeatures{
		TotalDistanceKm: models.Float(6),
		StartHourOfDay:  models.Int(6),
		DayOfWeek:       models.Int(4),
	}

	vec := v.VectorizeFeatures(f)

	assert.InDelta(t, 0.2, vec[0], 1e-12)
	assert.InDelta(t, 1.0, vec[3], 1e-12) // sin(pi/2)
	assert.InDelta(t, math.Sin(2*math.Pi*4/7), vec[5], 1e-12)
}

func TestSlotNames(t *testing.T) {
	v := NewDefault()
	names := v.SlotNames()
	require.Len(t, names, 13)
	assert.Equal(t, "distance_km", names[0])
	assert.Equal(t, "terrain", names[12])

	names[0] = "changed"
	assert.Equal(t, "distance_km", v.SlotNames()[0])
}
