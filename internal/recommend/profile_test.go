package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackrec/records-backend-go/internal/models"
)

func curvature(c models.RouteCurvature) *models.RouteCurvature { return &c }

func terrain(t models.TerrainCategory) *models.TerrainCategory { return &t }

func TestAverageProfile_Means(t *testing.T) {
	records := []models.TrackFeatures{
		{TotalDistanceKm: models.Float(10), StartHourOfDay: models.Int(6), MovingSeconds: models.Int64(100)},
		{TotalDistanceKm: models.Float(20), StartHourOfDay: models.Int(9)},
		{TotalDistanceKm: nil, StartHourOfDay: models.Int(9), MovingSeconds: models.Int64(300)},
	}

	p := AverageProfile(records)

	require.NotNil(t, p.TotalDistanceKm)
	assert.InDelta(t, 15.0, *p.TotalDistanceKm, 1e-12, "absent values are not counted")
	assert.InDelta(t, 8.0, *p.StartHourOfDay, 1e-12)
	assert.InDelta(t, 200.0, *p.MovingSeconds, 1e-12)
	assert.Nil(t, p.GainPerKm, "no observations stays absent")
	assert.Nil(t, p.RouteCurvature)
	assert.Equal(t, 3, p.TrackCount)
}

func TestAverageProfile_Mode(t *testing.T) {
	records := []models.TrackFeatures{
		{RouteCurvature: curvature(models.CurvatureCurvy), Terrain: terrain(models.TerrainHilly)},
		{RouteCurvature: curvature(models.CurvatureStraight), Terrain: terrain(models.TerrainFlat)},
		{RouteCurvature: curvature(models.CurvatureStraight)},
		{Terrain: terrain(models.TerrainFlat)},
	}

	p := AverageProfile(records)

	assert.Equal(t, models.CurvatureStraight, *p.RouteCurvature)
	assert.Equal(t, models.TerrainFlat, *p.Terrain)
}

func TestAverageProfile_ModeTieGoesToFirstSeen(t *testing.T) {
	tests := []struct {
		name  string
		order []models.TerrainCategory
		want  models.TerrainCategory
	}{
		{"rolling first", []models.TerrainCategory{models.TerrainRolling, models.TerrainFlat, models.TerrainFlat, models.TerrainRolling}, models.TerrainRolling},
		{"flat first", []models.TerrainCategory{models.TerrainFlat, models.TerrainRolling, models.TerrainRolling, models.TerrainFlat}, models.TerrainFlat},
		{"three way", []models.TerrainCategory{models.TerrainHilly, models.TerrainFlat, models.TerrainRolling}, models.TerrainHilly},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]models.TrackFeatures, len(tt.order))
			for i, c := range tt.order {
				records[i].Terrain = terrain(c)
			}
			assert.Equal(t, tt.want, *AverageProfile(records).Terrain)
		})
	}
}

func TestAverageProfile_Empty(t *testing.T) {
	p := AverageProfile(nil)

	assert.Equal(t, models.FeatureProfile{}, p)
}
