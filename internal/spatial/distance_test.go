package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	t.Run("same point is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, HaversineDistance(51.5, -0.12, 51.5, -0.12))
	})

	t.Run("0.1 degree of latitude", func(t *testing.T) {
		// 0.1 degree north ~ 11.12 km on a 6371 km sphere
		dist := HaversineDistance(46.0, 7.0, 46.1, 7.0)
		assert.InDelta(t, 11119.5, dist, 1.0)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := HaversineDistance(48.8566, 2.3522, 52.52, 13.405)
		b := HaversineDistance(52.52, 13.405, 48.8566, 2.3522)
		assert.InDelta(t, a, b, 1e-6)
		// Paris to Berlin is roughly 878 km
		assert.InDelta(t, 878000, a, 5000)
	})
}

func TestDistance3D(t *testing.T) {
	flat := HaversineDistance(46.0, 7.0, 46.001, 7.0)
	withClimb := Distance3D(46.0, 7.0, 100, 46.001, 7.0, 150)
	assert.InDelta(t, math.Hypot(flat, 50), withClimb, 1e-9)
	assert.Greater(t, withClimb, flat)
}

func TestEncodeGeohash(t *testing.T) {
	tests := []struct {
		name      string
		lat, lon  float64
		precision int
		want      string
	}{
		{"wikipedia example", 42.605, -5.603, 5, "ezs42"},
		{"eleven characters", 57.64911, 10.40744, 11, "u4pruydqqvj"},
		{"minimum precision", 57.64911, 10.40744, 0, "u"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeGeohash(tt.lat, tt.lon, tt.precision))
		})
	}

	t.Run("precision clamped to 12", func(t *testing.T) {
		assert.Len(t, EncodeGeohash(57.64911, 10.40744, 20), 12)
	})
}

func TestCyclicalEncode(t *testing.T) {
	s, c := CyclicalEncode(0, 24)
	assert.InDelta(t, 0, s, 1e-12)
	assert.InDelta(t, 1, c, 1e-12)

	s, c = CyclicalEncode(6, 24)
	assert.InDelta(t, 1, s, 1e-12)
	assert.InDelta(t, 0, c, 1e-12)
}
