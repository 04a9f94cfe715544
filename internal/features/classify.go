package features

import (
	"strconv"
	"strings"

	"github.com/trackrec/records-backend-go/internal/models"
)

// Classification thresholds
const (
	StraightSinuosityMax = 1.05 // below: straight
	CurvySinuosityMin    = 1.15 // above: curvy

	FlatGainPerKmMax  = 10.0 // below: flat
	HillyGainPerKmMin = 30.0 // above: hilly
)

// ClassifyCurvature buckets a sinuosity ratio; nil in, nil out.
func ClassifyCurvature(sinuosity *float64) *models.RouteCurvature {
	if sinuosity == nil {
		return nil
	}
	c := models.CurvatureMixed
	switch {
	case *sinuosity < StraightSinuosityMax:
		c = models.CurvatureStraight
	case *sinuosity > CurvySinuosityMin:
		c = models.CurvatureCurvy
	}
	return &c
}

// ClassifyTerrain buckets elevation gain per kilometer; nil in, nil out.
func ClassifyTerrain(gainPerKm *float64) *models.TerrainCategory {
	if gainPerKm == nil {
		return nil
	}
	t := models.TerrainRolling
	switch {
	case *gainPerKm < FlatGainPerKmMax:
		t = models.TerrainFlat
	case *gainPerKm > HillyGainPerKmMin:
		t = models.TerrainHilly
	}
	return &t
}

// StartAreaID builds the coarse "lat:lon" bucket key of a start position.
// Different starts rounding to the same key share an area on purpose.
func StartAreaID(lat, lon *float64, precision int) *string {
	if lat == nil || lon == nil {
		return nil
	}
	key := areaCoord(round(*lat, precision)) + ":" + areaCoord(round(*lon, precision))
	return &key
}

// areaCoord prints the shortest decimal form, keeping ".0" on whole
// degrees so keys read "46.0:7.0" rather than "46:7"
func areaCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
