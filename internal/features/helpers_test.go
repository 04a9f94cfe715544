package features

import (
	"time"

	"github.com/trackrec/records-backend-go/internal/models"
	"github.com/trackrec/records-backend-go/internal/spatial"
)

// metersPerDegreeLat is the length of one degree of latitude on the haversine sphere
var metersPerDegreeLat = spatial.EarthRadiusMeters * spatial.DegreesToRadians(1)

var baseTime = time.Date(2025, 10, 24, 13, 58, 23, 0, time.UTC) // a Friday

func pos(lat, lon float64) models.RawPoint {
	return models.RawPoint{Latitude: models.Float(lat), Longitude: models.Float(lon)}
}

func posEle(lat, lon, ele float64) models.RawPoint {
	p := pos(lat, lon)
	p.Elevation = models.Float(ele)
	return p
}

func at(p models.RawPoint, t time.Time) models.RawPoint {
	p.Time = models.Time(t)
	return p
}

func track(segments ...models.Segment) models.RawTrack {
	return models.RawTrack{Segments: segments}
}

// northwardLine returns n points walking north from (lat, lon) in steps of
// stepMeters, one every interval, carrying the given elevations when provided.
func northwardLine(lat, lon float64, n int, stepMeters float64, interval time.Duration, elevations []float64) models.Segment {
	seg := make(models.Segment, n)
	step := stepMeters / metersPerDegreeLat
	for i := 0; i < n; i++ {
		p := pos(lat+float64(i)*step, lon)
		if i < len(elevations) {
			p.Elevation = models.Float(elevations[i])
		}
		if interval > 0 {
			p.Time = models.Time(baseTime.Add(time.Duration(i) * interval))
		}
		seg[i] = p
	}
	return seg
}

func fixedClock() time.Time {
	return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
}
