package parser

import (
	"fmt"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/trackrec/records-backend-go/internal/models"
)

// ParseGPX reads every track segment of a GPX document. Routes are used
// only when the file has no track points.
func ParseGPX(blob []byte) (models.RawTrack, error) {
	doc, err := gpx.ParseBytes(blob)
	if err != nil {
		return models.RawTrack{}, fmt.Errorf("%w: failed to parse gpx: %w", ErrMalformedTrack, err)
	}

	var track models.RawTrack
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			if len(seg.Points) == 0 {
				continue
			}
			track.Segments = append(track.Segments, gpxSegment(seg.Points))
		}
	}
	if track.PointCount() == 0 {
		for _, rte := range doc.Routes {
			if len(rte.Points) == 0 {
				continue
			}
			track.Segments = append(track.Segments, gpxSegment(rte.Points))
		}
	}
	return track, nil
}

func gpxSegment(points []gpx.GPXPoint) models.Segment {
	seg := make(models.Segment, 0, len(points))
	for _, p := range points {
		rp := models.RawPoint{
			Latitude:  models.Float(p.Latitude),
			Longitude: models.Float(p.Longitude),
		}
		if p.Elevation.NotNull() {
			rp.Elevation = models.Float(p.Elevation.Value())
		}
		if !p.Timestamp.IsZero() {
			rp.Time = models.Time(p.Timestamp)
		}
		seg = append(seg, rp)
	}
	return seg
}
