package parser

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/tormoder/fit"

	"github.com/trackrec/records-backend-go/internal/models"
)

// fitEpoch is the FIT time origin; timestamps at or before it are unset
var fitEpoch = time.Date(1989, time.December, 31, 0, 0, 0, 0, time.UTC)

// ParseFIT reads the record messages of a FIT activity as one segment.
func ParseFIT(blob []byte) (models.RawTrack, error) {
	decoded, err := fit.Decode(bytes.NewReader(blob))
	if err != nil {
		return models.RawTrack{}, fmt.Errorf("%w: failed to decode fit: %w", ErrMalformedTrack, err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return models.RawTrack{}, fmt.Errorf("%w: failed to read fit activity: %w", ErrMalformedTrack, err)
	}
	return fitTrack(activity.Records), nil
}

func fitTrack(records []*fit.RecordMsg) models.RawTrack {
	seg := make(models.Segment, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		var p models.RawPoint
		if !r.PositionLat.Invalid() && !r.PositionLong.Invalid() {
			p.Latitude = models.Float(r.PositionLat.Degrees())
			p.Longitude = models.Float(r.PositionLong.Degrees())
		}
		if alt := fitAltitude(r); !math.IsNaN(alt) {
			p.Elevation = models.Float(alt)
		}
		if r.Timestamp.After(fitEpoch) {
			p.Time = models.Time(r.Timestamp)
		}
		seg = append(seg, p)
	}
	if len(seg) == 0 {
		return models.RawTrack{}
	}
	return models.RawTrack{Segments: []models.Segment{seg}}
}

// fitAltitude prefers the enhanced altitude field
func fitAltitude(r *fit.RecordMsg) float64 {
	if alt := r.GetEnhancedAltitudeScaled(); !math.IsNaN(alt) {
		return alt
	}
	return r.GetAltitudeScaled()
}
