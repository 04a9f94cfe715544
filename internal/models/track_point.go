package models

import "time"

// RawPoint is one recorded GPS sample as produced by a file parser.
// Nil fields were not present in the source file.
type RawPoint struct {
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
	Elevation *float64   `json:"elevation,omitempty"` // meters
	Time      *time.Time `json:"time,omitempty"`      // UTC
}

// Positioned reports whether both coordinates are present.
func (p RawPoint) Positioned() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// Segment is an ordered run of points without recording gaps
type Segment []RawPoint

// RawTrack is the parsed content of one uploaded activity file.
type RawTrack struct {
	Segments []Segment `json:"segments"`
}

// PointCount returns the number of points across all segments
func (t RawTrack) PointCount() int {
	n := 0
	for _, seg := range t.Segments {
		n += len(seg)
	}
	return n
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

// Time returns a pointer to t converted to UTC.
func Time(t time.Time) *time.Time {
	u := t.UTC()
	return &u
}

// String returns a pointer to s.
func String(s string) *string { return &s }
