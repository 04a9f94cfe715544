package models

import "time"

// Track is the metadata row stored for every uploaded file
type Track struct {
	ID        string    `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Filename  string    `json:"filename" db:"filename"`
	Format    string    `json:"format" db:"format"` // gpx, fit, tcx
	Source    string    `json:"source" db:"source"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Summary copied from the feature record for listing
	DistanceKm     *float64 `json:"distance_km,omitempty" db:"distance_km"`
	DurationS      *int64   `json:"duration_s,omitempty" db:"duration_s"`
	ElevationGainM *float64 `json:"elevation_gain_m,omitempty" db:"elevation_gain_m"`
}

// TrackListResponse is the paginated listing of a user's tracks
type TrackListResponse struct {
	Data       []Track `json:"data"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalPages int     `json:"total_pages"`
}
