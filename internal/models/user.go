package models

import "time"

// User is a registered uploader. ExternalID is the identity issued by the
// messaging or auth provider (the JWT subject); ID is the internal key.
type User struct {
	ID           int64     `json:"id" db:"id"`
	ExternalID   string    `json:"external_id" db:"external_id"`
	Username     string    `json:"username,omitempty" db:"username"`
	FirstName    string    `json:"first_name,omitempty" db:"first_name"`
	LastName     string    `json:"last_name,omitempty" db:"last_name"`
	LanguageCode string    `json:"language_code,omitempty" db:"language_code"`
	IsBot        bool      `json:"is_bot" db:"is_bot"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
