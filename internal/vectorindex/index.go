// Package vectorindex stores track vectors for nearest-neighbour search.
package vectorindex

import (
	"context"

	"github.com/trackrec/records-backend-go/internal/models"
)

// Payload is the metadata stored next to a track vector
type Payload map[string]any

// PayloadUserID is the payload key used for per-user filtering
const PayloadUserID = "user_id"

// Index is a cosine-similarity vector index
type Index interface {
	// EnsureCollection prepares storage for vectors of the given size
	EnsureCollection(ctx context.Context, size int) error
	// Upsert inserts or replaces the vector of a track
	Upsert(ctx context.Context, trackID string, vector models.FeatureVector, payload Payload) error
	// Search returns up to limit neighbours by descending similarity
	Search(ctx context.Context, vector models.FeatureVector, limit int, userFilter *int64) ([]models.Recommendation, error)
	Close() error
}
