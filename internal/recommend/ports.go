package recommend

import (
	"context"

	"github.com/trackrec/records-backend-go/internal/models"
)

// UserResolver maps an external account id to the internal user id.
// ok is false when the user has never been seen.
type UserResolver interface {
	ResolveID(ctx context.Context, externalID string) (id int64, ok bool, err error)
}

// FeatureStore returns the stored feature records of a user.
type FeatureStore interface {
	ListByUser(ctx context.Context, userID int64) ([]models.TrackFeatures, error)
}

// SimilarityIndex runs nearest-neighbour queries over track vectors.
// Results are ordered by descending score. A non-nil userFilter restricts
// the search to that user's tracks.
type SimilarityIndex interface {
	Search(ctx context.Context, vector models.FeatureVector, limit int, userFilter *int64) ([]models.Recommendation, error)
}

// Vectorizer encodes an averaged profile
type Vectorizer interface {
	Vectorize(p models.FeatureProfile) models.FeatureVector
}
