package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/trackrec/records-backend-go/internal/metrics"
	"github.com/trackrec/records-backend-go/internal/models"
)

// ErrInvalidTopK is returned when the requested result count is not positive
var ErrInvalidTopK = errors.New("top_k must be positive")

// ErrSearchFailed wraps errors returned by the similarity index
var ErrSearchFailed = errors.New("similarity search failed")

// overFetch multiplies the index limit so that dropping the requester's own
// tracks usually still leaves TopK results
const overFetch = 2

// Request is a single recommendation query
type Request struct {
	ExternalUserID    string
	TopK              int
	IncludeOtherUsers bool
}

// Engine recommends routes similar to a user's history.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	users      UserResolver
	features   FeatureStore
	index      SimilarityIndex
	vectorizer Vectorizer
	logger     zerolog.Logger
}

// NewEngine creates a recommendation engine over the given collaborators
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewEngine(users UserResolver, features FeatureStore, index SimilarityIndex, vectorizer Vectorizer, logger zerolog.Logger) *Engine {
	return &Engine{
		users:      users,
		features:   features,
		index:      index,
		vectorizer: vectorizer,
		logger:     logger.With().Str("component", "recommend").Logger(),
	}
}

// Recommend returns up to req.TopK tracks ranked by similarity to the
// average of the requester's tracks. Unknown users and users without
// history get an empty list.
func (e *Engine) Recommend(ctx context.Context, req Request) ([]models.Recommendation, error) {
	if req.TopK <= 0 {
		return nil, ErrInvalidTopK
	}

	userID, ok, err := e.users.ResolveID(ctx, req.ExternalUserID)
	if err != nil {
		metrics.RecordRecommendation("error", 0)
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	if !ok {
		metrics.RecordRecommendation("unknown_user", 0)
		return []models.Recommendation{}, nil
	}

	history, err := e.features.ListByUser(ctx, userID)
	if err != nil {
		metrics.RecordRecommendation("error", 0)
		return nil, fmt.Errorf("failed to load track features: %w", err)
	}
	if len(history) == 0 {
		metrics.RecordRecommendation("no_history", 0)
		return []models.Recommendation{}, nil
	}

	query := e.vectorizer.Vectorize(AverageProfile(history))

	var filter *int64
	if !req.IncludeOtherUsers {
		filter = &userID
	}

	start := time.Now()
	neighbours, err := e.index.Search(ctx, query, req.TopK*overFetch, filter)
	metrics.SimilaritySearchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RecordRecommendation("error", 0)
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	own := make(map[string]struct{}, len(history))
	for _, f := range history {
		own[f.TrackID] = struct{}{}
	}

	results := make([]models.Recommendation, 0, req.TopK)
	for _, n := range neighbours {
		if !req.IncludeOtherUsers {
			if _, mine := own[n.TrackID]; mine {
				continue
			}
		}
		results = append(results, n)
		if len(results) == req.TopK {
			break
		}
	}

	e.logger.Debug().
		Int64("user_id", userID).
		Int("history", len(history)).
		Int("candidates", len(neighbours)).
		Int("results", len(results)).
		Bool("include_other_users", req.IncludeOtherUsers).
		Msg("recommendations computed")
	metrics.RecordRecommendation("ok", len(results))

	return results, nil
}
