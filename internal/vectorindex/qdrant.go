package vectorindex

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
	"github.com/rs/zerolog"

	"github.com/trackrec/records-backend-go/internal/models"
)

// QdrantConfig holds connection settings for a Qdrant server
type QdrantConfig struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
}

// Qdrant stores vectors in a Qdrant collection over gRPC.
type Qdrant struct {
	client     *qdrant.Client
	collection string
	logger     zerolog.Logger
}

// NewQdrant connects to a Qdrant server
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewQdrant(cfg QdrantConfig, logger zerolog.Logger) (*Qdrant, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}
	return &Qdrant{
		client:     client,
		collection: cfg.Collection,
		logger:     logger.With().Str("component", "qdrant").Str("collection", cfg.Collection).Logger(),
	}, nil
}

// EnsureCollection creates the cosine collection when it does not exist yet.
// An existing collection is left untouched.
func (q *Qdrant) EnsureCollection(ctx context.Context, size int) error {
	exists, err := q.client.CollectionExists(ctx, q.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(size),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	q.logger.Info().Int("size", size).Msg("created vector collection")
	return nil
}

// Upsert writes a track vector keyed by its UUID
func (q *Qdrant) Upsert(ctx context.Context, trackID string, vector models.FeatureVector, payload Payload) error {
	values, err := qdrant.TryValueMap(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	_, err = q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collection,
		Wait:           qdrant.PtrOf(true),
		Points: []*qdrant.PointStruct{{
			Id:      qdrant.NewID(trackID),
			Vectors: qdrant.NewVectors(toFloat32(vector)...),
			Payload: values,
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert vector: %w", err)
	}
	return nil
}

// Search queries the nearest neighbours of vector
func (q *Qdrant) Search(ctx context.Context, vector models.FeatureVector, limit int, userFilter *int64) ([]models.Recommendation, error) {
	if limit <= 0 {
		return []models.Recommendation{}, nil
	}

	req := &qdrant.QueryPoints{
		CollectionName: q.collection,
		Query:          qdrant.NewQuery(toFloat32(vector)...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if userFilter != nil {
		req.Filter = &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatchInt(PayloadUserID, *userFilter)},
		}
	}

	points, err := q.client.Query(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}

	results := make([]models.Recommendation, 0, len(points))
	for _, p := range points {
		results = append(results, models.Recommendation{
			TrackID: pointID(p.GetId()),
			Score:   float64(p.GetScore()),
			Payload: fromValueMap(p.GetPayload()),
		})
	}
	return results, nil
}

// Close releases the gRPC connection
func (q *Qdrant) Close() error {
	return q.client.Close()
}

func toFloat32(v models.FeatureVector) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

func pointID(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	if u := id.GetUuid(); u != "" {
		return u
	}
	return fmt.Sprintf("%d", id.GetNum())
}

func fromValueMap(m map[string]*qdrant.Value) map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = fromValue(v)
	}
	return out
}

func fromValue(v *qdrant.Value) any {
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_StructValue:
		return fromValueMap(kind.StructValue.GetFields())
	case *qdrant.Value_ListValue:
		items := kind.ListValue.GetValues()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = fromValue(item)
		}
		return out
	default:
		return nil
	}
}
