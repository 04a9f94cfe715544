package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackrec/records-backend-go/internal/models"
	"github.com/trackrec/records-backend-go/internal/vectorize"
)

type fakeUsers map[string]int64

func (f fakeUsers) ResolveID(_ context.Context, externalID string) (int64, bool, error) {
	id, ok := f[externalID]
	return id, ok, nil
}

type fakeStore map[int64][]models.TrackFeatures

func (f fakeStore) ListByUser(_ context.Context, userID int64) ([]models.TrackFeatures, error) {
	return f[userID], nil
}

type fakeIndex struct {
	results []models.Recommendation
	err     error

	calls      int
	lastLimit  int
	lastFilter *int64
}

func (f *fakeIndex) Search(_ context.Context, _ models.FeatureVector, limit int, userFilter *int64) ([]models.Recommendation, error) {
	f.calls++
	f.lastLimit = limit
	f.lastFilter = userFilter
	return f.results, f.err
}

func hits(ids ...string) []models.Recommendation {
	out := make([]models.Recommendation, len(ids))
	for i, id := range ids {
		out[i] = models.Recommendation{TrackID: id, Score: 1 - float64(i)*0.1}
	}
	return out
}

func trackIDs(recs []models.Recommendation) []string {
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.TrackID
	}
	return ids
}

func newEngine(index SimilarityIndex) *Engine {
	users := fakeUsers{"100": 1}
	store := fakeStore{1: {
		{TrackID: "A", UserID: 1, TotalDistanceKm: models.Float(10)},
		{TrackID: "B", UserID: 1, TotalDistanceKm: models.Float(20)},
	}}
	return NewEngine(users, store, index, vectorize.NewDefault(), zerolog.Nop())
}

func TestRecommend_DropsOwnTracks(t *testing.T) {
	index := &fakeIndex{results: hits("A", "C", "B", "D")}
	engine := newEngine(index)

	got, err := engine.Recommend(context.Background(), Request{ExternalUserID: "100", TopK: 2})

	require.NoError(t, err)
	assert.Equal(t, []string{"C", "D"}, trackIDs(got))
	assert.Equal(t, 4, index.lastLimit)
	require.NotNil(t, index.lastFilter)
	assert.Equal(t, int64(1), *index.lastFilter)
}

func TestRecommend_IncludeOtherUsers(t *testing.T) {
	index := &fakeIndex{results: hits("A", "C", "B", "D")}
	engine := newEngine(index)

	got, err := engine.Recommend(context.Background(), Request{ExternalUserID: "100", TopK: 3, IncludeOtherUsers: true})

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "B"}, trackIDs(got))
	assert.Nil(t, index.lastFilter)
	assert.Equal(t, 6, index.lastLimit)
}

func TestRecommend_ShortListReturnedAsIs(t *testing.T) {
	index := &fakeIndex{results: hits("A", "C")}
	engine := newEngine(index)

	got, err := engine.Recommend(context.Background(), Request{ExternalUserID: "100", TopK: 5})

	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, trackIDs(got))
	assert.Equal(t, 1, index.calls)
}

func TestRecommend_PreservesScores(t *testing.T) {
	index := &fakeIndex{results: []models.Recommendation{
		{TrackID: "C", Score: 0.93, Payload: map[string]any{"terrain": "flat"}},
		{TrackID: "D", Score: -0.2},
	}}
	engine := newEngine(index)

	got, err := engine.Recommend(context.Background(), Request{ExternalUserID: "100", TopK: 2})

	require.NoError(t, err)
	assert.Equal(t, index.results, got)
}

func TestRecommend_EmptyHistory(t *testing.T) {
	index := &fakeIndex{results: hits("X")}
	engine := NewEngine(fakeUsers{"100": 1}, fakeStore{}, index, vectorize.NewDefault(), zerolog.Nop())

	got, err := engine.Recommend(context.Background(), Request{ExternalUserID: "100", TopK: 5})

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, index.calls)
}

func TestRecommend_UnknownUser(t *testing.T) {
	index := &fakeIndex{results: hits("X")}
	engine := newEngine(index)

	got, err := engine.Recommend(context.Background(), Request{ExternalUserID: "999", TopK: 5})

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, index.calls)
}

func TestRecommend_InvalidTopK(t *testing.T) {
	engine := newEngine(&fakeIndex{})

	for _, k := range []int{0, -3} {
		_, err := engine.Recommend(context.Background(), Request{ExternalUserID: "100", TopK: k})
		assert.ErrorIs(t, err, ErrInvalidTopK)
	}
}

func TestRecommend_IndexFailure(t *testing.T) {
	unavailable := errors.New("connection refused")
	engine := newEngine(&fakeIndex{err: unavailable})

	_, err := engine.Recommend(context.Background(), Request{ExternalUserID: "100", TopK: 5})

	assert.ErrorIs(t, err, unavailable)
	assert.ErrorIs(t, err, ErrSearchFailed)
}

type brokenStore struct{}

func (brokenStore) ListByUser(context.Context, int64) ([]models.TrackFeatures, error) {
	return nil, errors.New("database is locked")
}

func TestRecommend_StoreFailureIsNotASearchFailure(t *testing.T) {
	index := &fakeIndex{}
	engine := NewEngine(fakeUsers{"100": 1}, brokenStore{}, index, vectorize.NewDefault(), zerolog.Nop())

	_, err := engine.Recommend(context.Background(), Request{ExternalUserID: "100", TopK: 5})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSearchFailed)
	assert.Zero(t, index.calls)
}
