package vectorindex

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/trackrec/records-backend-go/internal/models"
)

type memoryPoint struct {
	id      string
	vector  []float64
	norm    float64
	payload Payload
}

// Memory is a brute-force in-process index. It is safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	size   int
	points []*memoryPoint
	byID   map[string]*memoryPoint
}

// NewMemory creates an empty in-memory index
func NewMemory() *Memory {
	return &Memory{byID: make(map[string]*memoryPoint)}
}

// EnsureCollection fixes the vector size on first call
func (m *Memory) EnsureCollection(_ context.Context, size int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.size != 0 && m.size != size {
		return fmt.Errorf("collection already holds vectors of size %d, not %d", m.size, size)
	}
	m.size = size
	return nil
}

// Upsert stores or replaces a track vector
func (m *Memory) Upsert(_ context.Context, trackID string, vector models.FeatureVector, payload Payload) error {
	v := vector.Slice()
	p := &memoryPoint{id: trackID, vector: v, norm: floats.Norm(v, 2), payload: copyPayload(payload)}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.byID[trackID]; ok {
		*existing = *p
		return nil
	}
	m.byID[trackID] = p
	m.points = append(m.points, p)
	return nil
}

// Search scores every stored vector. Ties keep insertion order.
func (m *Memory) Search(_ context.Context, vector models.FeatureVector, limit int, userFilter *int64) ([]models.Recommendation, error) {
	if limit <= 0 {
		return []models.Recommendation{}, nil
	}
	q := vector.Slice()
	qNorm := floats.Norm(q, 2)

	m.mu.RLock()
	results := make([]models.Recommendation, 0, len(m.points))
	for _, p := range m.points {
		if userFilter != nil && !matchesUser(p.payload, *userFilter) {
			continue
		}
		var score float64
		if qNorm > 0 && p.norm > 0 {
			score = floats.Dot(q, p.vector) / (qNorm * p.norm)
		}
		results = append(results, models.Recommendation{
			TrackID: p.id,
			Score:   score,
			Payload: copyPayload(p.payload),
		})
	}
	m.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Len returns the number of stored vectors
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.points)
}

func (m *Memory) Close() error { return nil }

func matchesUser(p Payload, userID int64) bool {
	switch v := p[PayloadUserID].(type) {
	case int64:
		return v == userID
	case int:
		return int64(v) == userID
	default:
		return false
	}
}

func copyPayload(p Payload) Payload {
	if p == nil {
		return nil
	}
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
