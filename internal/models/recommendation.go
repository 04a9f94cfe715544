package models

// Recommendation is one ranked neighbour returned by the similarity index
type Recommendation struct {
	TrackID string         `json:"track_id"`
	Score   float64        `json:"score"` // cosine similarity, higher is closer
	Payload map[string]any `json:"payload,omitempty"`
}
