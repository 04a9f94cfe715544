package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TracksIngestedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trackrec_tracks_ingested_total",
		Help: "Total number of tracks ingested, by source format",
	}, []string{"format"})
	IngestFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trackrec_ingest_failures_total",
		Help: "Total number of failed ingests, by pipeline stage",
	}, []string{"stage"})
	FeatureExtractionSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "trackrec_feature_extraction_seconds",
		Help:    "Time spent building a feature record",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	})
	RecommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trackrec_recommendations_total",
		Help: "Total recommendation requests, by outcome",
	}, []string{"outcome"})
	RecommendationResults = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "trackrec_recommendation_results",
		Help:    "Number of tracks returned per recommendation request",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
	})
	SimilaritySearchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "trackrec_similarity_search_seconds",
		Help:    "Similarity index query duration",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(TracksIngestedTotal)
	prometheus.MustRegister(IngestFailuresTotal)
	prometheus.MustRegister(FeatureExtractionSeconds)
	prometheus.MustRegister(RecommendationsTotal)
	prometheus.MustRegister(RecommendationResults)
	prometheus.MustRegister(SimilaritySearchDuration)
}

// RecordRecommendation counts one recommendation request and its result size
func RecordRecommendation(outcome string, results int) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		RecommendationResults.Observe(float64(results))
	}
}

// RecordIngestFailure counts an ingest that stopped at the given stage
func RecordIngestFailure(stage string) {
	IngestFailuresTotal.WithLabelValues(stage).Inc()
}

// Handler exposes the registered metrics for scraping
func Handler() http.Handler { return promhttp.Handler() }
