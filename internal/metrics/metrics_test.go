package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRecommendation(t *testing.T) {
	before := testutil.ToFloat64(RecommendationsTotal.WithLabelValues("no_history"))

	RecordRecommendation("no_history", 0)

	assert.Equal(t, before+1, testutil.ToFloat64(RecommendationsTotal.WithLabelValues("no_history")))
}

func TestRecordIngestFailure(t *testing.T) {
	before := testutil.ToFloat64(IngestFailuresTotal.WithLabelValues("parse"))

	RecordIngestFailure("parse")
	RecordIngestFailure("parse")

	assert.Equal(t, before+2, testutil.ToFloat64(IngestFailuresTotal.WithLabelValues("parse")))
}
