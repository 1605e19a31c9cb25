package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveJob(t *testing.T) {
	before := testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues("metrics-test"))
	failedBefore := testutil.ToFloat64(WorkerJobsFailed.WithLabelValues("metrics-test", "CATALOG_UNAVAILABLE"))

	ObserveJob("metrics-test", time.Now(), "")
	ObserveJob("metrics-test", time.Now(), "CATALOG_UNAVAILABLE")

	assert.Equal(t, before+1, testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues("metrics-test")))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(WorkerJobsFailed.WithLabelValues("metrics-test", "CATALOG_UNAVAILABLE")))
}

func TestObserveRecommendations(t *testing.T) {
	before := testutil.ToFloat64(RecommendationsGenerated.WithLabelValues("metrics-test"))

	ObserveRecommendations("metrics-test", []int{90, 75, 60})

	assert.Equal(t, before+3, testutil.ToFloat64(RecommendationsGenerated.WithLabelValues("metrics-test")))
}
