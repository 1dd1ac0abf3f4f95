package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(jobsCreatedTotal.WithLabelValues("markitdown"))
	IncJobsCreated("markitdown")
	assert.Equal(t, before+1, testutil.ToFloat64(jobsCreatedTotal.WithLabelValues("markitdown")))

	beforeFailed := testutil.ToFloat64(jobsFailedTotal)
	IncJobsFailed()
	assert.Equal(t, beforeFailed+1, testutil.ToFloat64(jobsFailedTotal))
}

func TestQueueDepthGauge(t *testing.T) {
	SetQueueDepth(7)
	assert.Equal(t, float64(7), testutil.ToFloat64(queueDepth))
}

func TestHandlerRendersPrometheusText(t *testing.T) {
	IncJobsStarted()
	ObserveJobDuration("mineru", "succeeded", 3*time.Second)

	rec := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "jobs_started_total"), "missing jobs_started_total")
	assert.True(t, strings.Contains(body, `job_duration_seconds_bucket{engine="mineru",status="succeeded"`), "missing histogram")
}
