package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorderCounts(t *testing.T) {
	pr := NewPrometheusRecorder(prom.NewRegistry())

	pr.IncTransform("post", ResultSuccess)
	pr.IncTransform("post", ResultSuccess)
	pr.IncTransform("post", ResultSkipped)
	pr.IncDroppedAsset("post")
	pr.IncCacheLookup(true)
	pr.IncCacheLookup(false)
	pr.IncCacheLookup(false)
	pr.IncBuildOutcome("success")

	assert.InDelta(t, 2, testutil.ToFloat64(pr.transforms.WithLabelValues("post", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.transforms.WithLabelValues("post", "skipped")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.droppedAssets.WithLabelValues("post")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(pr.cacheLookups.WithLabelValues("miss")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.buildOutcome.WithLabelValues("success")), 0)
}

func TestPrometheusRecorderHandler(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.ObserveFetchDuration("allPosts", 120*time.Millisecond, true)
	pr.ObserveBuildDuration(time.Second)

	rec := httptest.NewRecorder()
	pr.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "portablepress_fetch_duration_seconds"), "missing fetch histogram")
	assert.True(t, strings.Contains(body, "portablepress_build_duration_seconds"), "missing build histogram")
}

func TestNilRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncTransform("post", ResultSuccess)
	pr.ObserveBuildDuration(time.Second)

	assert.Equal(t, NoopRecorder{}, OrNoop(nil))
}
