package metrics

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GarrettC14/NutritionRx-sub008/internal/domain"
)

func TestCollector_CacheLookup(t *testing.T) {
	c := NewCollector("test")

	c.CacheLookup("search", true)
	c.CacheLookup("search", false)
	c.CacheLookup("search", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.CacheLookups.WithLabelValues("search", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.CacheLookups.WithLabelValues("search", "miss")))
}

func TestCollector_Upstream(t *testing.T) {
	c := NewCollector("test")

	c.Upstream("detail", nil)
	c.Upstream("detail", domain.ErrNotFound)
	c.Upstream("detail", fmt.Errorf("%w: status 500", domain.ErrUpstreamFailure))
	c.Upstream("detail", domain.ErrRateLimited)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.UpstreamCalls.WithLabelValues("detail", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.UpstreamCalls.WithLabelValues("detail", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.UpstreamCalls.WithLabelValues("detail", "transient")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.UpstreamCalls.WithLabelValues("detail", "rate_limited")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("nutritionrx")
	c.Degradation("search", "stale")
	c.ObserveHTTP("GET", "/health", "200", 5*time.Millisecond)

	server := httptest.NewServer(c.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `nutritionrx_degraded_responses_total{fallback="stale",operation="search"} 1`)
	assert.Contains(t, string(body), `nutritionrx_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestNewCollector_Independent(t *testing.T) {
	a := NewCollector("test")
	b := NewCollector("test")

	a.CacheLookup("detail", true)

	assert.Equal(t, 0.0, testutil.ToFloat64(b.CacheLookups.WithLabelValues("detail", "hit")))
}
