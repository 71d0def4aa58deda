package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectMetricNames(t *testing.T, reader *sdkmetric.ManualReader) map[string]bool {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	names := make(map[string]bool)
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			names[md.Name] = true
		}
	}
	return names
}

func TestGinMiddlewareRecordsRequestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewHTTPMetrics(provider)
	if err != nil {
		t.Fatalf("new http metrics: %v", err)
	}

	router := gin.New()
	router.Use(GinMiddleware(m))
	router.GET("/api/recommendations", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/recommendations", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	names := collectMetricNames(t, reader)
	for _, want := range []string{"http.server.duration_ms", "http.server.in_flight"} {
		if !names[want] {
			t.Errorf("metric %q not recorded", want)
		}
	}
}

func TestGinMiddlewareNilMetricsPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(GinMiddleware(nil))
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	if got := normalizeEndpoint(""); got != "unknown" {
		t.Errorf("empty endpoint = %q, want unknown", got)
	}
	if got := normalizeEndpoint("  /api/usage  "); got != "/api/usage" {
		t.Errorf("endpoint = %q, want /api/usage", got)
	}
}
