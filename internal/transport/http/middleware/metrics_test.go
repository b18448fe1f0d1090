package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHTTPMetrics_CountsRequestsPerRouteAndStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	registry := prometheus.NewRegistry()
	metrics, err := NewHTTPMetrics(HTTPMetricsOptions{Registerer: registry})
	if err != nil {
		t.Fatalf("create http metrics: %v", err)
	}

	router := gin.New()
	router.Use(metrics.Handler())
	router.POST("/api/v1/auth/login", func(c *gin.Context) {
		c.Status(http.StatusUnauthorized)
	})
	router.GET("/api/v1/users/me", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))

	loginLabels := prometheus.Labels{"method": http.MethodPost, "route": "/api/v1/auth/login", "status": "401"}
	if got := testutil.ToFloat64(metrics.Requests.With(loginLabels)); got != 2 {
		t.Fatalf("expected 2 counted login rejections, got %f", got)
	}

	profileLabels := prometheus.Labels{"method": http.MethodGet, "route": "/api/v1/users/me", "status": "200"}
	if got := testutil.ToFloat64(metrics.Requests.With(profileLabels)); got != 1 {
		t.Fatalf("expected 1 counted profile read, got %f", got)
	}

	if got := testutil.ToFloat64(metrics.InFlight); got != 0 {
		t.Fatalf("expected in-flight gauge back at 0, got %f", got)
	}

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather registry: %v", err)
	}
	names := map[string]bool{}
	for _, family := range families {
		names[family.GetName()] = true
	}
	for _, want := range []string{
		"skillshikhi_http_requests_total",
		"skillshikhi_http_request_duration_seconds",
		"skillshikhi_http_in_flight_requests",
	} {
		if !names[want] {
			t.Fatalf("expected metric family %q to be registered, have %v", want, names)
		}
	}
}

func TestHTTPMetrics_ReusesCollectorsOnSharedRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()

	first, err := NewHTTPMetrics(HTTPMetricsOptions{Registerer: registry})
	if err != nil {
		t.Fatalf("create first metrics: %v", err)
	}
	second, err := NewHTTPMetrics(HTTPMetricsOptions{Registerer: registry})
	if err != nil {
		t.Fatalf("expected re-registration to reuse collectors, got %v", err)
	}

	if first.Requests != second.Requests {
		t.Fatalf("expected both instances to share the requests collector")
	}
}

func TestHTTPMetrics_NilReceiverPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use((*HTTPMetrics)(nil).Handler())
	router.GET("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from the wrapped route, got %d", rr.Code)
	}
}
