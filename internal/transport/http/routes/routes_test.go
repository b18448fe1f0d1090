package routes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/infra/config"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/transport/http/middleware"
	httproutes "github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/transport/http/routes"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.AppConfig{App: config.AppSettings{Env: "test"}}

	return httproutes.Register(httproutes.Dependencies{
		Config: cfg,
		Logger: zap.NewNop(),
	})
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestEngine(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestReadyEndpointWithoutChecks(t *testing.T) {
	r := newTestEngine(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/readyz", nil)

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	r := newTestEngine(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodGet, "/api/v1/friends"},
		{http.MethodGet, "/api/v1/requests"},
		{http.MethodGet, "/api/v1/notifications"},
		{http.MethodGet, "/api/v1/admin/users"},
		{http.MethodGet, "/api/v1/admin/analytics"},
	}

	for _, tc := range paths {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(tc.method, tc.path, nil)

		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected status 401, got %d", tc.method, tc.path, w.Code)
		}
	}
}

// exhaustedRateStore reports every window as already full.
type exhaustedRateStore struct{}

func (exhaustedRateStore) TrimWindow(context.Context, string, time.Duration, time.Time) error {
	return nil
}

func (exhaustedRateStore) CountAttempts(context.Context, string, time.Duration, time.Time) (int, error) {
	return 1 << 20, nil
}

func (exhaustedRateStore) RecordAttempt(context.Context, string, time.Time) error {
	return nil
}

func (exhaustedRateStore) OldestAttempt(context.Context, string, time.Duration, time.Time) (time.Time, bool, error) {
	return time.Now(), true, nil
}

func TestSignupEndpointsRateLimited(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.AppConfig{
		App: config.AppSettings{Env: "test"},
		RateLimit: config.RateLimitSettings{
			WindowDuration:           time.Minute,
			LoginMaxAttempts:         5,
			RegisterMaxAttempts:      3,
			PasswordResetMaxAttempts: 3,
		},
	}

	r := httproutes.Register(httproutes.Dependencies{
		Config:      cfg,
		Logger:      zap.NewNop(),
		RateLimiter: middleware.NewRateLimiter(exhaustedRateStore{}, zap.NewNop()),
	})

	paths := []string{
		"/api/v1/auth/register",
		"/api/v1/auth/login",
		"/api/v1/auth/password/reset/request",
	}
	for _, path := range paths {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, nil)

		r.ServeHTTP(w, req)

		if w.Code != http.StatusTooManyRequests {
			t.Fatalf("POST %s: expected status 429 with a full window, got %d", path, w.Code)
		}
	}
}
