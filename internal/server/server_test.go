package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	bundledomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/bundle/domain"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/config"
	recdomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/recommendation/domain"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/recommendation/refresh"
)

type fakeRecService struct {
	recdomain.Service

	listed       []recdomain.OptimizationRecommendation
	statusErr    error
	lastStatus   recdomain.RecommendationStatus
	lastStatusID snowflake.ID
}

func (f *fakeRecService) List(_ context.Context, _ snowflake.ID) ([]recdomain.OptimizationRecommendation, error) {
	return f.listed, nil
}

func (f *fakeRecService) UpdateStatus(_ context.Context, _ snowflake.ID, recID snowflake.ID, status recdomain.RecommendationStatus) error {
	f.lastStatusID = recID
	f.lastStatus = status
	return f.statusErr
}

type fakeBundleService struct {
	bundledomain.Service

	result bundledomain.MatchResult
}

func (f *fakeBundleService) FindMatches(_ context.Context, _ snowflake.ID, _ bundledomain.MatchOptions) bundledomain.MatchResult {
	return f.result
}

type noopRunner struct{}

func (noopRunner) Run(context.Context, snowflake.ID) error { return nil }

func newTestServer(t *testing.T, recSvc *fakeRecService, bundleSvc *fakeBundleService) (*Server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	debouncer := refresh.NewDebouncer(refresh.DefaultConfig(), zap.NewNop(), noopRunner{})
	t.Cleanup(debouncer.Stop)

	s := &Server{
		log:       zap.NewNop(),
		engine:    engine,
		recSvc:    recSvc,
		bundleSvc: bundleSvc,
		debouncer: debouncer,
	}
	s.RegisterAPIRoutes()
	return s, engine
}

func TestRequireUserRejectsMissingHeader(t *testing.T) {
	_, engine := newTestServer(t, &fakeRecService{}, &fakeBundleService{})

	req := httptest.NewRequest(http.MethodGet, "/api/recommendations", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequireUserRejectsMalformedHeader(t *testing.T) {
	_, engine := newTestServer(t, &fakeRecService{}, &fakeBundleService{})

	req := httptest.NewRequest(http.MethodGet, "/api/recommendations", nil)
	req.Header.Set("X-User-Id", "not-a-number")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestListRecommendationsHappyPath(t *testing.T) {
	recSvc := &fakeRecService{listed: []recdomain.OptimizationRecommendation{
		{ID: 1, Type: recdomain.TypeCancel, Title: "Cancel Netflix"},
	}}
	_, engine := newTestServer(t, recSvc, &fakeBundleService{})

	req := httptest.NewRequest(http.MethodGet, "/api/recommendations", nil)
	req.Header.Set("X-User-Id", "42")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Cancel Netflix") {
		t.Errorf("body missing recommendation: %s", w.Body.String())
	}
}

func TestUpdateRecommendationStatusErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", recdomain.ErrNotFound, http.StatusNotFound},
		{"finalized", recdomain.ErrAlreadyFinalized, http.StatusConflict},
		{"bad status", recdomain.ErrInvalidStatus, http.StatusBadRequest},
		{"ok", nil, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recSvc := &fakeRecService{statusErr: tc.err}
			_, engine := newTestServer(t, recSvc, &fakeBundleService{})

			body := strings.NewReader(`{"status":"accepted"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/recommendations/7/status", body)
			req.Header.Set("X-User-Id", "42")
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d: %s", w.Code, tc.want, w.Body.String())
			}
			if recSvc.lastStatusID != 7 {
				t.Errorf("recommendation ID = %d, want 7", recSvc.lastStatusID)
			}
		})
	}
}

func TestUpdateRecommendationStatusRejectsBadID(t *testing.T) {
	_, engine := newTestServer(t, &fakeRecService{}, &fakeBundleService{})

	body := strings.NewReader(`{"status":"accepted"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/recommendations/abc/status", body)
	req.Header.Set("X-User-Id", "42")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestFindBundleMatchesReturnsResult(t *testing.T) {
	bundleSvc := &fakeBundleService{result: bundledomain.MatchResult{
		OK: true,
		Matches: []bundledomain.BundleMatch{
			{Provider: "Airtel", PlanName: "Black", MonthlySavings: 249},
		},
	}}
	_, engine := newTestServer(t, &fakeRecService{}, bundleSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/bundles/matches?min_savings=50", nil)
	req.Header.Set("X-User-Id", "42")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Airtel") {
		t.Errorf("body missing match: %s", w.Body.String())
	}
}

func TestTriggerRefreshAccepted(t *testing.T) {
	_, engine := newTestServer(t, &fakeRecService{}, &fakeBundleService{})

	req := httptest.NewRequest(http.MethodPost, "/api/recommendations/refresh", nil)
	req.Header.Set("X-User-Id", "42")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", w.Code)
	}
}

func TestMetricsEndpointGatedByConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)

	build := func(enabled bool) *gin.Engine {
		engine := gin.New()
		debouncer := refresh.NewDebouncer(refresh.DefaultConfig(), zap.NewNop(), noopRunner{})
		t.Cleanup(debouncer.Stop)
		s := &Server{
			cfg:       config.Config{MetricsEnabled: enabled},
			log:       zap.NewNop(),
			engine:    engine,
			recSvc:    &fakeRecService{},
			bundleSvc: &fakeBundleService{},
			debouncer: debouncer,
		}
		s.RegisterAPIRoutes()
		return engine
	}

	w := httptest.NewRecorder()
	build(true).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("enabled /metrics status = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	build(false).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("disabled /metrics status = %d, want 404", w.Code)
	}
}
