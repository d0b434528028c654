package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/scrape-service/internal/adapter/memory"
	"github.com/user/scrape-service/internal/delivery/http/handler"
	"github.com/user/scrape-service/internal/entity"
	"github.com/user/scrape-service/internal/repository"
	"github.com/user/scrape-service/internal/usecase"
	"github.com/user/scrape-service/pkg/metrics"
)

type stubDetector struct{}

func (stubDetector) NeedsRendering(context.Context, string) (bool, error) { return false, nil }

type stubExtractor struct{ strategy entity.Strategy }

func (s stubExtractor) Strategy() entity.Strategy { return s.strategy }

func (s stubExtractor) Extract(_ context.Context, req entity.ScrapeRequest) (*entity.ExtractedContent, error) {
	return &entity.ExtractedContent{Title: "T " + req.URL, Links: []string{}}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *metrics.Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	cache := memory.NewRecordCache()
	scraper := usecase.NewScraper(usecase.ScraperDeps{
		Cache:    cache,
		Detector: stubDetector{},
		Static:   stubExtractor{entity.StrategyStatic},
		Rendered: stubExtractor{entity.StrategyRendered},
		Metrics:  m,
	})
	h := handler.NewHandler(scraper, usecase.NewStatusReader(cache, nil),
		map[string]repository.Pinger{"memory": cache}, time.Minute, zap.NewNop())
	return New(h, Options{Logger: zap.NewNop(), Metrics: m, Gatherer: reg, RequestTimeout: time.Minute}), m, reg
}

func TestRouter_ScrapeThenRead(t *testing.T) {
	r, m, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/scrape", strings.NewReader(`{"url":"https://example.com/"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/records?url=https://example.com/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"T https://example.com/"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status?url=https://example.com/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"current_status":"cached"`)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/scrape", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/records", "200")))
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scrape", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_UnmatchedPathsShareOneLabel(t *testing.T) {
	r, m, _ := newTestRouter(t)

	for _, path := range []string{"/random-1", "/random-2", "/wp-login.php"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestsTotal))
}
