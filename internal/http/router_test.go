package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	morselHttp "github.com/soulfoods/morsel/internal/http"
	reportHandler "github.com/soulfoods/morsel/internal/http/report"
	salesHandler "github.com/soulfoods/morsel/internal/http/sales"
	"github.com/soulfoods/morsel/internal/metrics"
	"github.com/soulfoods/morsel/internal/report"
	"github.com/soulfoods/morsel/internal/sales"
)

type stubRepo struct {
	records []sales.Record
}

func (s *stubRepo) ListRecords(ctx context.Context, filter sales.Filter) ([]sales.Record, error) {
	var out []sales.Record

	for _, r := range s.records {
		if filter.Matches(r) {
			out = append(out, r)
		}
	}

	return out, nil
}

func (s *stubRepo) Regions(ctx context.Context) ([]string, error) {
	return []string{"north", "south"}, nil
}

func newTestRouter(t *testing.T, limiter *rate.Limiter) http.Handler {
	t.Helper()

	repo := &stubRepo{records: []sales.Record{
		{Sales: 10000, Date: time.Date(2021, 1, 10, 0, 0, 0, 0, time.UTC), Region: "north"},
		{Sales: 20000, Date: time.Date(2021, 1, 20, 0, 0, 0, 0, time.UTC), Region: "south"},
	}}

	salesSvc := sales.NewService(repo)
	reportSvc := report.NewService(salesSvc)
	reg := metrics.NewRegistry()

	return morselHttp.New(
		salesHandler.NewHandler(salesSvc),
		reportHandler.NewHandler(reportSvc, reg, t.TempDir()),
		reg,
		limiter,
	)
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t, rate.NewLimiter(rate.Inf, 1))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRouter_MetricsExposeRequestCounts(t *testing.T) {
	router := newTestRouter(t, rate.NewLimiter(rate.Inf, 1))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/regions", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "morsel_http_requests_total")
	assert.Contains(t, body, `path="/api/v1/regions"`)
}

func TestRouter_RateLimit(t *testing.T) {
	// A zero limiter rejects everything.
	router := newTestRouter(t, rate.NewLimiter(0, 0))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/regions", nil))

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")
}

func TestRouter_ReportRequiresJSON(t *testing.T) {
	router := newTestRouter(t, rate.NewLimiter(rate.Inf, 1))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader("region=north"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRouter_CreateReport(t *testing.T) {
	router := newTestRouter(t, rate.NewLimiter(rate.Inf, 1))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(`{"region":"north","format":"csv"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got struct {
		Path   string `json:"path"`
		Format string `json:"format"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "csv", got.Format)

	raw, err := os.ReadFile(got.Path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Total Sales,100.00")
}

func TestRouter_DownloadReport(t *testing.T) {
	router := newTestRouter(t, rate.NewLimiter(rate.Inf, 1))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/download", strings.NewReader(`{"format":"csv"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Body.String(), "Total Sales,300.00")
	assert.Contains(t, rec.Body.String(), "Date,Sales")
}
