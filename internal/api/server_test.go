package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/focuscrawl/focuscrawl/internal/telemetry"
)

type fakeSnapshotter struct {
	snap telemetry.Snapshot
}

func (f *fakeSnapshotter) Snapshot() telemetry.Snapshot {
	return f.snap
}

func testSnapshot() telemetry.Snapshot {
	started := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	return telemetry.Snapshot{
		RunID:        "run-test",
		StartedAt:    started,
		GeneratedAt:  started.Add(90 * time.Second),
		TotalCrawled: 7,
		UniquePages:  6,
		QueueSize:    3,
		Domains:      map[string]int{"ics.uci.edu": 7},
		Subdomains:   map[string]int{"vision.ics.uci.edu": 2},
		StatusCodes:  map[int]int{200: 6, 404: 1},
		Words:        map[string]int{"research": 4},
		LongestPage:  telemetry.LongestPage{URL: "https://ics.uci.edu/a", WordCount: 812},
		TotalBytes:   1 << 20,
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := NewServer(&fakeSnapshotter{snap: testSnapshot()}, zap.NewNop())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getBody(t *testing.T, ts *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	resp, body := getBody(t, ts, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"status":"ok"}`, body)
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestReadyz(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	resp, body := getBody(t, ts, "/readyz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"status":"ready"}`, body)
}

func TestGetStats(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	resp, body := getBody(t, ts, "/stats")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var snap telemetry.Snapshot
	require.NoError(t, json.Unmarshal([]byte(body), &snap))
	require.Equal(t, "run-test", snap.RunID)
	require.Equal(t, 7, snap.TotalCrawled)
	require.Equal(t, 6, snap.UniquePages)
	require.Equal(t, 812, snap.LongestPage.WordCount)
	require.Equal(t, 6, snap.StatusCodes[200])
}

func TestGetReport(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	resp, body := getBody(t, ts, "/report")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	require.Contains(t, body, "WEB CRAWLER MONITOR - LIVE STATISTICS")
	require.Contains(t, body, "Total crawled:  7")
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	resp, body := getBody(t, ts, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "go_goroutines")
}

func TestUnknownRouteIs404(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	resp, _ := getBody(t, ts, "/nope")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRecoverMiddlewareConvertsPanic(t *testing.T) {
	t.Parallel()
	s := NewServer(&fakeSnapshotter{}, zap.NewNop())

	h := s.recoverMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}
