package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/citylink/pkg/dashboard"
	"github.com/matzehuels/citylink/pkg/errors"
	"github.com/matzehuels/citylink/pkg/observability"
	"github.com/matzehuels/citylink/pkg/record"
)

func testStore(t *testing.T, n int) *record.Store {
	t.Helper()
	rs := make([]record.Record, n)
	for i := range rs {
		rs[i] = record.Record{
			City:           fmt.Sprintf("City%02d", i),
			Country:        "Country",
			Continent:      []string{"Africa", "Asia", "Europe"}[i%3],
			Population2024: float64(1000 * (i + 1)),
			GrowthAbsolute: float64(i),
			GrowthPercent:  float64(i) / 10,
			Latitude:       float64(i),
			Longitude:      float64(i),
		}
	}
	rs[0].City = "Lagos"
	s, err := record.New(rs)
	require.NoError(t, err)
	return s
}

func newTestServer(t *testing.T, n int, cfg Config) (*Server, *httptest.Server) {
	t.Helper()
	srv, err := New(testStore(t, n), cfg, nil, NewMetrics(), nil)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, 5, Config{})
	resp := do(t, http.MethodGet, ts.URL+"/healthz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	h := decodeBody[healthResponse](t, resp)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, 5, h.Rows)
}

func TestRecords(t *testing.T) {
	_, ts := newTestServer(t, 5, Config{})

	resp := do(t, http.MethodGet, ts.URL+"/api/records?page_size=2&page=3", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[recordsResponse](t, resp)
	assert.Equal(t, 3, got.Page)
	assert.Equal(t, 3, got.PageCount)
	assert.Len(t, got.Records, 1)
	assert.Equal(t, "Page 3 of 3", got.Label)

	// Out-of-range pages clamp rather than fail.
	resp = do(t, http.MethodGet, ts.URL+"/api/records?q=lagos&page=9", nil)
	got = decodeBody[recordsResponse](t, resp)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 1, got.Matches)
	require.Len(t, got.Records, 1)
	assert.Equal(t, "Lagos", got.Records[0].City)

	resp = do(t, http.MethodGet, ts.URL+"/api/records?q=atlantis", nil)
	got = decodeBody[recordsResponse](t, resp)
	assert.Equal(t, 1, got.PageCount)
	assert.Empty(t, got.Records)
	assert.NotNil(t, got.Records)
}

func TestRecordsBadParams(t *testing.T) {
	_, ts := newTestServer(t, 5, Config{})
	for _, path := range []string{
		"/api/records?page=abc",
		"/api/records?page_size=0",
		"/api/records?page_size=100000",
	} {
		resp := do(t, http.MethodGet, ts.URL+path, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		e := decodeBody[errorResponse](t, resp)
		assert.Equal(t, errors.ErrCodeInvalidInput, e.Code, path)
	}
}

func TestTop(t *testing.T) {
	_, ts := newTestServer(t, 30, Config{})

	resp := do(t, http.MethodGet, ts.URL+"/api/top?field=growthPct&n=3", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[topResponse](t, resp)
	assert.Equal(t, record.GrowthPercent, got.Field)
	require.Len(t, got.Records, 3)
	assert.Equal(t, "City29", got.Records[0].City)
	assert.Equal(t, "City28", got.Records[1].City)

	resp = do(t, http.MethodGet, ts.URL+"/api/top", nil)
	got = decodeBody[topResponse](t, resp)
	assert.Len(t, got.Records, dashboard.DefaultTopN)

	resp = do(t, http.MethodGet, ts.URL+"/api/top?field=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, errors.ErrCodeInvalidField, decodeBody[errorResponse](t, resp).Code)
}

func TestScales(t *testing.T) {
	_, ts := newTestServer(t, 4, Config{})
	resp := do(t, http.MethodGet, ts.URL+"/api/scales", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[scalesResponse](t, resp)
	assert.Equal(t, [2]float64{0, 4000}, got.Size.Domain)
	assert.Equal(t, [2]float64{0, 20}, got.Size.Range)
	assert.Equal(t, [2]float64{1000, 4000}, got.Population.Domain)
	assert.Equal(t, []string{"Africa", "Asia", "Europe"}, got.Color.Domain)
	assert.Len(t, got.Color.Range, 3)
}

func TestSessionLifecycle(t *testing.T) {
	_, ts := newTestServer(t, 5, Config{Dashboard: dashboard.Options{PageSize: 2}})

	resp := do(t, http.MethodPost, ts.URL+"/api/sessions", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[sessionResponse](t, resp)
	require.NotEmpty(t, created.ID)
	base := ts.URL + "/api/sessions/" + created.ID
	assert.Equal(t, "/api/sessions/"+created.ID, resp.Header.Get("Location"))
	assert.False(t, created.Frame.Selection.Active)

	resp = do(t, http.MethodPut, base+"/highlight", highlightRequest{City: "Lagos"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[sessionResponse](t, resp)
	assert.Equal(t, "Lagos", got.Frame.Selection.City)
	assert.True(t, got.Frame.Table.Rows[0].Bold)

	resp = do(t, http.MethodGet, base, nil)
	got = decodeBody[sessionResponse](t, resp)
	assert.True(t, got.Frame.Selection.Active, "state persists across requests")

	resp = do(t, http.MethodDelete, base+"/highlight", nil)
	got = decodeBody[sessionResponse](t, resp)
	assert.False(t, got.Frame.Selection.Active)

	resp = do(t, http.MethodPost, base+"/next", nil)
	got = decodeBody[sessionResponse](t, resp)
	require.NotNil(t, got.Changed)
	assert.True(t, *got.Changed)
	assert.Equal(t, 2, got.Frame.Table.Page)

	resp = do(t, http.MethodPut, base+"/page", pageRequest{Page: 3})
	got = decodeBody[sessionResponse](t, resp)
	assert.True(t, *got.Changed)
	assert.Equal(t, 3, got.Frame.Table.Page)

	resp = do(t, http.MethodPost, base+"/next", nil)
	got = decodeBody[sessionResponse](t, resp)
	assert.False(t, *got.Changed, "next at the last page is a no-op")

	resp = do(t, http.MethodPut, base+"/query", queryRequest{Query: "city0"})
	got = decodeBody[sessionResponse](t, resp)
	assert.Equal(t, 1, got.Frame.Table.Page)
	assert.Equal(t, 4, got.Frame.Table.Matches)

	resp = do(t, http.MethodPost, base+"/prev", nil)
	got = decodeBody[sessionResponse](t, resp)
	assert.False(t, *got.Changed)

	resp = do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, errors.ErrCodeSessionNotFound, decodeBody[errorResponse](t, resp).Code)
}

func TestSessionErrors(t *testing.T) {
	_, ts := newTestServer(t, 3, Config{})
	resp := do(t, http.MethodPost, ts.URL+"/api/sessions", nil)
	base := ts.URL + "/api/sessions/" + decodeBody[sessionResponse](t, resp).ID

	resp = do(t, http.MethodPut, base+"/highlight", highlightRequest{City: "Atlantis"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodPut, base+"/highlight", map[string]string{"town": "Lagos"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPut, base+"/query", queryRequest{Query: "a\x01"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodGet, ts.URL+"/api/sessions/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionExpiry(t *testing.T) {
	ss := newSessions(time.Minute, 2)
	now := time.Unix(0, 0)
	ss.now = func() time.Time { return now }

	a := ss.add(nil)
	b := ss.add(nil)
	now = now.Add(30 * time.Second)
	_, err := ss.get(a.id)
	require.NoError(t, err)

	// Full: the least recently used session (b) makes room.
	c := ss.add(nil)
	_, err = ss.get(b.id)
	assert.True(t, errors.Is(err, errors.ErrCodeSessionNotFound))
	assert.Equal(t, 2, ss.len())

	now = now.Add(2 * time.Minute)
	_, err = ss.get(c.id)
	assert.True(t, errors.Is(err, errors.ErrCodeSessionNotFound))
}

func TestDashboardEndpoint(t *testing.T) {
	_, ts := newTestServer(t, 5, Config{})

	resp := do(t, http.MethodGet, ts.URL+"/dashboard.svg?highlight=Lagos", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "<svg"))

	resp = do(t, http.MethodGet, ts.URL+"/dashboard.json?q=city", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	frame := decodeBody[dashboard.Frame](t, resp)
	assert.Equal(t, 4, frame.Table.Matches)

	resp = do(t, http.MethodGet, ts.URL+"/dashboard.gif", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodGet, ts.URL+"/dashboard.svg?highlight=Atlantis", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, ts := newTestServer(t, 3, Config{})
	srv.metrics.Install()
	t.Cleanup(observability.Reset)

	do(t, http.MethodGet, ts.URL+"/healthz", nil)
	resp := do(t, http.MethodGet, ts.URL+"/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `citylink_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
}

func TestMetricsUnmatchedRoute(t *testing.T) {
	srv, ts := newTestServer(t, 3, Config{})
	srv.metrics.Install()
	t.Cleanup(observability.Reset)

	for _, p := range []string{"/nope", "/wp-admin/setup.php"} {
		resp := do(t, http.MethodGet, ts.URL+p, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}
	resp := do(t, http.MethodGet, ts.URL+"/metrics", nil)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `citylink_http_requests_total{method="GET",route="unmatched",status="404"} 2`)
	assert.NotContains(t, string(body), `route="/nope"`)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeMalformedRecord, http.StatusBadRequest},
		{errors.ErrCodeInvalidField, http.StatusBadRequest},
		{errors.ErrCodeSessionNotFound, http.StatusNotFound},
		{errors.ErrCodeUnsupported, http.StatusNotImplemented},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
