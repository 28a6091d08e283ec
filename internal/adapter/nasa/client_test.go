package nasa

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/impact-atlas/internal/observability"
)

const (
	testToken         = "test-app-token"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

const landings = `[
  {"name":"Aachen","id":"1","nametype":"Valid","recclass":"L5","mass":"21","fall":"Fell",
   "year":"1880-01-01T00:00:00.000","reclat":"50.775000","reclong":"6.083330",
   "geolocation":{"type":"Point","coordinates":[6.08333,50.775]}},
  {"name":"Aarhus","id":"2","nametype":"Valid","recclass":"H6","mass":"720","fall":"Fell",
   "year":"1951-01-01T00:00:00.000","reclat":"56.183330","reclong":"10.233330",
   "geolocation":{"type":"Point","coordinates":[10.23333,56.18333]}}
]`

func testClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		appToken:   testToken,
		limit:      50000,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_FetchMeteorites_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50000", r.URL.Query().Get("$limit"))
		assert.Equal(t, testToken, r.Header.Get("X-App-Token"))

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(landings))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	meteorites, err := c.FetchMeteorites(context.Background())
	require.NoError(t, err)

	require.Len(t, meteorites, 2)
	assert.Equal(t, "Aachen", meteorites[0].Name)
	assert.Equal(t, "L5", meteorites[0].RecClass)
	assert.Equal(t, "21", meteorites[0].Mass.String())
	assert.Equal(t, "Aarhus", meteorites[1].Name)
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.FetchRequests.WithLabelValues("success")), 0)
}

func TestClient_FetchMeteorites_NoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("X-App-Token"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 10, 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())
	meteorites, err := c.FetchMeteorites(context.Background())
	require.NoError(t, err)
	assert.Empty(t, meteorites)
}

func TestClient_FetchMeteorites_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Invalid app_token specified"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	_, err := c.FetchMeteorites(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.FetchRequests.WithLabelValues("error")), 0)
}

func TestClient_FetchMeteorites_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"error":true}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	_, err := c.FetchMeteorites(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode meteorites")
}

func TestClient_FetchMeteorites_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 50*time.Millisecond)
	_, err := c.FetchMeteorites(context.Background())
	require.Error(t, err)
}
