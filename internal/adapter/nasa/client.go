package nasa

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/impact-atlas/internal/domain"
	"github.com/couchcryptid/impact-atlas/internal/observability"
)

// DefaultBaseURL is the Socrata resource for the Meteorite Landings dataset.
const DefaultBaseURL = "https://data.nasa.gov/resource/gh4g-9sfh.json"

// Client fetches meteorite landings from the NASA Open Data portal.
type Client struct {
	baseURL    string
	appToken   string
	limit      int
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a NASA Open Data client. An empty appToken sends
// anonymous requests, which Socrata throttles more aggressively. metrics may be nil.
func NewClient(baseURL, appToken string, limit int, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:  baseURL,
		appToken: appToken,
		limit:    limit,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// FetchMeteorites downloads the full landing list in one request.
func (c *Client) FetchMeteorites(ctx context.Context) ([]domain.Meteorite, error) {
	start := time.Now()
	meteorites, err := c.doRequest(ctx)
	c.observe(start, err)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("meteorites fetched", "count", len(meteorites), "duration_ms", time.Since(start).Milliseconds())
	return meteorites, nil
}

func (c *Client) observe(start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.metrics.FetchRequests.WithLabelValues(outcome).Inc()
}

func (c *Client) doRequest(ctx context.Context) ([]domain.Meteorite, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if c.limit > 0 {
		q := u.Query()
		q.Set("$limit", strconv.Itoa(c.limit))
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.appToken != "" {
		req.Header.Set("X-App-Token", c.appToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("meteorite request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("nasa API error: status %d: %s", resp.StatusCode, body)
	}

	return domain.DecodeMeteorites(resp.Body)
}
