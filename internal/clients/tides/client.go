package tides

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/clarecoast/shorebound/internal/observability"
	"github.com/jonboulle/clockwork"
)

// ErrNoAPIKey is returned when no Stormglass key is configured. Callers
// degrade to an empty tide list rather than failing the panel.
var ErrNoAPIKey = errors.New("stormglass API key not configured")

// Extreme is a single high or low tide event.
type Extreme struct {
	Time   time.Time `json:"time"`
	Type   string    `json:"type"` // "high" or "low"
	Height *float64  `json:"height,omitempty"`
}

// Client fetches tide extremes from the Stormglass API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
	clock      clockwork.Clock
}

func NewClient(baseURL, apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger, clock clockwork.Clock) *Client {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
		clock:   clock,
	}
}

// Extremes returns the high/low tide events for the coordinate over the next
// `window` duration.
func (c *Client) Extremes(ctx context.Context, lat, lon float64, window time.Duration) ([]Extreme, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	start := c.clock.Now().UTC()
	end := start.Add(window)

	params := url.Values{
		"lat":   {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lng":   {strconv.FormatFloat(lon, 'f', -1, 64)},
		"start": {strconv.FormatInt(start.Unix(), 10)},
		"end":   {strconv.FormatInt(end.Unix(), 10)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ForecastRequests.WithLabelValues("tides", "error").Inc()
		return nil, fmt.Errorf("tides request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.ForecastRequests.WithLabelValues("tides", "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("stormglass API error: status %d: %s", resp.StatusCode, body)
	}

	var tr tideResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		c.metrics.ForecastRequests.WithLabelValues("tides", "error").Inc()
		return nil, fmt.Errorf("decode response: %w", err)
	}

	extremes := make([]Extreme, 0, len(tr.Data))
	for _, d := range tr.Data {
		if d.Time == "" {
			continue
		}
		when, err := time.Parse(time.RFC3339, d.Time)
		if err != nil {
			c.logger.Warn("skipping tide extreme with bad timestamp", "time", d.Time)
			continue
		}
		extremes = append(extremes, Extreme{
			Time:   when,
			Type:   d.Type,
			Height: d.Height,
		})
	}

	c.metrics.ForecastRequests.WithLabelValues("tides", "success").Inc()
	return extremes, nil
}

// Stormglass API response types.

type tideResponse struct {
	Data []tideDatum `json:"data"`
}

type tideDatum struct {
	Time   string   `json:"time"`
	Type   string   `json:"type"`
	Height *float64 `json:"height"`
}
