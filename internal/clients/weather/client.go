package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/clarecoast/shorebound/internal/observability"
)

// Forecast is the subset of the Open-Meteo response the safety panel needs:
// current wind/gust/precipitation plus the hourly precipitation-probability
// series for hour matching.
type Forecast struct {
	WindSpeed     float64
	WindGust      float64
	Precipitation float64

	HourlyTimes      []string
	HourlyPrecipProb []int
}

// PrecipProbabilityAt returns the precipitation probability for the given
// local hour, or 0 when the hour is not present in the series.
func (f *Forecast) PrecipProbabilityAt(local time.Time) int {
	key := local.Format("2006-01-02T15:00")
	for i, t := range f.HourlyTimes {
		if t == key && i < len(f.HourlyPrecipProb) {
			return f.HourlyPrecipProb[i]
		}
	}
	return 0
}

// Client fetches forecasts from the Open-Meteo API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Fetch requests the current conditions and hourly precipitation probability
// for a coordinate.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) (*Forecast, error) {
	params := url.Values{
		"latitude":  {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude": {strconv.FormatFloat(lon, 'f', -1, 64)},
		"current":   {"wind_speed_10m,wind_gusts_10m,precipitation"},
		"hourly":    {"precipitation_probability"},
		"timezone":  {"auto"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ForecastRequests.WithLabelValues("weather", "error").Inc()
		return nil, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.ForecastRequests.WithLabelValues("weather", "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	var fr forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		c.metrics.ForecastRequests.WithLabelValues("weather", "error").Inc()
		return nil, fmt.Errorf("decode response: %w", err)
	}

	c.metrics.ForecastRequests.WithLabelValues("weather", "success").Inc()
	return &Forecast{
		WindSpeed:        fr.Current.WindSpeed10m,
		WindGust:         fr.Current.WindGusts10m,
		Precipitation:    fr.Current.Precipitation,
		HourlyTimes:      fr.Hourly.Time,
		HourlyPrecipProb: fr.Hourly.PrecipitationProbability,
	}, nil
}

// Open-Meteo API response types.

type forecastResponse struct {
	Current struct {
		WindSpeed10m  float64 `json:"wind_speed_10m"`
		WindGusts10m  float64 `json:"wind_gusts_10m"`
		Precipitation float64 `json:"precipitation"`
	} `json:"current"`
	Hourly struct {
		Time                     []string `json:"time"`
		PrecipitationProbability []int    `json:"precipitation_probability"`
	} `json:"hourly"`
}
