package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/clarecoast/shorebound/internal/clients/tides"
	"github.com/clarecoast/shorebound/internal/clients/weather"
	"github.com/clarecoast/shorebound/internal/observability"
	"github.com/clarecoast/shorebound/pkg/cache"
	"github.com/jonboulle/clockwork"
)

// ErrWeatherUnavailable is returned when the forecast cannot be fetched; the
// handler degrades to an inline "service unavailable" message.
var ErrWeatherUnavailable = errors.New("weather service unavailable")

const tideWindow = 48 * time.Hour

// Tide fetch failures are cached briefly so a flapping upstream is not hammered.
const tideErrorTTL = 5 * time.Minute

type Rating string

const (
	RatingSafe    Rating = "safe"
	RatingCaution Rating = "caution"
	RatingAvoid   Rating = "avoid"
)

// Rate applies the traffic-light thresholds to current conditions:
//
//	safe:    wind < 6, gust < 9,  precip < 40
//	caution: wind < 9, gust < 12, precip < 70
//	avoid:   otherwise
func Rate(windMS, gustMS float64, precipProb int) (Rating, string, string) {
	if windMS < 6 && gustMS < 9 && precipProb < 40 {
		return RatingSafe, "text-bg-success", "Safe conditions"
	}
	if windMS < 9 && gustMS < 12 && precipProb < 70 {
		return RatingCaution, "text-bg-warning", "Use caution"
	}
	return RatingAvoid, "text-bg-danger", "Avoid today"
}

// Panel is the assembled safety view for one coordinate.
type Panel struct {
	Lat        float64         `json:"lat"`
	Lon        float64         `json:"lon"`
	WindMS     float64         `json:"wind_ms"`
	GustMS     float64         `json:"gust_ms"`
	PrecipProb int             `json:"precip_prob"`
	Rating     Rating          `json:"rating"`
	Badge      string          `json:"badge"`
	Label      string          `json:"label"`
	NextTide   *tides.Extreme  `json:"next_tide,omitempty"`
	TideList   []tides.Extreme `json:"tide_list"`
}

// Forecaster and TideSource let tests substitute the HTTP clients.
type Forecaster interface {
	Fetch(ctx context.Context, lat, lon float64) (*weather.Forecast, error)
}

type TideSource interface {
	Extremes(ctx context.Context, lat, lon float64, window time.Duration) ([]tides.Extreme, error)
}

// SafetyConfig carries the cache TTLs and local tide calibration offsets.
type SafetyConfig struct {
	WeatherTTL       time.Duration
	TidesTTL         time.Duration
	TideTimeOffset   time.Duration
	TideHeightOffset float64
}

type SafetyService interface {
	GetPanel(ctx context.Context, lat, lon float64) (*Panel, error)
}

type safetyService struct {
	forecaster Forecaster
	tideSource TideSource
	cache      *cache.TTLCache
	cfg        SafetyConfig
	metrics    *observability.Metrics
	clock      clockwork.Clock
}

func NewSafetyService(forecaster Forecaster, tideSource TideSource, c *cache.TTLCache, cfg SafetyConfig, metrics *observability.Metrics, clock clockwork.Clock) SafetyService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if c == nil {
		c = cache.New(clock)
	}
	return &safetyService{
		forecaster: forecaster,
		tideSource: tideSource,
		cache:      c,
		cfg:        cfg,
		metrics:    metrics,
		clock:      clock,
	}
}

func (s *safetyService) GetPanel(ctx context.Context, lat, lon float64) (*Panel, error) {
	forecast, err := s.forecastFor(ctx, lat, lon)
	if err != nil {
		return nil, ErrWeatherUnavailable
	}

	now := s.clock.Now()
	precipProb := forecast.PrecipProbabilityAt(now.Local())
	rating, badge, label := Rate(forecast.WindSpeed, forecast.WindGust, precipProb)

	futureTides := s.futureTides(ctx, lat, lon, now)

	panel := &Panel{
		Lat:        lat,
		Lon:        lon,
		WindMS:     forecast.WindSpeed,
		GustMS:     forecast.WindGust,
		PrecipProb: precipProb,
		Rating:     rating,
		Badge:      badge,
		Label:      label,
		TideList:   futureTides,
	}
	if len(futureTides) > 0 {
		panel.NextTide = &futureTides[0]
	}
	if len(panel.TideList) > 4 {
		panel.TideList = panel.TideList[:4]
	}
	return panel, nil
}

// forecastFor caches per rounded coordinate and hour bucket.
func (s *safetyService) forecastFor(ctx context.Context, lat, lon float64) (*weather.Forecast, error) {
	key := fmt.Sprintf("wx:%s:%s:%s", roundKey(lat), roundKey(lon), s.clock.Now().Format("2006010215"))
	if v, ok := s.cache.Get(key); ok {
		s.cacheResult("weather", "hit")
		return v.(*weather.Forecast), nil
	}
	s.cacheResult("weather", "miss")

	forecast, err := s.forecaster.Fetch(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, forecast, s.cfg.WeatherTTL)
	return forecast, nil
}

// futureTides returns upcoming tide extremes with calibration applied, sorted
// ascending. Failures and a missing API key both degrade to an empty list.
func (s *safetyService) futureTides(ctx context.Context, lat, lon float64, now time.Time) []tides.Extreme {
	extremes := s.tidesFor(ctx, lat, lon)

	future := []tides.Extreme{}
	for _, e := range extremes {
		if !e.Time.After(now) {
			continue
		}
		if s.cfg.TideTimeOffset != 0 {
			e.Time = e.Time.Add(s.cfg.TideTimeOffset)
		}
		if e.Height != nil && s.cfg.TideHeightOffset != 0 {
			h := *e.Height + s.cfg.TideHeightOffset
			e.Height = &h
		}
		future = append(future, e)
	}
	sort.Slice(future, func(i, j int) bool { return future[i].Time.Before(future[j].Time) })
	return future
}

// tidesFor caches per rounded coordinate and day bucket.
func (s *safetyService) tidesFor(ctx context.Context, lat, lon float64) []tides.Extreme {
	key := fmt.Sprintf("tide:%s:%s:%s", roundKey(lat), roundKey(lon), s.clock.Now().Format("20060102"))
	if v, ok := s.cache.Get(key); ok {
		s.cacheResult("tides", "hit")
		return v.([]tides.Extreme)
	}
	s.cacheResult("tides", "miss")

	extremes, err := s.tideSource.Extremes(ctx, lat, lon, tideWindow)
	if err != nil {
		extremes = []tides.Extreme{}
		s.cache.Set(key, extremes, tideErrorTTL)
		return extremes
	}
	s.cache.Set(key, extremes, s.cfg.TidesTTL)
	return extremes
}

func (s *safetyService) cacheResult(api, result string) {
	if s.metrics != nil {
		s.metrics.ForecastCache.WithLabelValues(api, result).Inc()
	}
}

// roundKey reduces cache-key cardinality to ~100m coordinate buckets.
func roundKey(x float64) string {
	if math.IsNaN(x) {
		return "nan"
	}
	return fmt.Sprintf("%.3f", x)
}
