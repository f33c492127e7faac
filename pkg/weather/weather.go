// Package weather fetches current conditions from a Weather
// Underground personal weather station. Observations feed the
// "outside" reading source. The station id and API key are explicit
// configuration, not ambient environment lookups.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"garagemon.xyz/govee-monitor-service/pkg/common"
	"garagemon.xyz/govee-monitor-service/pkg/units"
)

const (
	DefaultBaseURL  = "https://api.weather.com/v2/pws"
	DefaultCacheTTL = 15 * time.Minute
)

type Config struct {
	StationID string
	APIKey    string
	BaseURL   string
	CacheTTL  time.Duration
	Timeout   time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client

	mu        sync.Mutex
	cached    *Observation
	fetchedAt time.Time
}

// Observation is one current-conditions sample. Imperial values come
// straight from the station; TempC is derived for the reading store.
type Observation struct {
	StationID   string    `json:"station_id"`
	ObsTime     time.Time `json:"obs_time"`
	TempF       float64   `json:"temperature_f"`
	TempC       float64   `json:"temperature_c"`
	Humidity    float64   `json:"humidity"`
	DewPointF   float64   `json:"dew_point_f"`
	WindSpeed   float64   `json:"wind_speed"`
	WindGust    float64   `json:"wind_gust"`
	Pressure    float64   `json:"pressure"`
	PrecipRate  float64   `json:"precip_rate"`
	PrecipAccum float64   `json:"precip_accum"`
	UV          float64   `json:"uv"`
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.StationID == "" {
		return nil, errors.New("weather: station id is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("weather: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type observationsResponse struct {
	Observations []struct {
		StationID  string  `json:"stationID"`
		ObsTimeUtc string  `json:"obsTimeUtc"`
		Humidity   float64 `json:"humidity"`
		UV         float64 `json:"uv"`
		Imperial   struct {
			Temp        float64 `json:"temp"`
			DewPt       float64 `json:"dewpt"`
			WindSpeed   float64 `json:"windSpeed"`
			WindGust    float64 `json:"windGust"`
			Pressure    float64 `json:"pressure"`
			PrecipRate  float64 `json:"precipRate"`
			PrecipTotal float64 `json:"precipTotal"`
		} `json:"imperial"`
	} `json:"observations"`
}

// Current returns the latest observation, served from a TTL cache so
// frequent evaluation cycles do not hammer the station API.
func (c *Client) Current(ctx context.Context) (*Observation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && time.Since(c.fetchedAt) < c.cfg.CacheTTL {
		return c.cached, nil
	}

	logger := common.GetLoggerWith(common.LoggerNameWeather)

	obs, err := c.fetch(ctx)
	if err != nil {
		if c.cached != nil {
			logger.Warn("Weather refresh failed, serving stale observation", zap.Error(err))
			return c.cached, nil
		}
		return nil, err
	}

	c.cached = obs
	c.fetchedAt = time.Now()
	logger.Info("Fetched outdoor observation",
		zap.String("station_id", obs.StationID),
		zap.Float64("temperature_f", obs.TempF),
		zap.Float64("humidity", obs.Humidity))
	return obs, nil
}

func (c *Client) fetch(ctx context.Context) (*Observation, error) {
	q := url.Values{}
	q.Set("stationId", c.cfg.StationID)
	q.Set("format", "json")
	q.Set("units", "e")
	q.Set("apiKey", c.cfg.APIKey)

	endpoint := fmt.Sprintf("%s/observations/current?%s", c.cfg.BaseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather: fetching observations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather: station %s: status %d", c.cfg.StationID, resp.StatusCode)
	}

	var body observationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("weather: decoding observations: %w", err)
	}
	if len(body.Observations) == 0 {
		return nil, fmt.Errorf("weather: station %s returned no observations", c.cfg.StationID)
	}

	raw := body.Observations[0]
	obsTime, err := time.Parse(time.RFC3339, raw.ObsTimeUtc)
	if err != nil {
		obsTime = time.Now().UTC()
	}

	return &Observation{
		StationID:   raw.StationID,
		ObsTime:     obsTime,
		TempF:       raw.Imperial.Temp,
		TempC:       units.ToCelsius(raw.Imperial.Temp),
		Humidity:    raw.Humidity,
		DewPointF:   raw.Imperial.DewPt,
		WindSpeed:   raw.Imperial.WindSpeed,
		WindGust:    raw.Imperial.WindGust,
		Pressure:    raw.Imperial.Pressure,
		PrecipRate:  raw.Imperial.PrecipRate,
		PrecipAccum: raw.Imperial.PrecipTotal,
		UV:          raw.UV,
	}, nil
}
