package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/city-weather-charts/internal/domain"
	"github.com/couchcryptid/city-weather-charts/internal/observability"
	"github.com/sony/gobreaker"
)

const (
	defaultGeoBaseURL      = "https://api.openweathermap.org/geo/1.0/direct"
	defaultForecastBaseURL = "https://api.openweathermap.org/data/2.5/forecast"
	defaultWeatherBaseURL  = "https://api.openweathermap.org/data/2.5/weather"

	// Forecast timestamps arrive as "2024-03-01 12:00:00" in UTC.
	forecastTimeLayout = "2006-01-02 15:04:05"
)

// Client implements domain.Geocoder and domain.WeatherSource against the
// OpenWeatherMap geocoding, forecast, and current-weather APIs.
type Client struct {
	apiKey     string
	httpClient *http.Client

	geoBaseURL      string
	forecastBaseURL string
	weatherBaseURL  string

	backoff BackoffConfig
	circuit *gobreaker.CircuitBreaker

	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewClient creates an OpenWeatherMap client. The timeout bounds each HTTP
// request; transient upstream failures are retried with backoff behind a
// circuit breaker.
func NewClient(apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweathermap",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		geoBaseURL:      defaultGeoBaseURL,
		forecastBaseURL: defaultForecastBaseURL,
		weatherBaseURL:  defaultWeatherBaseURL,
		backoff: BackoffConfig{
			MaxRetries:      2,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		circuit: cb,
		metrics: metrics,
		logger:  logger,
	}
}

// Geocode resolves a city query to coordinates using the first candidate
// returned by the geocoding API. found is false on an empty candidate list.
func (c *Client) Geocode(ctx context.Context, query domain.LocationQuery) (domain.Location, bool, error) {
	params := url.Values{
		"q":     {query.String()},
		"appid": {c.apiKey},
		"limit": {"1"},
	}

	var candidates []geoCandidate
	if err := c.getJSON(ctx, c.geoBaseURL, params, &candidates); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.Location{}, false, fmt.Errorf("geocode %q: %w", query, err)
	}

	if len(candidates) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
		return domain.Location{}, false, nil
	}

	c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	first := candidates[0]
	return domain.Location{
		Name:      first.Name,
		Latitude:  first.Lat,
		Longitude: first.Lon,
		Country:   first.Country,
		State:     first.State,
	}, true, nil
}

// FetchForecast returns the 3-hourly temperature series for the location,
// in server order. A response without a list yields an empty Forecast.
func (c *Client) FetchForecast(ctx context.Context, loc domain.Location) (domain.Forecast, error) {
	var payload forecastResponse
	if err := c.getJSON(ctx, c.forecastBaseURL, c.coordParams(loc), &payload); err != nil {
		c.metrics.WeatherRequests.WithLabelValues("forecast", "error").Inc()
		return domain.Forecast{}, fmt.Errorf("fetch forecast for %s: %w", loc.Name, err)
	}
	c.metrics.WeatherRequests.WithLabelValues("forecast", "success").Inc()

	forecast := domain.Forecast{
		City:   loc.Name,
		Points: make([]domain.ForecastPoint, 0, len(payload.List)),
	}
	for _, entry := range payload.List {
		ts, err := time.ParseInLocation(forecastTimeLayout, entry.DtTxt, time.UTC)
		if err != nil {
			c.logger.Warn("skipping forecast entry with bad timestamp",
				"city", loc.Name, "dt_txt", entry.DtTxt, "error", err)
			continue
		}
		forecast.Points = append(forecast.Points, domain.ForecastPoint{
			Timestamp:   ts,
			Temperature: entry.Main.Temp,
		})
	}

	if forecast.Empty() {
		c.logger.Info("no forecast data available", "city", loc.Name)
	}
	return forecast, nil
}

// FetchSnapshot returns the current conditions for the location.
func (c *Client) FetchSnapshot(ctx context.Context, loc domain.Location) (domain.Snapshot, error) {
	var payload currentResponse
	if err := c.getJSON(ctx, c.weatherBaseURL, c.coordParams(loc), &payload); err != nil {
		c.metrics.WeatherRequests.WithLabelValues("current", "error").Inc()
		return domain.Snapshot{}, fmt.Errorf("fetch current weather for %s: %w", loc.Name, err)
	}
	c.metrics.WeatherRequests.WithLabelValues("current", "success").Inc()

	// The weather endpoint labels the station it picked for the
	// coordinates; prefer that name and fall back to the resolved one.
	city := payload.Name
	if city == "" {
		city = loc.Name
	}
	return domain.Snapshot{
		City:        city,
		Temperature: payload.Main.Temp,
		TempMin:     payload.Main.TempMin,
		TempMax:     payload.Main.TempMax,
	}, nil
}

func (c *Client) coordParams(loc domain.Location) url.Values {
	return url.Values{
		"lat":   {fmt.Sprintf("%f", loc.Latitude)},
		"lon":   {fmt.Sprintf("%f", loc.Longitude)},
		"appid": {c.apiKey},
		"units": {"metric"},
	}
}

// getJSON performs a GET with retries and decodes the 2xx response body into out.
func (c *Client) getJSON(ctx context.Context, baseURL string, params url.Values, out any) error {
	fullURL := baseURL + "?" + params.Encode()

	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, c.httpClient, c.backoff, c.circuit, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("openweathermap API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// OpenWeatherMap API response types.

type geoCandidate struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	State   string  `json:"state"`
}

type forecastResponse struct {
	List []struct {
		DtTxt string `json:"dt_txt"`
		Main  struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
	} `json:"list"`
}

type currentResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp    float64 `json:"temp"`
		TempMin float64 `json:"temp_min"`
		TempMax float64 `json:"temp_max"`
	} `json:"main"`
}
