package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all CLI settings, populated from environment variables.
type Config struct {
	// OpenWeatherMap credential, shared by the geocoding and weather APIs.
	APIKey string

	RequestTimeout time.Duration // per-HTTP-request deadline
	RateLimitDelay time.Duration // enforced pause after every geocoding attempt

	// Persisted artifact paths, overwritten each batch run.
	CoordinatesFile   string
	ForecastFile      string
	WeatherFile       string
	ForecastChartFile string
	WeatherChartFile  string

	// Optional YAML file overriding chart style defaults.
	ChartStyleFile string

	LogLevel  string
	LogFormat string

	// Address for the optional /healthz + /metrics server; empty disables it.
	MetricsAddr string
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is honored when present.
// The OpenWeatherMap API key is required: without it no request can ever
// succeed, so its absence is a startup failure.
func Load() (*Config, error) {
	// Best effort; absence of a .env file is the normal case.
	_ = godotenv.Load()

	apiKey := os.Getenv("OPENWEATHERMAP_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENWEATHERMAP_API_KEY is required")
	}

	requestTimeout, err := parseDuration("REQUEST_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	rateLimitDelay, err := parseDuration("RATE_LIMIT_DELAY", "1s")
	if err != nil {
		return nil, err
	}

	return &Config{
		APIKey:         apiKey,
		RequestTimeout: requestTimeout,
		RateLimitDelay: rateLimitDelay,

		CoordinatesFile:   envOrDefault("COORDINATES_FILE", "city_coordinates.json"),
		ForecastFile:      envOrDefault("FORECAST_FILE", "city_weather_forecast.json"),
		WeatherFile:       envOrDefault("WEATHER_FILE", "city_weather_data.json"),
		ForecastChartFile: envOrDefault("FORECAST_CHART_FILE", "city_weather_forecast.png"),
		WeatherChartFile:  envOrDefault("WEATHER_CHART_FILE", "city_weather_data.png"),

		ChartStyleFile: os.Getenv("CHART_STYLE_FILE"),

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "text"),

		MetricsAddr: os.Getenv("METRICS_ADDR"),
	}, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	raw := envOrDefault(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}
