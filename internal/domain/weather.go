package domain

import "time"

// ForecastPoint is one 3-hour interval of the forecast time series.
type ForecastPoint struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"` // °C
}

// Forecast is the ordered temperature series for one city, chronological
// as returned by the service. Points is empty, never nil, when the service
// had no data; renderers skip empty forecasts.
type Forecast struct {
	City   string          `json:"city"`
	Points []ForecastPoint `json:"points"`
}

// Empty reports whether the forecast carries no data points.
func (f Forecast) Empty() bool {
	return len(f.Points) == 0
}

// Snapshot is an instantaneous current/min/max temperature reading for one
// city.
type Snapshot struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`     // °C
	TempMin     float64 `json:"temperature_min"` // °C
	TempMax     float64 `json:"temperature_max"` // °C
}
