package domain

import "context"

// Geocoder resolves a city query to coordinates.
type Geocoder interface {
	// Geocode returns the first candidate for the query. found is false
	// when the service answered with zero candidates, which is an expected
	// outcome, not an error.
	Geocode(ctx context.Context, query LocationQuery) (loc Location, found bool, err error)
}

// WeatherSource fetches weather data for resolved coordinates.
type WeatherSource interface {
	// FetchForecast returns the 3-hourly temperature series for the
	// location. A response without data yields an empty Forecast and no
	// error.
	FetchForecast(ctx context.Context, loc Location) (Forecast, error)

	// FetchSnapshot returns the current conditions for the location.
	FetchSnapshot(ctx context.Context, loc Location) (Snapshot, error)
}
