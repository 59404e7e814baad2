package openweather

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/city-weather-charts/internal/domain"
	"github.com/couchcryptid/city-weather-charts/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey        = "test-api-key"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(srvURL string) *Client {
	c := NewClient(testAPIKey, 5*time.Second, observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.geoBaseURL = srvURL
	c.forecastBaseURL = srvURL
	c.weatherBaseURL = srvURL
	// No retry waits in unit tests.
	c.backoff = BackoffConfig{MaxRetries: 0, InitialInterval: time.Millisecond}
	return c
}

func jsonHandler(t *testing.T, body string, check func(r *http.Request)) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		_, err := w.Write([]byte(body))
		require.NoError(t, err)
	}
}

func TestClient_Geocode_Success(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t,
		`[{"name":"London","lat":51.5073,"lon":-0.1276,"country":"GB","state":"England"}]`,
		func(r *http.Request) {
			assert.Equal(t, "London,GB", r.URL.Query().Get("q"))
			assert.Equal(t, testAPIKey, r.URL.Query().Get("appid"))
			assert.Equal(t, "1", r.URL.Query().Get("limit"))
		}))
	defer srv.Close()

	c := testClient(srv.URL)
	loc, found, err := c.Geocode(context.Background(), domain.LocationQuery{City: "London", CountryCode: "GB"})
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, "London", loc.Name)
	assert.Equal(t, 51.5073, loc.Latitude)
	assert.Equal(t, -0.1276, loc.Longitude)
	assert.Equal(t, "GB", loc.Country)
	assert.Equal(t, "England", loc.State)
}

func TestClient_Geocode_AbsentStateMapsToEmpty(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t,
		`[{"name":"Abuja","lat":9.064,"lon":7.489,"country":"NG"}]`, nil))
	defer srv.Close()

	c := testClient(srv.URL)
	loc, found, err := c.Geocode(context.Background(), domain.LocationQuery{City: "Abuja"})
	require.NoError(t, err)
	require.True(t, found)
	assert.Empty(t, loc.State)
}

func TestClient_Geocode_NoResults(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, `[]`, nil))
	defer srv.Close()

	c := testClient(srv.URL)
	loc, found, err := c.Geocode(context.Background(), domain.LocationQuery{City: "Nowhereville"})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, loc)
}

func TestClient_Geocode_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid API key"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, found, err := c.Geocode(context.Background(), domain.LocationQuery{City: "London"})
	require.Error(t, err)
	assert.False(t, found)
	assert.Contains(t, err.Error(), "401")
}

func TestClient_Geocode_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, `{not json`, nil))
	defer srv.Close()

	c := testClient(srv.URL)
	_, found, err := c.Geocode(context.Background(), domain.LocationQuery{City: "London"})
	require.Error(t, err)
	assert.False(t, found)
}

func TestClient_Geocode_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient = &http.Client{Timeout: 50 * time.Millisecond}

	_, _, err := c.Geocode(context.Background(), domain.LocationQuery{City: "London"})
	require.Error(t, err)
}

func TestClient_Geocode_RetriesServerError(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`[{"name":"London","lat":51.5,"lon":-0.1,"country":"GB"}]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.backoff = BackoffConfig{MaxRetries: 2, InitialInterval: time.Millisecond}

	_, found, err := c.Geocode(context.Background(), domain.LocationQuery{City: "London"})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(2), calls.Load())
}

func TestClient_FetchForecast_Success(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t,
		`{"list":[
			{"dt_txt":"2024-03-01 12:00:00","main":{"temp":7.5}},
			{"dt_txt":"2024-03-01 15:00:00","main":{"temp":9.1}}
		]}`,
		func(r *http.Request) {
			assert.Equal(t, "metric", r.URL.Query().Get("units"))
			assert.NotEmpty(t, r.URL.Query().Get("lat"))
			assert.NotEmpty(t, r.URL.Query().Get("lon"))
		}))
	defer srv.Close()

	c := testClient(srv.URL)
	loc := domain.Location{Name: "London", Latitude: 51.5, Longitude: -0.1}
	forecast, err := c.FetchForecast(context.Background(), loc)
	require.NoError(t, err)

	assert.Equal(t, "London", forecast.City)
	require.Len(t, forecast.Points, 2)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), forecast.Points[0].Timestamp)
	assert.Equal(t, 7.5, forecast.Points[0].Temperature)
	assert.True(t, forecast.Points[0].Timestamp.Before(forecast.Points[1].Timestamp))
}

func TestClient_FetchForecast_EmptyList(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, `{"list":[]}`, nil))
	defer srv.Close()

	c := testClient(srv.URL)
	forecast, err := c.FetchForecast(context.Background(), domain.Location{Name: "London"})
	require.NoError(t, err)
	assert.True(t, forecast.Empty())
	assert.NotNil(t, forecast.Points)
}

func TestClient_FetchForecast_MissingList(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, `{}`, nil))
	defer srv.Close()

	c := testClient(srv.URL)
	forecast, err := c.FetchForecast(context.Background(), domain.Location{Name: "London"})
	require.NoError(t, err)
	assert.True(t, forecast.Empty())
}

func TestClient_FetchForecast_SkipsBadTimestamp(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t,
		`{"list":[
			{"dt_txt":"garbage","main":{"temp":1}},
			{"dt_txt":"2024-03-01 15:00:00","main":{"temp":2}}
		]}`, nil))
	defer srv.Close()

	c := testClient(srv.URL)
	forecast, err := c.FetchForecast(context.Background(), domain.Location{Name: "London"})
	require.NoError(t, err)
	require.Len(t, forecast.Points, 1)
	assert.Equal(t, 2.0, forecast.Points[0].Temperature)
}

func TestClient_FetchSnapshot_Success(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t,
		`{"name":"City of London","main":{"temp":8.2,"temp_min":5.1,"temp_max":11.4}}`, nil))
	defer srv.Close()

	c := testClient(srv.URL)
	snap, err := c.FetchSnapshot(context.Background(), domain.Location{Name: "London", Latitude: 51.5, Longitude: -0.1})
	require.NoError(t, err)

	// The station name from the response wins over the geocoded one.
	assert.Equal(t, "City of London", snap.City)
	assert.Equal(t, 8.2, snap.Temperature)
	assert.Equal(t, 5.1, snap.TempMin)
	assert.Equal(t, 11.4, snap.TempMax)
}

func TestClient_FetchSnapshot_MissingNameKeepsResolvedCity(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t,
		`{"main":{"temp":8.2,"temp_min":5.1,"temp_max":11.4}}`, nil))
	defer srv.Close()

	c := testClient(srv.URL)
	snap, err := c.FetchSnapshot(context.Background(), domain.Location{Name: "London"})
	require.NoError(t, err)
	assert.Equal(t, "London", snap.City)
}

func TestClient_FetchSnapshot_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.FetchSnapshot(context.Background(), domain.Location{Name: "London"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
