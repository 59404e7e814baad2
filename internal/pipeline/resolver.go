package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/city-weather-charts/internal/domain"
	"github.com/couchcryptid/city-weather-charts/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Resolver turns location queries into resolved locations through a
// Geocoder, pacing requests to respect the geocoding service's rate limit.
// The delay runs after every attempt, including misses and failures, so
// wall-clock spacing holds regardless of the outcome.
type Resolver struct {
	geocoder domain.Geocoder
	delay    time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewResolver creates a rate-limited resolver. The clock is injectable so
// tests can run batches without real wall-clock waits.
func NewResolver(geocoder domain.Geocoder, delay time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Resolver {
	return &Resolver{
		geocoder: geocoder,
		delay:    delay,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
	}
}

// Resolve looks up one query. found is false both for a geocoding miss and
// for a transport/decode failure; neither aborts the batch and both are
// logged here at their narrowest scope.
func (r *Resolver) Resolve(ctx context.Context, query domain.LocationQuery) (domain.Location, bool) {
	defer r.pause(ctx)

	r.logger.Info("fetching coordinates", "query", query.String())

	loc, found, err := r.geocoder.Geocode(ctx, query)
	if err != nil {
		r.logger.Warn("geocoding failed", "query", query.String(), "error", err)
		return domain.Location{}, false
	}
	if !found {
		r.logger.Info("no coordinates found", "query", query.String())
		return domain.Location{}, false
	}

	r.logger.Info("coordinates resolved",
		"query", query.String(),
		"name", loc.Name,
		"lat", loc.Latitude,
		"lon", loc.Longitude,
	)
	return loc, true
}

// pause blocks for the configured delay or until the context ends.
func (r *Resolver) pause(ctx context.Context) {
	if r.delay <= 0 {
		return
	}
	r.metrics.RateLimitWaitTotal.Inc()
	select {
	case <-ctx.Done():
	case <-r.clock.After(r.delay):
	}
}
