package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/city-weather-charts/internal/domain"
	"github.com/couchcryptid/city-weather-charts/internal/observability"
)

// Mode selects which weather product a batch run retrieves.
type Mode string

const (
	ModeForecast Mode = "forecast"
	ModeCurrent  Mode = "current"
)

// Store persists a record list to a named file.
type Store interface {
	Save(records any, path string) error
}

// Renderer produces chart artifacts from weather records.
type Renderer interface {
	RenderForecasts(forecasts []domain.Forecast, path string) error
	RenderSnapshots(snapshots []domain.Snapshot, path string) error
}

// Paths names the artifacts one batch run produces.
type Paths struct {
	Coordinates   string
	Forecasts     string
	Snapshots     string
	ForecastChart string
	SnapshotChart string
}

// Result is the working set of one batch run. Failures truncate a city's
// contribution at the failing stage without touching its siblings, so the
// slices may be shorter than Queries; order follows input order.
type Result struct {
	Queries   []domain.LocationQuery
	Locations []domain.Location
	Forecasts []domain.Forecast
	Snapshots []domain.Snapshot
}

// Pipeline drives queries through resolution and retrieval, then fans the
// survivors out to persistence and rendering. Execution is strictly
// sequential: one in-flight request at a time keeps the external services'
// rate limits satisfied deterministically.
type Pipeline struct {
	resolver *Resolver
	source   domain.WeatherSource
	store    Store
	renderer Renderer
	paths    Paths
	logger   *slog.Logger
	metrics  *observability.Metrics
	ready    atomic.Bool
}

// New creates a Pipeline with the given stages.
func New(resolver *Resolver, source domain.WeatherSource, store Store, renderer Renderer, paths Paths, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		resolver: resolver,
		source:   source,
		store:    store,
		renderer: renderer,
		paths:    paths,
		logger:   logger,
		metrics:  metrics,
	}
}

// CheckReadiness returns nil once the pipeline has completed at least one
// batch run.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a batch yet")
	}
	return nil
}

// Run processes one batch of raw user input in the given mode. Only an
// unknown mode or unparseable input returns an error, before any side
// effects; every per-city failure is logged and skipped, and persistence
// or rendering failures degrade to log lines.
func (p *Pipeline) Run(ctx context.Context, rawInput string, mode Mode) (Result, error) {
	if mode != ModeForecast && mode != ModeCurrent {
		return Result{}, fmt.Errorf("unknown pipeline mode %q", mode)
	}

	queries, err := domain.ParseQueries(rawInput)
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	p.metrics.BatchesRun.Inc()
	p.metrics.CitiesQueried.Add(float64(len(queries)))
	defer func() {
		p.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	}()

	// Slices start non-nil so empty runs persist as [] rather than null.
	result := Result{
		Queries:   queries,
		Locations: make([]domain.Location, 0, len(queries)),
	}

	for _, query := range queries {
		loc, ok := p.resolver.Resolve(ctx, query)
		if !ok {
			continue
		}
		p.metrics.CitiesResolved.Inc()
		result.Locations = append(result.Locations, loc)
	}

	p.save(result.Locations, p.paths.Coordinates)

	if mode == ModeForecast {
		p.runForecast(ctx, &result)
	} else {
		p.runCurrent(ctx, &result)
	}

	p.ready.Store(true)
	return result, nil
}

func (p *Pipeline) runForecast(ctx context.Context, result *Result) {
	result.Forecasts = make([]domain.Forecast, 0, len(result.Locations))
	for _, loc := range result.Locations {
		p.logger.Info("fetching weather forecast", "city", loc.Name)
		forecast, err := p.source.FetchForecast(ctx, loc)
		if err != nil {
			p.logger.Warn("forecast retrieval failed, skipping city", "city", loc.Name, "error", err)
			continue
		}
		result.Forecasts = append(result.Forecasts, forecast)
	}

	p.save(result.Forecasts, p.paths.Forecasts)
	p.render(func() error {
		return p.renderer.RenderForecasts(result.Forecasts, p.paths.ForecastChart)
	})
}

func (p *Pipeline) runCurrent(ctx context.Context, result *Result) {
	result.Snapshots = make([]domain.Snapshot, 0, len(result.Locations))
	for _, loc := range result.Locations {
		p.logger.Info("fetching current weather", "city", loc.Name)
		snapshot, err := p.source.FetchSnapshot(ctx, loc)
		if err != nil {
			p.logger.Warn("snapshot retrieval failed, skipping city", "city", loc.Name, "error", err)
			continue
		}
		result.Snapshots = append(result.Snapshots, snapshot)
	}

	p.save(result.Snapshots, p.paths.Snapshots)
	p.render(func() error {
		return p.renderer.RenderSnapshots(result.Snapshots, p.paths.SnapshotChart)
	})
}

// save persists records, downgrading write failures to a log line so the
// rest of the run continues.
func (p *Pipeline) save(records any, path string) {
	if err := p.store.Save(records, path); err != nil {
		p.logger.Error("persist failed", "path", path, "error", err)
	}
}

func (p *Pipeline) render(render func() error) {
	if err := render(); err != nil {
		p.logger.Error("chart rendering failed", "error", err)
	}
}
