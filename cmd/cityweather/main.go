package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/city-weather-charts/internal/adapter/http"
	"github.com/couchcryptid/city-weather-charts/internal/adapter/jsonstore"
	"github.com/couchcryptid/city-weather-charts/internal/adapter/openweather"
	"github.com/couchcryptid/city-weather-charts/internal/cli"
	"github.com/couchcryptid/city-weather-charts/internal/config"
	"github.com/couchcryptid/city-weather-charts/internal/observability"
	"github.com/couchcryptid/city-weather-charts/internal/pipeline"
	"github.com/couchcryptid/city-weather-charts/internal/render"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	style, err := render.LoadStyle(cfg.ChartStyleFile)
	if err != nil {
		logger.Error("failed to load chart style", "error", err)
		os.Exit(1)
	}

	client := openweather.NewClient(cfg.APIKey, cfg.RequestTimeout, metrics, logger)
	store := jsonstore.NewStore(logger)
	renderer := render.NewRenderer(style, logger)
	resolver := pipeline.NewResolver(client, cfg.RateLimitDelay, clockwork.NewRealClock(), logger, metrics)

	defaultPaths := pipeline.Paths{
		Coordinates:   cfg.CoordinatesFile,
		Forecasts:     cfg.ForecastFile,
		Snapshots:     cfg.WeatherFile,
		ForecastChart: cfg.ForecastChartFile,
		SnapshotChart: cfg.WeatherChartFile,
	}

	defaultPipeline := pipeline.New(resolver, client, store, renderer, defaultPaths, logger, metrics)
	newRunner := func(outDir string) cli.BatchRunner {
		if outDir == "" {
			return defaultPipeline
		}
		return pipeline.New(resolver, client, store, renderer,
			pathsUnder(outDir, defaultPaths), logger, metrics)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *httpadapter.Server
	if cfg.MetricsAddr != "" {
		// Readiness tracks the default pipeline; per-run --out pipelines
		// are short-lived and not probed.
		srv = httpadapter.NewServer(cfg.MetricsAddr, defaultPipeline, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", "error", err)
			}
		}()
	}

	exitCode := cli.Execute(ctx, os.Args[1:], cli.Dependencies{
		NewRunner: newRunner,
		Version:   version,
	}, os.Stdout, os.Stderr)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", "error", err)
		}
	}

	os.Exit(exitCode)
}

// pathsUnder relocates every artifact into dir, keeping the configured
// file names. An empty dir keeps the paths as configured.
func pathsUnder(dir string, paths pipeline.Paths) pipeline.Paths {
	if dir == "" {
		return paths
	}
	return pipeline.Paths{
		Coordinates:   filepath.Join(dir, filepath.Base(paths.Coordinates)),
		Forecasts:     filepath.Join(dir, filepath.Base(paths.Forecasts)),
		Snapshots:     filepath.Join(dir, filepath.Base(paths.Snapshots)),
		ForecastChart: filepath.Join(dir, filepath.Base(paths.ForecastChart)),
		SnapshotChart: filepath.Join(dir, filepath.Base(paths.SnapshotChart)),
	}
}
