package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"featimp/internal/cfg"
	"featimp/internal/dataset"
	"featimp/internal/importance"
	"featimp/internal/metrics"
	"featimp/internal/model"
	"featimp/internal/plot"
	"featimp/internal/progress"
	"featimp/internal/server"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// .env is optional; missing files are fine.
	_ = godotenv.Load()

	if os.Getenv("DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	c, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	m := metrics.New()

	ds, labels, err := dataset.LoadCSV(c.DatasetPath, c.LabelColumn)
	if err != nil {
		log.Fatal().Err(err).Msg("dataset load failed")
	}

	mdl, cache := buildModel(c, m)
	if cache != nil {
		defer cache.Close()
	}

	var hub *progress.Hub
	var reporter progress.Reporter
	if c.Progress {
		if c.MetricsPort > 0 {
			hub = progress.NewHub()
			reporter = hub
		} else {
			reporter = progress.NewLogReporter(log.Logger, 1)
		}
	}

	srv := startServer(ctx, c, hub)

	interpOpts := []importance.Option{
		importance.WithLogger(log.Logger),
		importance.WithMetrics(m),
	}
	if labels != nil {
		interpOpts = append(interpOpts, importance.WithLabels(labels))
	}
	interpreter := importance.New(ds, interpOpts...)

	opts := importance.Options{
		Ascending:  c.Ascending,
		Workers:    c.Workers,
		Progress:   reporter,
		NSamples:   c.NSamples,
		Method:     importance.Method(c.Method),
		UseScaling: c.UseScaling,
		Seed:       c.Seed,
	}
	if c.Scorer != "" {
		sc, err := mdl.Scorers().Get(c.Scorer)
		if err != nil {
			log.Fatal().Err(err).Msg("scorer lookup failed")
		}
		opts.Scorer = sc
	}

	started := time.Now()
	scores, err := interpreter.FeatureImportance(ctx, mdl, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("feature importance failed")
	}
	log.Info().
		Int("features", len(scores)).
		Dur("elapsed", time.Since(started)).
		Msg("feature importance computed")

	render(c, scores)

	if hub != nil {
		hub.Close()
	}
	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown metrics server")
		}
	}
}

// buildModel wires the remote model client and, when configured, its
// prediction cache.
func buildModel(c cfg.Settings, m *metrics.Metrics) (model.Model, *model.PredictionCache) {
	if c.ModelEndpoint == "" {
		log.Fatal().Msg("MODEL_ENDPOINT is required: the engine explains a model served over HTTP")
	}

	var cache *model.PredictionCache
	if c.CachePath != "" {
		var err error
		cache, err = model.NewPredictionCache(c.CachePath)
		if err != nil {
			log.Warn().Err(err).Msg("prediction cache unavailable, continuing without it")
			cache = nil
		}
	}

	mdl, err := model.NewRemote(model.RemoteConfig{
		Endpoint: c.ModelEndpoint,
		Kind:     c.Kind(),
		Targets:  c.TargetClasses,
		Timeout:  c.ModelTimeout,
		Cache:    cache,
		Metrics:  m,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("model client failed")
	}
	return mdl, cache
}

// startServer starts the metrics/progress HTTP server when a port is
// configured.
func startServer(ctx context.Context, c cfg.Settings, hub *progress.Hub) *server.Server {
	if c.MetricsPort <= 0 {
		return nil
	}

	var progressHandler http.Handler
	if hub != nil {
		progressHandler = hub
	}
	srv := server.New(c.MetricsPort, progressHandler)
	go func() {
		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	return srv
}

// render draws the bar chart on the terminal, falling back to a plain
// listing when no display is attached.
func render(c cfg.Settings, scores []importance.Score) {
	chart := plot.BarChart{Width: c.PlotWidth}
	err := chart.RenderTerminal(scores)
	switch {
	case err == nil:
	case errors.Is(err, plot.ErrDisplayUnavailable):
		for _, s := range scores {
			fmt.Printf("%s\t%.6f\n", s.Feature, s.Value)
		}
	default:
		log.Error().Err(err).Msg("chart rendering failed")
	}
}
