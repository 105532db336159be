// Package app implements the stevedore use cases on top of the build and runtime engines.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/config" //nolint:depguard // Wired in app layer
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/probe"  //nolint:depguard // Wired in app layer
	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
	"github.com/javila-dev/lyvio-plaftorm/internal/engine/health"
	"github.com/javila-dev/lyvio-plaftorm/internal/engine/pipeline"
	"github.com/javila-dev/lyvio-plaftorm/internal/engine/prepare"
	"github.com/javila-dev/lyvio-plaftorm/internal/engine/supervisor"
	"go.trai.ch/zerr"
)

// MetricsServer exposes the collected metrics over HTTP.
type MetricsServer interface {
	Serve(ctx context.Context, addr string) error
}

// App represents the main application logic.
type App struct {
	loader     ports.ConfigLoader
	pipeline   *pipeline.Pipeline
	preparer   *prepare.Preparer
	monitors   *health.Factory
	supervisor *supervisor.Supervisor
	checkers   *probe.Factory
	metrics    MetricsServer
	tracer     ports.Tracer
	logger     ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	pl *pipeline.Pipeline,
	preparer *prepare.Preparer,
	monitors *health.Factory,
	sup *supervisor.Supervisor,
	checkers *probe.Factory,
	metrics MetricsServer,
	tracer ports.Tracer,
	logger ports.Logger,
) *App {
	return &App{
		loader:     loader,
		pipeline:   pl,
		preparer:   preparer,
		monitors:   monitors,
		supervisor: sup,
		checkers:   checkers,
		metrics:    metrics,
		tracer:     tracer,
		logger:     logger,
	}
}

func buildOptions(s config.Settings) domain.BuildOptions {
	return domain.BuildOptions{
		ContextDir: s.ContextDir,
		StateDir:   s.StateDir,
		OutputDir:  s.OutputDir,
		NoCache:    s.NoCache,
	}
}

// Build loads the descriptor and builds the image into the output directory.
func (a *App) Build(ctx context.Context, s config.Settings) (*domain.BuildResult, error) {
	spec, err := a.loader.Load(s.Descriptor)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load descriptor")
	}

	start := time.Now()
	res, err := a.pipeline.Build(ctx, spec, buildOptions(s))
	if cerr := a.tracer.Close(); cerr != nil {
		a.logger.Error(cerr)
	}
	if err != nil {
		return nil, err
	}

	for _, st := range res.Stages {
		a.logger.Info(fmt.Sprintf("stage %s %s in %s", st.Name, st.Status, st.Duration.Round(time.Millisecond)))
	}
	a.logger.Info(fmt.Sprintf("built %s (%s) in %s: %d/%d stages cached, runs as %s",
		spec.Name, res.Manifest, time.Since(start).Round(time.Millisecond),
		res.CachedStages(), len(res.Stages), res.User))
	return res, nil
}

// Plan reports the stage keys and which stages a build would take from the cache.
func (a *App) Plan(ctx context.Context, s config.Settings) (*domain.BuildResult, error) {
	spec, err := a.loader.Load(s.Descriptor)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load descriptor")
	}
	return a.pipeline.Plan(ctx, spec, buildOptions(s))
}

// Clean removes the layer store and staging trees.
func (a *App) Clean(s config.Settings) error {
	if _, err := os.Stat(s.StateDir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := os.RemoveAll(s.StateDir); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove state directory"), "path", s.StateDir)
	}
	a.logger.Info("removed " + s.StateDir)
	return nil
}
