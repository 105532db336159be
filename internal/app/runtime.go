package app

import (
	"context"
	"fmt"

	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/config" //nolint:depguard // Wired in app layer
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/probe"  //nolint:depguard // Wired in app layer
	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// runtimeUser is the owner workers run as, or nil when the descriptor opts out of
// privilege separation.
func runtimeUser(spec *domain.ImageSpec) *domain.Owner {
	if spec.AllowRoot {
		return nil
	}
	owner := spec.Identity.Owner()
	return &owner
}

// probeConfig is the descriptor's health section, or the default HTTP check when it
// has none. Serve and Probe use the same configuration.
func probeConfig(spec *domain.ImageSpec) domain.ProbeConfig {
	if spec.Probe != nil {
		return *spec.Probe
	}
	return domain.DefaultProbeConfig()
}

// Serve is the container entrypoint. It prepares the runtime directories, then runs
// the supervisor, the health monitor and, when an address is set, the metrics server
// until ctx is done or every worker has exited.
func (a *App) Serve(ctx context.Context, s config.Settings) error {
	spec, err := a.loader.Load(s.Descriptor)
	if err != nil {
		return zerr.Wrap(err, "failed to load descriptor")
	}
	if spec.AllowRoot {
		a.logger.Warn("workers keep the superuser identity because privilege.allow_root is set")
	}
	if _, err := a.preparer.Prepare(ctx, spec.RuntimeDirs); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	gctx, stop := context.WithCancel(gctx)
	defer stop()

	g.Go(func() error {
		defer stop()
		return a.supervisor.Run(gctx, spec.Supervisor, runtimeUser(spec))
	})
	monitor := a.monitors.Monitor(probeConfig(spec), spec.Supervisor.Env, spec.Supervisor.Dir, s.StatusFile)
	g.Go(func() error {
		return monitor.Run(gctx)
	})
	if s.MetricsAddr != "" {
		g.Go(func() error {
			return a.metrics.Serve(gctx, s.MetricsAddr)
		})
	}
	return g.Wait()
}

// Exec runs a one-off command such as a migration with the worker identity and
// environment.
func (a *App) Exec(ctx context.Context, s config.Settings, args []string) error {
	spec, err := a.loader.Load(s.Descriptor)
	if err != nil {
		return zerr.Wrap(err, "failed to load descriptor")
	}
	return a.supervisor.Exec(ctx, spec.Supervisor, args, runtimeUser(spec))
}

// Prepare creates the runtime directories without starting the service.
func (a *App) Prepare(ctx context.Context, s config.Settings) ([]domain.PrepareResult, error) {
	spec, err := a.loader.Load(s.Descriptor)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load descriptor")
	}
	return a.preparer.Prepare(ctx, spec.RuntimeDirs)
}

// Probe performs a single health check bounded by the probe timeout. A descriptor
// without a health section is checked with the default probe.
func (a *App) Probe(ctx context.Context, s config.Settings) error {
	spec, err := a.loader.Load(s.Descriptor)
	if err != nil {
		return zerr.Wrap(err, "failed to load descriptor")
	}
	cfg := probeConfig(spec)
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	if err := a.checkers.Checker(cfg, spec.Supervisor.Env, spec.Supervisor.Dir).Check(ctx); err != nil {
		if ctx.Err() != nil {
			return domain.Tag(domain.ErrCheckTimeout, "timeout", cfg.Timeout.String())
		}
		return err
	}
	return nil
}

// Status returns the last health status the monitor reported.
func (a *App) Status(s config.Settings) (domain.HealthStatus, error) {
	status, err := probe.NewStatusFile(s.StatusFile).Read()
	if err != nil {
		return domain.HealthStatus{}, err
	}
	a.logger.Info(fmt.Sprintf("service is %s (%d checks, failing streak %d)",
		status.State, status.Checks, status.FailingStreak))
	return status, nil
}
