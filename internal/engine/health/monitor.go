// Package health runs the health probe of a started service on a timer.
package health

import (
	"context"
	"errors"
	"time"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
)

// Monitor checks the service periodically and reports health transitions.
// It only observes: an unhealthy service is never restarted.
type Monitor struct {
	cfg       domain.ProbeConfig
	checker   ports.HealthChecker
	reporters []ports.HealthReporter
	metrics   ports.Metrics
	logger    ports.Logger
}

// NewMonitor creates a Monitor.
func NewMonitor(
	cfg domain.ProbeConfig,
	checker ports.HealthChecker,
	metrics ports.Metrics,
	logger ports.Logger,
	reporters ...ports.HealthReporter,
) *Monitor {
	return &Monitor{
		cfg:       cfg,
		checker:   checker,
		reporters: reporters,
		metrics:   metrics,
		logger:    logger,
	}
}

// Run reports the starting state, waits for the start period and then checks every
// interval until ctx is done. Cancellation is not an error.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.cfg.Validate(); err != nil {
		return err
	}

	start := time.Now()
	machine := domain.NewHealthMachine(m.cfg)
	initial := machine.Status()
	initial.Since = start
	m.report(ctx, initial)

	timer := time.NewTimer(m.cfg.StartPeriod)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		result := m.check(ctx)
		if ctx.Err() != nil {
			return nil
		}
		now := time.Now()
		if status, changed := machine.Observe(result, now.Sub(start), now); changed {
			m.report(ctx, status)
		}
		timer.Reset(m.cfg.Interval)
	}
}

// check runs one check bounded by the probe timeout. A timeout counts as one failure.
func (m *Monitor) check(ctx context.Context) error {
	cctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	begin := time.Now()
	err := m.checker.Check(cctx)
	if err != nil && errors.Is(cctx.Err(), context.DeadlineExceeded) {
		err = errors.Join(domain.Tag(domain.ErrCheckTimeout, "timeout", m.cfg.Timeout.String()), err)
	}
	m.metrics.RecordHealthCheck(err, time.Since(begin))
	return err
}

func (m *Monitor) report(ctx context.Context, status domain.HealthStatus) {
	for _, r := range m.reporters {
		if err := r.Report(ctx, status); err != nil {
			m.logger.Error(err)
		}
	}
}
