// Package metrics exposes build and runtime measurements to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/zerr"
)

const namespace = "stevedore"

// shutdownTimeout bounds how long the metrics server drains on shutdown.
const shutdownTimeout = 5 * time.Second

var _ ports.Metrics = (*Collector)(nil)

// Collector implements ports.Metrics on a private registry.
type Collector struct {
	registry *prometheus.Registry

	stages        *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	builds        *prometheus.CounterVec
	buildDuration prometheus.Histogram
	checks        *prometheus.CounterVec
	checkDuration prometheus.Histogram
	healthState   *prometheus.GaugeVec
	liveWorkers   prometheus.Gauge
}

// NewCollector creates a Collector and registers its metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		stages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stages_total",
			Help:      "Build stages by result.",
		}, []string{"result"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Time spent per build stage.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}, []string{"result"}),
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Image builds by result.",
		}, []string{"result"}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Time spent per image build.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 4, 10),
		}),
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "health_checks_total",
			Help:      "Health checks by result.",
		}, []string{"result"}),
		checkDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "health_check_duration_seconds",
			Help:      "Health check latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		healthState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "health_state",
			Help:      "1 for the current health state, 0 otherwise.",
		}, []string{"state"}),
		liveWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_workers",
			Help:      "Worker processes currently running.",
		}),
	}

	c.registry.MustRegister(
		c.stages, c.stageDuration,
		c.builds, c.buildDuration,
		c.checks, c.checkDuration,
		c.healthState, c.liveWorkers,
	)
	return c
}

// Registry returns the registry the metrics are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordStage counts a finished stage.
func (c *Collector) RecordStage(status domain.StageStatus, elapsed time.Duration) {
	c.stages.WithLabelValues(string(status)).Inc()
	c.stageDuration.WithLabelValues(string(status)).Observe(elapsed.Seconds())
}

// RecordBuild counts a finished build.
func (c *Collector) RecordBuild(err error, elapsed time.Duration) {
	c.builds.WithLabelValues(result(err)).Inc()
	c.buildDuration.Observe(elapsed.Seconds())
}

// RecordHealthCheck counts one health check.
func (c *Collector) RecordHealthCheck(err error, elapsed time.Duration) {
	c.checks.WithLabelValues(result(err)).Inc()
	c.checkDuration.Observe(elapsed.Seconds())
}

// SetHealthState flags the current health state.
func (c *Collector) SetHealthState(state domain.HealthState) {
	for _, s := range []domain.HealthState{domain.HealthStarting, domain.HealthHealthy, domain.HealthUnhealthy} {
		v := 0.0
		if s == state {
			v = 1
		}
		c.healthState.WithLabelValues(string(s)).Set(v)
	}
}

// SetLiveWorkers sets the number of running workers.
func (c *Collector) SetLiveWorkers(n int) {
	c.liveWorkers.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Serve serves /metrics on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to listen for metrics"), "addr", addr)
	}
	return c.serve(ctx, ln)
}

func (c *Collector) serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return zerr.Wrap(err, "metrics server stopped")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return zerr.Wrap(err, "failed to stop metrics server")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return zerr.Wrap(err, "metrics server stopped")
	}
	return nil
}

func result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
