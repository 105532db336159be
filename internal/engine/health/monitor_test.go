package health_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports/mocks"
	"github.com/javila-dev/lyvio-plaftorm/internal/engine/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type checkFunc func(ctx context.Context) error

func (f checkFunc) Check(ctx context.Context) error { return f(ctx) }

// scriptedChecker returns results in order and then keeps returning the last one.
type scriptedChecker struct {
	mu      sync.Mutex
	results []error
	calls   []time.Time
}

func (c *scriptedChecker) Check(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, time.Now())
	err := c.results[0]
	if len(c.results) > 1 {
		c.results = c.results[1:]
	}
	return err
}

type recordingReporter struct {
	mu       sync.Mutex
	statuses []domain.HealthStatus
}

func (r *recordingReporter) Report(_ context.Context, status domain.HealthStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
	return nil
}

func (r *recordingReporter) states() []domain.HealthState {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.HealthState, len(r.statuses))
	for i, s := range r.statuses {
		out[i] = s.State
	}
	return out
}

func probeConfig() domain.ProbeConfig {
	cfg := domain.DefaultProbeConfig()
	cfg.URL = "http://localhost:8000/"
	return cfg
}

func quietMetrics(t *testing.T) *mocks.MockMetrics {
	t.Helper()
	m := mocks.NewMockMetrics(gomock.NewController(t))
	m.EXPECT().RecordHealthCheck(gomock.Any(), gomock.Any()).AnyTimes()
	return m
}

func quietLogger(t *testing.T) *mocks.MockLogger {
	t.Helper()
	l := mocks.NewMockLogger(gomock.NewController(t))
	l.EXPECT().Error(gomock.Any()).AnyTimes()
	return l
}

func TestMonitor_StartPeriodThenInterval(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		checker := &scriptedChecker{results: []error{nil}}
		reporter := &recordingReporter{}
		ctx, cancel := context.WithCancel(context.Background())

		start := time.Now()
		done := make(chan error, 1)
		go func() {
			done <- health.NewMonitor(probeConfig(), checker, quietMetrics(t), quietLogger(t), reporter).Run(ctx)
		}()

		time.Sleep(39 * time.Second)
		synctest.Wait()
		assert.Empty(t, checker.calls, "no checks inside the start period")
		assert.Equal(t, []domain.HealthState{domain.HealthStarting}, reporter.states())

		time.Sleep(61 * time.Second)
		synctest.Wait()
		cancel()
		require.NoError(t, <-done)

		require.Len(t, checker.calls, 3)
		assert.Equal(t, 40*time.Second, checker.calls[0].Sub(start))
		assert.Equal(t, 70*time.Second, checker.calls[1].Sub(start))
		assert.Equal(t, 100*time.Second, checker.calls[2].Sub(start))
		assert.Equal(t, []domain.HealthState{domain.HealthStarting, domain.HealthHealthy}, reporter.states(),
			"only transitions are reported")
	})
}

func TestMonitor_ConsecutiveFailures(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		fail := errors.New("connection refused")
		checker := &scriptedChecker{results: []error{nil, fail, fail, fail, nil}}
		reporter := &recordingReporter{}
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			done <- health.NewMonitor(probeConfig(), checker, quietMetrics(t), quietLogger(t), reporter).Run(ctx)
		}()

		// Checks at 40s, 70s, 100s, 130s, 160s.
		time.Sleep(165 * time.Second)
		synctest.Wait()
		cancel()
		require.NoError(t, <-done)

		assert.Equal(t, []domain.HealthState{
			domain.HealthStarting, domain.HealthHealthy, domain.HealthUnhealthy, domain.HealthHealthy,
		}, reporter.states())

		reporter.mu.Lock()
		defer reporter.mu.Unlock()
		unhealthy := reporter.statuses[2]
		assert.Equal(t, 3, unhealthy.FailingStreak)
		assert.Equal(t, "connection refused", unhealthy.LastError)
		assert.Equal(t, 0, reporter.statuses[3].FailingStreak)
	})
}

func TestMonitor_ServiceGoesDown(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		cfg := probeConfig()
		cfg.StartPeriod = 40 * time.Second
		cfg.Interval = 30 * time.Second
		cfg.Retries = 3

		start := time.Now()
		// Serving from 10s until it stops responding after 100s.
		checker := checkFunc(func(context.Context) error {
			if up := time.Since(start); up >= 10*time.Second && up <= 100*time.Second {
				return nil
			}
			return errors.New("connection refused")
		})
		reporter := &recordingReporter{}
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- health.NewMonitor(cfg, checker, quietMetrics(t), quietLogger(t), reporter).Run(ctx)
		}()

		time.Sleep(189 * time.Second)
		synctest.Wait()
		assert.Equal(t, []domain.HealthState{domain.HealthStarting, domain.HealthHealthy}, reporter.states(),
			"two failures at 130s and 160s are not enough")

		time.Sleep(time.Second)
		synctest.Wait()
		cancel()
		require.NoError(t, <-done)

		assert.Equal(t, []domain.HealthState{
			domain.HealthStarting, domain.HealthHealthy, domain.HealthUnhealthy,
		}, reporter.states())
		reporter.mu.Lock()
		defer reporter.mu.Unlock()
		assert.Equal(t, 40*time.Second, reporter.statuses[1].Since.Sub(start))
		assert.Equal(t, 190*time.Second, reporter.statuses[2].Since.Sub(start))
		assert.Equal(t, 3, reporter.statuses[2].FailingStreak)
	})
}

func TestMonitor_TimeoutIsOneFailure(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		cfg := probeConfig()
		cfg.StartPeriod = 0
		cfg.Retries = 1

		var checked []time.Duration
		checker := checkFunc(func(ctx context.Context) error {
			begin := time.Now()
			<-ctx.Done()
			checked = append(checked, time.Since(begin))
			return ctx.Err()
		})

		ctrl := gomock.NewController(t)
		metrics := mocks.NewMockMetrics(ctrl)
		metrics.EXPECT().RecordHealthCheck(gomock.Any(), 10*time.Second).
			Do(func(err error, _ time.Duration) {
				assert.ErrorIs(t, err, domain.ErrCheckTimeout)
			})

		reporter := &recordingReporter{}
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- health.NewMonitor(cfg, checker, metrics, quietLogger(t), reporter).Run(ctx)
		}()

		time.Sleep(15 * time.Second)
		synctest.Wait()
		cancel()
		require.NoError(t, <-done)

		assert.Equal(t, []time.Duration{10 * time.Second}, checked)
		assert.Equal(t, []domain.HealthState{domain.HealthStarting, domain.HealthUnhealthy}, reporter.states())
	})
}

func TestMonitor_ReporterErrorsAreLogged(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		reporter := mocks.NewMockHealthReporter(ctrl)
		reporter.EXPECT().Report(gomock.Any(), gomock.Any()).Return(domain.ErrStatusUnavailable)

		logger := mocks.NewMockLogger(ctrl)
		logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
			assert.ErrorIs(t, err, domain.ErrStatusUnavailable)
		})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- health.NewMonitor(probeConfig(), &scriptedChecker{results: []error{nil}},
				quietMetrics(t), logger, reporter).Run(ctx)
		}()
		synctest.Wait()
		cancel()
		require.NoError(t, <-done)
	})
}

func TestMonitor_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := probeConfig()
	cfg.Retries = 0
	err := health.NewMonitor(cfg, &scriptedChecker{}, quietMetrics(t), quietLogger(t)).Run(context.Background())
	require.ErrorIs(t, err, domain.ErrInvalidProbeConfig)
}
