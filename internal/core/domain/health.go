package domain

import "time"

// HealthState is the externally observed health of the running service.
type HealthState string

const (
	HealthStarting  HealthState = "starting"
	HealthHealthy   HealthState = "healthy"
	HealthUnhealthy HealthState = "unhealthy"
)

// Probe defaults.
const (
	DefaultProbeInterval    = 30 * time.Second
	DefaultProbeTimeout     = 10 * time.Second
	DefaultProbeStartPeriod = 40 * time.Second
	DefaultProbeRetries     = 3
	DefaultProbeURL         = "http://localhost:8000/"
)

// ProbeConfig configures the health probe. Exactly one of URL or Command is set.
type ProbeConfig struct {
	Interval    time.Duration
	Timeout     time.Duration
	StartPeriod time.Duration
	// Retries is the number of consecutive failures that mark the service unhealthy.
	Retries int
	URL     string
	Command []string
}

// DefaultProbeConfig returns the probe settings the service ships with.
func DefaultProbeConfig() ProbeConfig {
	return ProbeConfig{
		Interval:    DefaultProbeInterval,
		Timeout:     DefaultProbeTimeout,
		StartPeriod: DefaultProbeStartPeriod,
		Retries:     DefaultProbeRetries,
		URL:         DefaultProbeURL,
	}
}

// Validate checks the probe configuration.
func (c ProbeConfig) Validate() error {
	switch {
	case c.Interval <= 0:
		return Tag(ErrInvalidProbeConfig, "interval", c.Interval.String())
	case c.Timeout <= 0:
		return Tag(ErrInvalidProbeConfig, "timeout", c.Timeout.String())
	case c.StartPeriod < 0:
		return Tag(ErrInvalidProbeConfig, "start_period", c.StartPeriod.String())
	case c.Retries < 1:
		return Tag(ErrInvalidProbeConfig, "retries", c.Retries)
	case (c.URL == "") == (len(c.Command) == 0):
		return Tag(ErrInvalidProbeConfig, "check", "exactly one of url or command is required")
	}
	return nil
}

// HealthStatus is the reported health snapshot.
type HealthStatus struct {
	State         HealthState `json:"state"`
	FailingStreak int         `json:"failing_streak"`
	LastError     string      `json:"last_error,omitempty"`
	Checks        int         `json:"checks"`
	LastCheck     time.Time   `json:"last_check,omitzero"`
	Since         time.Time   `json:"since,omitzero"`
}

// HealthMachine is the probe state machine. It is not safe for concurrent use.
type HealthMachine struct {
	startPeriod time.Duration
	retries     int
	status      HealthStatus
}

// NewHealthMachine creates a machine in the starting state.
func NewHealthMachine(cfg ProbeConfig) *HealthMachine {
	return &HealthMachine{
		startPeriod: cfg.StartPeriod,
		retries:     cfg.Retries,
		status:      HealthStatus{State: HealthStarting},
	}
}

// Status returns the current snapshot.
func (m *HealthMachine) Status() HealthStatus {
	return m.status
}

// Observe records one check result taken elapsed after the container started.
// Results observed before the start period ends are ignored. It reports whether the
// state changed.
func (m *HealthMachine) Observe(result error, elapsed time.Duration, at time.Time) (HealthStatus, bool) {
	if elapsed < m.startPeriod {
		return m.status, false
	}

	prev := m.status.State
	m.status.Checks++
	m.status.LastCheck = at

	if result == nil {
		m.status.FailingStreak = 0
		m.status.LastError = ""
		m.status.State = HealthHealthy
	} else {
		m.status.FailingStreak++
		m.status.LastError = result.Error()
		if m.status.FailingStreak >= m.retries {
			m.status.State = HealthUnhealthy
		}
	}

	changed := m.status.State != prev
	if changed {
		m.status.Since = at
	}
	return m.status, changed
}
