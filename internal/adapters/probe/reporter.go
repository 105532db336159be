package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.HealthReporter = (*LogReporter)(nil)
	_ ports.HealthReporter = (*StatusFile)(nil)
	_ ports.HealthReporter = (*MetricsReporter)(nil)
)

// LogReporter logs health transitions.
type LogReporter struct {
	logger ports.Logger
}

// NewLogReporter creates a LogReporter.
func NewLogReporter(logger ports.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

// Report logs the status. Unhealthy transitions are warnings.
func (r *LogReporter) Report(_ context.Context, status domain.HealthStatus) error {
	if status.State == domain.HealthUnhealthy {
		r.logger.Warn(fmt.Sprintf("service is unhealthy after %d consecutive failures: %s",
			status.FailingStreak, status.LastError))
		return nil
	}
	r.logger.Info("service is " + string(status.State))
	return nil
}

// StatusFile persists the latest status as JSON so other processes can read it.
type StatusFile struct {
	path string
}

// NewStatusFile creates a StatusFile at path.
func NewStatusFile(path string) *StatusFile {
	return &StatusFile{path: path}
}

// Path returns the location of the status file.
func (s *StatusFile) Path() string {
	return s.path
}

// Report replaces the status file atomically.
func (s *StatusFile) Report(_ context.Context, status domain.HealthStatus) error {
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to encode health status")
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".health-*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write health status"), "path", s.path)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, "failed to write health status"), "path", s.path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write health status"), "path", s.path)
	}
	if err := os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write health status"), "path", s.path)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write health status"), "path", s.path)
	}
	return nil
}

// Read returns the last reported status.
func (s *StatusFile) Read() (domain.HealthStatus, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.HealthStatus{}, domain.Tag(domain.ErrStatusUnavailable, "path", s.path)
	}
	if err != nil {
		return domain.HealthStatus{}, errors.Join(domain.Tag(domain.ErrStatusUnavailable, "path", s.path), err)
	}
	var status domain.HealthStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return domain.HealthStatus{}, errors.Join(domain.Tag(domain.ErrStatusUnavailable, "path", s.path), err)
	}
	return status, nil
}

// MetricsReporter publishes the health state as a gauge.
type MetricsReporter struct {
	metrics ports.Metrics
}

// NewMetricsReporter creates a MetricsReporter.
func NewMetricsReporter(metrics ports.Metrics) *MetricsReporter {
	return &MetricsReporter{metrics: metrics}
}

// Report sets the health state gauge.
func (r *MetricsReporter) Report(_ context.Context, status domain.HealthStatus) error {
	r.metrics.SetHealthState(status.State)
	return nil
}
