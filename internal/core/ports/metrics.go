package ports

import (
	"time"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
)

// Metrics records build and runtime measurements.
//
//go:generate go run go.uber.org/mock/mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	RecordStage(status domain.StageStatus, elapsed time.Duration)
	RecordBuild(err error, elapsed time.Duration)
	RecordHealthCheck(err error, elapsed time.Duration)
	SetHealthState(state domain.HealthState)
	SetLiveWorkers(n int)
}
