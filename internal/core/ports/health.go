package ports

import (
	"context"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
)

// HealthChecker performs one health check.
//
//go:generate go run go.uber.org/mock/mockgen -source=health.go -destination=mocks/mock_health.go -package=mocks
type HealthChecker interface {
	// Check returns nil when the service is healthy. It must honor ctx cancellation.
	Check(ctx context.Context) error
}

// HealthReporter publishes health status transitions.
type HealthReporter interface {
	Report(ctx context.Context, status domain.HealthStatus) error
}
