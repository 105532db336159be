// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
)

// Executor defines the interface for executing external commands.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the command to completion, streaming its output to stdout and stderr.
	// A non-zero exit is reported as domain.ErrCommandFailed.
	Execute(ctx context.Context, cmd domain.Command, stdout, stderr io.Writer) error
}
