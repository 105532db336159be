// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/javila-dev/lyvio-plaftorm/internal/adapters/cas"
	_ "github.com/javila-dev/lyvio-plaftorm/internal/adapters/config"
	_ "github.com/javila-dev/lyvio-plaftorm/internal/adapters/fs"
	_ "github.com/javila-dev/lyvio-plaftorm/internal/adapters/logger"
	_ "github.com/javila-dev/lyvio-plaftorm/internal/adapters/metrics"
	_ "github.com/javila-dev/lyvio-plaftorm/internal/adapters/oci"
	_ "github.com/javila-dev/lyvio-plaftorm/internal/adapters/pip"
	_ "github.com/javila-dev/lyvio-plaftorm/internal/adapters/probe"
	_ "github.com/javila-dev/lyvio-plaftorm/internal/adapters/rootfs"
	_ "github.com/javila-dev/lyvio-plaftorm/internal/adapters/shell"
	_ "github.com/javila-dev/lyvio-plaftorm/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "github.com/javila-dev/lyvio-plaftorm/internal/app"
	_ "github.com/javila-dev/lyvio-plaftorm/internal/engine/health"
	_ "github.com/javila-dev/lyvio-plaftorm/internal/engine/pipeline"
	_ "github.com/javila-dev/lyvio-plaftorm/internal/engine/prepare"
	_ "github.com/javila-dev/lyvio-plaftorm/internal/engine/supervisor"
)
