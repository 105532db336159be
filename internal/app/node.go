package app

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/metrics"   //nolint:depguard // Wired in app layer
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/probe"     //nolint:depguard // Wired in app layer
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
	"github.com/javila-dev/lyvio-plaftorm/internal/engine/health"
	"github.com/javila-dev/lyvio-plaftorm/internal/engine/pipeline"
	"github.com/javila-dev/lyvio-plaftorm/internal/engine/prepare"
	"github.com/javila-dev/lyvio-plaftorm/internal/engine/supervisor"
)

// NodeID is the unique identifier for the application Graft node.
const NodeID graft.ID = "app.main"

// Components is what the command line needs from the dependency graph.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*Components]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			pipeline.NodeID,
			prepare.NodeID,
			health.NodeID,
			supervisor.NodeID,
			probe.NodeID,
			metrics.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: runNode,
	})
}

func runNode(ctx context.Context) (*Components, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	pl, err := graft.Dep[*pipeline.Pipeline](ctx)
	if err != nil {
		return nil, err
	}
	preparer, err := graft.Dep[*prepare.Preparer](ctx)
	if err != nil {
		return nil, err
	}
	monitors, err := graft.Dep[*health.Factory](ctx)
	if err != nil {
		return nil, err
	}
	sup, err := graft.Dep[*supervisor.Supervisor](ctx)
	if err != nil {
		return nil, err
	}
	checkers, err := graft.Dep[*probe.Factory](ctx)
	if err != nil {
		return nil, err
	}
	collector, err := graft.Dep[*metrics.Collector](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    New(loader, pl, preparer, monitors, sup, checkers, collector, tracer, log),
		Logger: log,
	}, nil
}
