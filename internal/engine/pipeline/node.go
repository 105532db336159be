package pipeline

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/cas"       //nolint:depguard // Wired in engine wiring
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/metrics"   //nolint:depguard // Wired in engine wiring
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/oci"       //nolint:depguard // Wired in engine wiring
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/pip"       //nolint:depguard // Wired in engine wiring
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/rootfs"    //nolint:depguard // Wired in engine wiring
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/shell"     //nolint:depguard // Wired in engine wiring
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
)

// NodeID is the unique identifier for the build pipeline Graft node.
const NodeID graft.ID = "engine.pipeline"

func init() {
	graft.Register(graft.Node[*Pipeline]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			cas.NodeID,
			fs.HasherNodeID,
			fs.ResolverNodeID,
			rootfs.NodeID,
			oci.BaseNodeID,
			oci.ExporterNodeID,
			pip.ResolverNodeID,
			pip.OpenerNodeID,
			telemetry.NodeID,
			logger.NodeID,
			metrics.NodeID,
		},
		Run: func(ctx context.Context) (*Pipeline, error) {
			var deps Deps
			var err error
			if deps.Executor, err = graft.Dep[ports.Executor](ctx); err != nil {
				return nil, err
			}
			if deps.Store, err = graft.Dep[ports.LayerStore](ctx); err != nil {
				return nil, err
			}
			if deps.Hasher, err = graft.Dep[ports.Hasher](ctx); err != nil {
				return nil, err
			}
			if deps.Resolver, err = graft.Dep[ports.InputResolver](ctx); err != nil {
				return nil, err
			}
			if deps.Area, err = graft.Dep[ports.StagingArea](ctx); err != nil {
				return nil, err
			}
			if deps.Base, err = graft.Dep[ports.BaseProvider](ctx); err != nil {
				return nil, err
			}
			if deps.Exporter, err = graft.Dep[ports.Exporter](ctx); err != nil {
				return nil, err
			}
			if deps.Packages, err = graft.Dep[ports.DependencyResolver](ctx); err != nil {
				return nil, err
			}
			if deps.Indexes, err = graft.Dep[ports.IndexOpener](ctx); err != nil {
				return nil, err
			}
			if deps.Tracer, err = graft.Dep[ports.Tracer](ctx); err != nil {
				return nil, err
			}
			if deps.Logger, err = graft.Dep[ports.Logger](ctx); err != nil {
				return nil, err
			}
			collector, err := graft.Dep[*metrics.Collector](ctx)
			if err != nil {
				return nil, err
			}
			deps.Metrics = collector
			return New(deps), nil
		},
	})
}
