package supervisor

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/logger"  //nolint:depguard // Wired in engine wiring
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/metrics" //nolint:depguard // Wired in engine wiring
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/shell"   //nolint:depguard // Wired in engine wiring
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
)

// NodeID is the unique identifier for the supervisor Graft node.
const NodeID graft.ID = "engine.supervisor"

func init() {
	graft.Register(graft.Node[*Supervisor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, metrics.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Supervisor, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			collector, err := graft.Dep[*metrics.Collector](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(executor, collector, log), nil
		},
	})
}
