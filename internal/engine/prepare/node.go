package prepare

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/fs"     //nolint:depguard // Wired in engine wiring
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
)

// NodeID is the unique identifier for the runtime preparer Graft node.
const NodeID graft.ID = "engine.prepare"

func init() {
	graft.Register(graft.Node[*Preparer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.HostNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Preparer, error) {
			host, err := graft.Dep[ports.RuntimeFS](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(host, log), nil
		},
	})
}
