package rootfs

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
)

// NodeID is the unique identifier for the staging area Graft node.
const NodeID graft.ID = "adapter.rootfs"

func init() {
	graft.Register(graft.Node[ports.StagingArea]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.StagingArea, error) {
			return NewArea(), nil
		},
	})
}
