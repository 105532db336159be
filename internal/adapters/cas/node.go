package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
)

// NodeID is the unique identifier for the layer store Graft node.
const NodeID graft.ID = "adapter.layer_store"

func init() {
	graft.Register(graft.Node[ports.LayerStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.LayerStore, error) {
			store, err := NewStore()
			if err != nil {
				return nil, err
			}
			return store, nil
		},
	})
}
