package probe

import (
	"context"
	"net/http"

	"github.com/grindlemire/graft"
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/shell"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
)

// NodeID is the unique identifier for the checker factory Graft node.
const NodeID graft.ID = "adapter.probe"

func init() {
	graft.Register(graft.Node[*Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (*Factory, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(executor, &http.Client{}), nil
		},
	})
}
