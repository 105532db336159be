package pip

import (
	"context"
	"net/http"
	"time"

	"github.com/grindlemire/graft"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
)

const (
	// ResolverNodeID is the unique identifier for the dependency resolver Graft node.
	ResolverNodeID graft.ID = "adapter.pip.resolver"
	// OpenerNodeID is the unique identifier for the package index opener Graft node.
	OpenerNodeID graft.ID = "adapter.pip.opener"
)

const indexTimeout = 30 * time.Second

func init() {
	graft.Register(graft.Node[ports.DependencyResolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DependencyResolver, error) {
			return NewResolver(), nil
		},
	})

	graft.Register(graft.Node[ports.IndexOpener]{
		ID:        OpenerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.IndexOpener, error) {
			return NewOpener(&http.Client{Timeout: indexTimeout}), nil
		},
	})
}
