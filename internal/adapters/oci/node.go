package oci

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/cas"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
)

const (
	// BaseNodeID is the unique identifier for the base provider Graft node.
	BaseNodeID graft.ID = "adapter.oci.base"
	// ExporterNodeID is the unique identifier for the image exporter Graft node.
	ExporterNodeID graft.ID = "adapter.oci.exporter"
)

func init() {
	graft.Register(graft.Node[ports.BaseProvider]{
		ID:        BaseNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.BaseProvider, error) {
			return NewBaseProvider(), nil
		},
	})

	graft.Register(graft.Node[ports.Exporter]{
		ID:        ExporterNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{cas.NodeID},
		Run: func(ctx context.Context) (ports.Exporter, error) {
			store, err := graft.Dep[ports.LayerStore](ctx)
			if err != nil {
				return nil, err
			}
			return NewExporter(store), nil
		},
	})
}
