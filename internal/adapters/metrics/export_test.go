package metrics

import (
	"context"
	"net"
)

// ServeListener exposes serve for tests that need an ephemeral port.
func (c *Collector) ServeListener(ctx context.Context, ln net.Listener) error {
	return c.serve(ctx, ln)
}
