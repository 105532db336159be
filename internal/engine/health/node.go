package health

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/logger"  //nolint:depguard // Wired in engine wiring
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/metrics" //nolint:depguard // Wired in engine wiring
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/probe"   //nolint:depguard // Wired in engine wiring
	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
)

// NodeID is the unique identifier for the monitor factory Graft node.
const NodeID graft.ID = "engine.health"

// Factory builds monitors for a probe configuration with the wired checkers and sinks.
type Factory struct {
	checkers *probe.Factory
	metrics  ports.Metrics
	logger   ports.Logger
}

// NewFactory creates a Factory.
func NewFactory(checkers *probe.Factory, metrics ports.Metrics, logger ports.Logger) *Factory {
	return &Factory{checkers: checkers, metrics: metrics, logger: logger}
}

// Monitor returns a monitor for cfg that reports to the log, the metrics and the
// status file at statusPath. Command checks run with env in dir.
func (f *Factory) Monitor(cfg domain.ProbeConfig, env []string, dir, statusPath string) *Monitor {
	reporters := []ports.HealthReporter{probe.NewLogReporter(f.logger), probe.NewMetricsReporter(f.metrics)}
	if statusPath != "" {
		reporters = append(reporters, probe.NewStatusFile(statusPath))
	}
	return NewMonitor(cfg, f.checkers.Checker(cfg, env, dir), f.metrics, f.logger, reporters...)
}

func init() {
	graft.Register(graft.Node[*Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{probe.NodeID, metrics.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Factory, error) {
			checkers, err := graft.Dep[*probe.Factory](ctx)
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
			return NewFactory(checkers, collector, log), nil
		},
	})
}
