// Package monitoring exposes the progress and the counters of a run as
// Prometheus metrics.
package monitoring

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sarchlab/cachesim/sim"
	"github.com/sarchlab/cachesim/simulation"
)

const namespace = "cachesim"

// A Collector is a hook that counts the accesses of a run into a Prometheus
// registry.
type Collector struct {
	registry *prometheus.Registry

	accessCounter *prometheus.CounterVec
	hitRateGauge  *prometheus.GaugeVec
	blocksGauge   prometheus.Gauge
}

// NewCollector creates a Collector with its own registry.
func NewCollector() (*Collector, error) {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		accessCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "accesses_total",
				Help:      "Number of simulated accesses",
			},
			[]string{"kind", "outcome"},
		),
		hitRateGauge: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "hit_rate",
				Help:      "Hit rate of a finished run",
			},
			[]string{"mapping", "organization"},
		),
		blocksGauge: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "blocks",
				Help:      "Number of blocks per logical cache",
			},
		),
	}

	for _, m := range []prometheus.Collector{
		c.accessCounter,
		c.hitRateGauge,
		c.blocksGauge,
	} {
		if err := c.registry.Register(m); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	return c, nil
}

// Registry returns the registry that holds the metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Func updates the metrics.
func (c *Collector) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case simulation.HookPosAccess:
		r := ctx.Item.(simulation.AccessResult)
		c.accessCounter.With(prometheus.Labels{
			"kind":    r.Access.Kind.String(),
			"outcome": r.Outcome(),
		}).Inc()
	case simulation.HookPosRunEnd:
		stats := ctx.Item.(simulation.Statistics)

		simulator, ok := ctx.Domain.(*simulation.Simulator)
		if !ok {
			return
		}

		cfg := simulator.Store().Config()
		c.hitRateGauge.With(prometheus.Labels{
			"mapping":      cfg.Mapping.String(),
			"organization": cfg.Organization.String(),
		}).Set(stats.HitRate())
		c.blocksGauge.Set(float64(simulator.Store().Geometry().NumBlocks))
	}
}

// WriteToTextfile writes the metrics in the text exposition format, so that
// the node exporter can pick them up.
func (c *Collector) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}

	return nil
}
