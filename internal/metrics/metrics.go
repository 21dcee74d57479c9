package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector counts deployment outcomes for the /metrics endpoint. A nil
// Collector is valid and counts nothing.
type Collector struct {
	registry   *prometheus.Registry
	started    prometheus.Counter
	promoted   prometheus.Counter
	rolledBack prometheus.Counter
	failed     prometheus.Counter
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Collector{
		registry: reg,
		started: factory.NewCounter(prometheus.CounterOpts{
			Name: "shiftgate_deployments_started_total",
			Help: "Deployments accepted by the orchestrator.",
		}),
		promoted: factory.NewCounter(prometheus.CounterOpts{
			Name: "shiftgate_deployments_promoted_total",
			Help: "Deployments that reached the promoted state.",
		}),
		rolledBack: factory.NewCounter(prometheus.CounterOpts{
			Name: "shiftgate_deployments_rolled_back_total",
			Help: "Deployments reverted to the stable environment.",
		}),
		failed: factory.NewCounter(prometheus.CounterOpts{
			Name: "shiftgate_deployments_failed_total",
			Help: "Deployments that ended in the failed state.",
		}),
	}
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) Started() {
	if c != nil {
		c.started.Inc()
	}
}

func (c *Collector) Promoted() {
	if c != nil {
		c.promoted.Inc()
	}
}

func (c *Collector) RolledBack() {
	if c != nil {
		c.rolledBack.Inc()
	}
}

func (c *Collector) Failed() {
	if c != nil {
		c.failed.Inc()
	}
}
