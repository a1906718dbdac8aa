package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"expediter/internal/kds"
)

// Collector exposes engine activity as Prometheus metrics. It implements the
// engine's Metrics interface and owns its own registry so the metrics server
// serves only expediter series.
type Collector struct {
	registry *prometheus.Registry

	commandsTotal  *prometheus.CounterVec
	ordersActive   prometheus.Gauge
	ordersArchived prometheus.Gauge
	stockedOut     prometheus.Gauge
	completionTime prometheus.Histogram
}

// NewCollector builds and registers the metric set.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "expediter_commands_total",
				Help: "Lifecycle commands processed, by command and result",
			},
			[]string{"command", "result"},
		),
		ordersActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "expediter_orders_active",
			Help: "Orders currently on the board",
		}),
		ordersArchived: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "expediter_orders_archived",
			Help: "Completed orders held in the recall archive",
		}),
		stockedOut: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "expediter_stock_unavailable",
			Help: "Menu items currently low or 86'd",
		}),
		completionTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "expediter_order_completion_seconds",
			Help:    "Wall time from order arrival to bump",
			Buckets: []float64{60, 180, 300, 420, 600, 900, 1200, 1800},
		}),
	}

	c.registry.MustRegister(
		c.commandsTotal,
		c.ordersActive,
		c.ordersArchived,
		c.stockedOut,
		c.completionTime,
	)
	return c
}

// Registry returns the registry backing the /metrics endpoint.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CommandProcessed counts one processed command by outcome.
func (c *Collector) CommandProcessed(command string, result kds.Result) {
	c.commandsTotal.WithLabelValues(command, result.String()).Inc()
}

// OrderCompleted observes the arrival-to-bump wait of a completed order.
func (c *Collector) OrderCompleted(wait time.Duration) {
	c.completionTime.Observe(wait.Seconds())
}

// BoardGauges records the current board sizes.
func (c *Collector) BoardGauges(active, archived, stockedOut int) {
	c.ordersActive.Set(float64(active))
	c.ordersArchived.Set(float64(archived))
	c.stockedOut.Set(float64(stockedOut))
}
