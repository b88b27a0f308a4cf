package pool

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "qldb"
	subsystem = "pool"
)

type statser interface {
	Stats() Stats
}

// metricsCollector exposes pool's state as Prometheus metrics.
type metricsCollector struct {
	labels prometheus.Labels
	pool   statser
}

// NewMetricsCollector creates a new metricsCollector.
func NewMetricsCollector(name string, pool statser) *metricsCollector {
	return &metricsCollector{
		pool: pool,
		labels: prometheus.Labels{
			"name": name,
		},
	}
}

// Describe implements prometheus.Collector.
func (c *metricsCollector) Describe(ch chan<- *prometheus.Desc) {
	prometheus.DescribeByCollect(c, ch)
}

// Collect implements prometheus.Collector.
func (c *metricsCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.pool.Stats()

	ch <- prometheus.MustNewConstMetric(
		prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "limit"),
			"The maximum number of sessions.",
			nil, c.labels,
		),
		prometheus.GaugeValue,
		float64(stats.Limit),
	)
	ch <- prometheus.MustNewConstMetric(
		prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "idle"),
			"The number of idle sessions.",
			nil, c.labels,
		),
		prometheus.GaugeValue,
		float64(stats.Idle),
	)
	ch <- prometheus.MustNewConstMetric(
		prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "in_use"),
			"The number of sessions currently in use.",
			nil, c.labels,
		),
		prometheus.GaugeValue,
		float64(stats.InUse),
	)
	ch <- prometheus.MustNewConstMetric(
		prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "created_total"),
			"The total number of created sessions.",
			nil, c.labels,
		),
		prometheus.CounterValue,
		float64(stats.Created),
	)
	ch <- prometheus.MustNewConstMetric(
		prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "closed_total"),
			"The total number of closed sessions.",
			nil, c.labels,
		),
		prometheus.CounterValue,
		float64(stats.Closed),
	)
}

// check interfaces
var (
	_ prometheus.Collector = (*metricsCollector)(nil)
)
