// Package metrics holds the Prometheus collectors for the storefront.
//
// Scrape GET /metrics; the handler is mounted in cmd/balalaika.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// AdminWrites counts admin write attempts by collection, operation and result.
	AdminWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "balalaika",
			Subsystem: "admin",
			Name:      "writes_total",
			Help:      "Admin write operations against the catalog collections.",
		},
		[]string{"collection", "op", "result"},
	)

	// SnapshotsPublished counts full snapshots pushed to live feeds.
	SnapshotsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "balalaika",
			Subsystem: "live",
			Name:      "snapshots_published_total",
			Help:      "Full snapshots published per feed.",
		},
		[]string{"feed"},
	)

	// LiveSubscribers tracks open subscriptions per feed.
	LiveSubscribers = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "balalaika",
			Subsystem: "live",
			Name:      "subscribers",
			Help:      "Open live subscriptions per feed.",
		},
		[]string{"feed"},
	)
)

var registry = prometheus.NewRegistry()

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		AdminWrites,
		SnapshotsPublished,
		LiveSubscribers,
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Result maps an error to the "result" label.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
