package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and analytics Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketlens",
			Name:      "search_requests_total",
			Help:      "Total number of catalog search requests",
		},
		[]string{"mode", "status"}, // mode: "resolve" / "search" / "analytics"
	)

	SearchHitCount = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "marketlens",
			Name:      "search_hit_count",
			Help:      "Number of catalog rows matched per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	CatalogRows = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "marketlens",
			Name:      "catalog_rows",
			Help:      "Number of product rows loaded in the catalog",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchHitCount)
	prometheus.MustRegister(CatalogRows)
	searchMetricsRegistered = true
}
