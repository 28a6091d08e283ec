package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Catalog label values.
const (
	CatalogCraters    = "craters"
	CatalogMeteorites = "meteorites"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the atlas service.
type Metrics struct {
	CatalogRecords    *prometheus.GaugeVec   // labels: catalog
	CatalogLoadErrors *prometheus.CounterVec // labels: catalog
	CatalogReady      prometheus.Gauge

	// Filter metrics.
	FilterRequests *prometheus.CounterVec   // labels: catalog, outcome={ok,invalid}
	FilterDuration *prometheus.HistogramVec // labels: catalog
	FilterResults  *prometheus.HistogramVec // labels: catalog
	FilterCache    *prometheus.CounterVec   // labels: catalog, result={hit,miss}

	// NASA fetch metrics.
	FetchRequests *prometheus.CounterVec // labels: outcome={success,error}
	FetchDuration prometheus.Histogram

	// Export metrics.
	ExportedRecords *prometheus.CounterVec // labels: catalog
	RateLimited     prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.CatalogRecords,
		m.CatalogLoadErrors,
		m.CatalogReady,
		m.FilterRequests,
		m.FilterDuration,
		m.FilterResults,
		m.FilterCache,
		m.FetchRequests,
		m.FetchDuration,
		m.ExportedRecords,
		m.RateLimited,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CatalogRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "impact_atlas",
			Name:      "catalog_records",
			Help:      "Records currently loaded per catalog.",
		}, []string{"catalog"}),
		CatalogLoadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "impact_atlas",
			Name:      "catalog_load_errors_total",
			Help:      "Catalog loads that degraded to an empty catalog.",
		}, []string{"catalog"}),
		CatalogReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "impact_atlas",
			Name:      "catalog_ready",
			Help:      "1 once the startup load has finished, 0 before.",
		}),
		FilterRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "impact_atlas",
			Name:      "filter_requests_total",
			Help:      "Filter requests by catalog and outcome.",
		}, []string{"catalog", "outcome"}),
		FilterDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "impact_atlas",
			Name:      "filter_duration_seconds",
			Help:      "Time spent scanning a catalog for one filter.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"catalog"}),
		FilterResults: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "impact_atlas",
			Name:      "filter_results",
			Help:      "Number of records returned per filter.",
			Buckets:   []float64{0, 10, 100, 500, 1000, 5000, 10000, 50000},
		}, []string{"catalog"}),
		FilterCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "impact_atlas",
			Name:      "filter_cache_total",
			Help:      "Filter cache lookups by catalog and result.",
		}, []string{"catalog", "result"}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "impact_atlas",
			Name:      "nasa_fetch_requests_total",
			Help:      "NASA meteorite fetch attempts by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "impact_atlas",
			Name:      "nasa_fetch_duration_seconds",
			Help:      "NASA meteorite fetch duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ExportedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "impact_atlas",
			Name:      "exported_records_total",
			Help:      "Records written to Kafka by catalog.",
		}, []string{"catalog"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "impact_atlas",
			Name:      "rate_limited_requests_total",
			Help:      "API requests rejected by the rate limiter.",
		}),
	}
}
