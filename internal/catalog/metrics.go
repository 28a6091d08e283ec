package catalog

import (
	"time"

	"github.com/couchcryptid/impact-atlas/internal/observability"
)

// recorder reports catalog activity. A nil Metrics disables reporting, which
// is what the CLI uses.
type recorder struct {
	metrics *observability.Metrics
	catalog string
}

func (r recorder) loaded(n int) {
	if r.metrics == nil {
		return
	}
	r.metrics.CatalogRecords.WithLabelValues(r.catalog).Set(float64(n))
}

func (r recorder) loadFailed() {
	if r.metrics == nil {
		return
	}
	r.metrics.CatalogLoadErrors.WithLabelValues(r.catalog).Inc()
}

func (r recorder) cache(hit bool) {
	if r.metrics == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.metrics.FilterCache.WithLabelValues(r.catalog, result).Inc()
}

func (r recorder) filtered(start time.Time, n int) {
	if r.metrics == nil {
		return
	}
	r.metrics.FilterDuration.WithLabelValues(r.catalog).Observe(time.Since(start).Seconds())
	r.metrics.FilterResults.WithLabelValues(r.catalog).Observe(float64(n))
}
