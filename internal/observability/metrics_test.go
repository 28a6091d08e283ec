package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsForTesting(t *testing.T) {
	m := NewMetricsForTesting()

	m.CatalogRecords.WithLabelValues(CatalogCraters).Set(190)
	m.FilterCache.WithLabelValues(CatalogMeteorites, "hit").Inc()
	m.FilterCache.WithLabelValues(CatalogMeteorites, "hit").Inc()
	m.CatalogReady.Set(1)

	assert.InDelta(t, 190, testutil.ToFloat64(m.CatalogRecords.WithLabelValues(CatalogCraters)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.FilterCache.WithLabelValues(CatalogMeteorites, "hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CatalogReady), 0)
}

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.RateLimited.Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(a.RateLimited), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.RateLimited), 0)
}
