package catalog

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/impact-atlas/internal/domain"
	"github.com/couchcryptid/impact-atlas/internal/observability"
)

type craterSnapshot struct {
	generation uint64
	craters    []domain.Crater
	loadedAt   time.Time
}

// CraterCatalog holds every loaded crater and answers filter queries.
type CraterCatalog struct {
	snap    atomic.Pointer[craterSnapshot]
	gen     atomic.Uint64
	cache   *lruCache[[]domain.Crater]
	metrics recorder
}

// NewCraterCatalog returns an empty catalog that memoises up to cacheSize
// filter results. metrics may be nil.
func NewCraterCatalog(cacheSize int, metrics *observability.Metrics) *CraterCatalog {
	c := &CraterCatalog{
		cache:   newLRUCache[[]domain.Crater](cacheSize),
		metrics: recorder{metrics: metrics, catalog: observability.CatalogCraters},
	}
	c.Replace(nil)
	return c
}

// Replace publishes a new crater set. The slice is copied.
func (c *CraterCatalog) Replace(craters []domain.Crater) {
	c.snap.Store(&craterSnapshot{
		generation: c.gen.Add(1),
		craters:    slices.Clone(craters),
		loadedAt:   domain.Now(),
	})
	c.cache.purge()
	c.metrics.loaded(len(craters))
}

// Load reads a GeoJSON FeatureCollection. On failure the catalog is emptied
// and the error is returned for the caller to log.
func (c *CraterCatalog) Load(r io.Reader) error {
	craters, err := domain.DecodeCraterCollection(r)
	if err != nil {
		c.Replace(nil)
		c.metrics.loadFailed()
		return fmt.Errorf("load craters: %w", err)
	}
	c.Replace(craters)
	return nil
}

// Filter returns the craters matching f, in load order.
func (c *CraterCatalog) Filter(f domain.CraterFilter) []domain.Crater {
	start := time.Now()
	snap := c.snap.Load()
	key := strconv.FormatUint(snap.generation, 10) + "|" + f.Key()

	if hit, ok := c.cache.get(key); ok {
		c.metrics.cache(true)
		c.metrics.filtered(start, len(hit))
		return slices.Clone(hit)
	}
	c.metrics.cache(false)

	out := make([]domain.Crater, 0, len(snap.craters))
	for _, cr := range snap.craters {
		if f.Matches(cr) {
			out = append(out, cr)
		}
	}
	out = slices.Clip(out)
	c.cache.put(key, out)
	c.metrics.filtered(start, len(out))
	return slices.Clone(out)
}

// Craters returns a copy of every loaded crater.
func (c *CraterCatalog) Craters() []domain.Crater {
	return slices.Clone(c.snap.Load().craters)
}

// All returns the unfiltered catalog as a FeatureCollection.
func (c *CraterCatalog) All() domain.FeatureCollection {
	return CraterCollection(c.snap.Load().craters)
}

// Len returns the number of loaded craters.
func (c *CraterCatalog) Len() int {
	return len(c.snap.Load().craters)
}

// LoadedAt returns when the current crater set was published.
func (c *CraterCatalog) LoadedAt() time.Time {
	return c.snap.Load().loadedAt
}

// Describe renders the tooltip for a crater.
func (c *CraterCatalog) Describe(cr domain.Crater) string {
	return cr.Describe()
}

// Facets summarises the loaded craters for the filter controls.
func (c *CraterCatalog) Facets() CraterFacets {
	return craterFacets(c.snap.Load().craters)
}

// CraterCollection wraps craters in a FeatureCollection. Each feature carries
// its tooltip under "description".
func CraterCollection(craters []domain.Crater) domain.FeatureCollection {
	features := make([]domain.Feature, 0, len(craters))
	for _, cr := range craters {
		f := cr.Feature()
		f.Properties["description"] = cr.Describe()
		features = append(features, f)
	}
	return domain.NewFeatureCollection(features)
}
