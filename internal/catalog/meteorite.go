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

type meteoriteSnapshot struct {
	generation uint64
	meteorites []domain.Meteorite
	loadedAt   time.Time
}

// MeteoriteCatalog holds every loaded meteorite landing and answers filter
// queries.
type MeteoriteCatalog struct {
	snap    atomic.Pointer[meteoriteSnapshot]
	gen     atomic.Uint64
	cache   *lruCache[[]domain.Meteorite]
	metrics recorder
}

// NewMeteoriteCatalog returns an empty catalog that memoises up to cacheSize
// filter results. metrics may be nil.
func NewMeteoriteCatalog(cacheSize int, metrics *observability.Metrics) *MeteoriteCatalog {
	c := &MeteoriteCatalog{
		cache:   newLRUCache[[]domain.Meteorite](cacheSize),
		metrics: recorder{metrics: metrics, catalog: observability.CatalogMeteorites},
	}
	c.Replace(nil)
	return c
}

// Replace publishes a new meteorite set. The slice is copied.
func (c *MeteoriteCatalog) Replace(meteorites []domain.Meteorite) {
	c.snap.Store(&meteoriteSnapshot{
		generation: c.gen.Add(1),
		meteorites: slices.Clone(meteorites),
		loadedAt:   domain.Now(),
	})
	c.cache.purge()
	c.metrics.loaded(len(meteorites))
}

// Load reads a JSON array of meteorite records. On failure the catalog is
// emptied and the error is returned.
func (c *MeteoriteCatalog) Load(r io.Reader) error {
	meteorites, err := domain.DecodeMeteorites(r)
	if err != nil {
		c.Replace(nil)
		c.metrics.loadFailed()
		return fmt.Errorf("load meteorites: %w", err)
	}
	c.Replace(meteorites)
	return nil
}

// ApplyFilters returns the meteorites matching f, in load order.
func (c *MeteoriteCatalog) ApplyFilters(f domain.MeteoriteFilter) []domain.Meteorite {
	start := time.Now()
	snap := c.snap.Load()
	key := strconv.FormatUint(snap.generation, 10) + "|" + f.Key()

	if hit, ok := c.cache.get(key); ok {
		c.metrics.cache(true)
		c.metrics.filtered(start, len(hit))
		return slices.Clone(hit)
	}
	c.metrics.cache(false)

	out := make([]domain.Meteorite, 0, len(snap.meteorites))
	for _, m := range snap.meteorites {
		if f.Matches(m) {
			out = append(out, m)
		}
	}
	out = slices.Clip(out)
	c.cache.put(key, out)
	c.metrics.filtered(start, len(out))
	return slices.Clone(out)
}

// Meteorites returns a copy of every loaded meteorite.
func (c *MeteoriteCatalog) Meteorites() []domain.Meteorite {
	return slices.Clone(c.snap.Load().meteorites)
}

// Len returns the number of loaded meteorites.
func (c *MeteoriteCatalog) Len() int {
	return len(c.snap.Load().meteorites)
}

// LoadedAt returns when the current meteorite set was published.
func (c *MeteoriteCatalog) LoadedAt() time.Time {
	return c.snap.Load().loadedAt
}

// Describe renders the tooltip for a meteorite.
func (c *MeteoriteCatalog) Describe(m domain.Meteorite) string {
	return m.Describe()
}

// ResolveCoordinates returns the landing position of m, if it has one.
func (c *MeteoriteCatalog) ResolveCoordinates(m domain.Meteorite) (domain.Geo, bool) {
	return domain.ResolveCoordinates(m)
}

// ResolveYear returns the display year of m, or "Unknown".
func (c *MeteoriteCatalog) ResolveYear(m domain.Meteorite) string {
	return domain.ResolveYear(m)
}

// Facets summarises the loaded meteorites for the filter controls.
func (c *MeteoriteCatalog) Facets() MeteoriteFacets {
	return meteoriteFacets(c.snap.Load().meteorites)
}

// MeteoriteCollection wraps meteorites in a FeatureCollection.
func MeteoriteCollection(meteorites []domain.Meteorite) domain.FeatureCollection {
	features := make([]domain.Feature, 0, len(meteorites))
	for _, m := range meteorites {
		features = append(features, m.Feature())
	}
	return domain.NewFeatureCollection(features)
}
