package catalog

import (
	"cmp"
	"slices"

	"github.com/couchcryptid/impact-atlas/internal/domain"
)

// DefaultTopN is the size of the "largest" lists shown beside the globe.
const DefaultTopN = 10

// TopCraters returns the n largest craters by diameter. Ties keep input order.
func TopCraters(craters []domain.Crater, n int) []domain.Crater {
	if n <= 0 {
		return []domain.Crater{}
	}
	sorted := slices.Clone(craters)
	slices.SortStableFunc(sorted, func(a, b domain.Crater) int {
		return cmp.Compare(b.DiameterKm, a.DiameterKm)
	})
	return sorted[:min(n, len(sorted))]
}

// TopMeteorites returns the n heaviest meteorites that report a usable mass.
// Ties keep input order.
func TopMeteorites(meteorites []domain.Meteorite, n int) []domain.Meteorite {
	if n <= 0 {
		return []domain.Meteorite{}
	}
	type weighed struct {
		m    domain.Meteorite
		mass float64
	}
	withMass := make([]weighed, 0, len(meteorites))
	for _, m := range meteorites {
		if mass, ok := domain.MassGrams(m); ok {
			withMass = append(withMass, weighed{m: m, mass: mass})
		}
	}
	slices.SortStableFunc(withMass, func(a, b weighed) int {
		return cmp.Compare(b.mass, a.mass)
	})

	out := make([]domain.Meteorite, 0, min(n, len(withMass)))
	for _, w := range withMass[:min(n, len(withMass))] {
		out = append(out, w.m)
	}
	return out
}
