package catalog

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/couchcryptid/impact-atlas/internal/domain"
)

// FacetCount is one distinct categorical value and how many records carry it.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CraterFacets lists the categorical values and slider bounds observed in the
// crater catalog.
type CraterFacets struct {
	TargetRocks   []FacetCount `json:"target_rocks"`
	CraterTypes   []FacetCount `json:"crater_types"`
	MaxDiameterKm float64      `json:"max_diameter_km"`
	MaxAgeMyr     float64      `json:"max_age_myr"`
}

// MeteoriteFacets lists the classes and slider bounds observed in the
// meteorite catalog. Year bounds are zero when no record has a usable year.
type MeteoriteFacets struct {
	Classes      []FacetCount `json:"classes"`
	MinYear      int          `json:"min_year"`
	MaxYear      int          `json:"max_year"`
	MaxMassGrams float64      `json:"max_mass_grams"`
}

func craterFacets(craters []domain.Crater) CraterFacets {
	targets := make(map[string]int)
	types := make(map[string]int)
	var out CraterFacets
	for _, c := range craters {
		if c.Target != "" {
			targets[c.Target]++
		}
		if c.CraterType != "" {
			types[c.CraterType]++
		}
		out.MaxDiameterKm = max(out.MaxDiameterKm, c.DiameterKm)
		// The default upper bound only stands in for an unparseable age.
		if c.AgeRaw != "" && domain.ParseAge(c.AgeRaw).Kind != domain.AgeNoMatch {
			out.MaxAgeMyr = max(out.MaxAgeMyr, c.AgeMax)
		}
	}
	out.TargetRocks = sortedFacets(targets)
	out.CraterTypes = sortedFacets(types)
	return out
}

func meteoriteFacets(meteorites []domain.Meteorite) MeteoriteFacets {
	classes := make(map[string]int)
	var out MeteoriteFacets
	seenYear := false
	for _, m := range meteorites {
		if m.RecClass != "" {
			classes[m.RecClass]++
		}
		if mass, ok := domain.MassGrams(m); ok {
			out.MaxMassGrams = max(out.MaxMassGrams, mass)
		}
		year, err := strconv.Atoi(domain.ResolveYear(m))
		if err != nil {
			continue
		}
		if !seenYear {
			out.MinYear, out.MaxYear = year, year
			seenYear = true
			continue
		}
		out.MinYear = min(out.MinYear, year)
		out.MaxYear = max(out.MaxYear, year)
	}
	out.Classes = sortedFacets(classes)
	return out
}

// sortedFacets orders by descending count, then value.
func sortedFacets(counts map[string]int) []FacetCount {
	out := make([]FacetCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, FacetCount{Value: v, Count: n})
	}
	slices.SortFunc(out, func(a, b FacetCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})
	return out
}
