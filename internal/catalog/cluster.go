package catalog

import (
	"cmp"
	"errors"
	"slices"

	geohash "github.com/TomiHiltunen/geohash-golang"

	"github.com/couchcryptid/impact-atlas/internal/domain"
)

// Geohash precision limits for clustering.
const (
	MinClusterPrecision     = 1
	MaxClusterPrecision     = 12
	DefaultClusterPrecision = 3
)

// ErrInvalidPrecision is returned for a geohash precision outside 1..12.
var ErrInvalidPrecision = errors.New("cluster precision must be between 1 and 12")

// Cluster groups the meteorites that fall in one geohash cell.
type Cluster struct {
	Geohash  string     `json:"geohash"`
	Count    int        `json:"count"`
	Centroid domain.Geo `json:"centroid"`
	Bounds   Bounds     `json:"bounds"`
}

// Bounds is the south-west and north-east corner of a geohash cell.
type Bounds struct {
	SouthWest domain.Geo `json:"south_west"`
	NorthEast domain.Geo `json:"north_east"`
}

// Clusters buckets the meteorites that have coordinates by geohash cell at
// the given precision. The result is ordered by descending count, then cell.
func Clusters(meteorites []domain.Meteorite, precision int) ([]Cluster, error) {
	if precision < MinClusterPrecision || precision > MaxClusterPrecision {
		return nil, ErrInvalidPrecision
	}

	type acc struct {
		count  int
		sumLat float64
		sumLon float64
	}
	cells := make(map[string]*acc)
	for _, m := range meteorites {
		geo, ok := domain.ResolveCoordinates(m)
		if !ok {
			continue
		}
		hash := geohash.EncodeWithPrecision(geo.Lat, geo.Lon, precision)
		a, ok := cells[hash]
		if !ok {
			a = &acc{}
			cells[hash] = a
		}
		a.count++
		a.sumLat += geo.Lat
		a.sumLon += geo.Lon
	}

	out := make([]Cluster, 0, len(cells))
	for hash, a := range cells {
		box := geohash.Decode(hash)
		out = append(out, Cluster{
			Geohash: hash,
			Count:   a.count,
			Centroid: domain.Geo{
				Lat: a.sumLat / float64(a.count),
				Lon: a.sumLon / float64(a.count),
			},
			Bounds: Bounds{
				SouthWest: domain.Geo{Lat: box.SouthWest().Lat(), Lon: box.SouthWest().Lng()},
				NorthEast: domain.Geo{Lat: box.NorthEast().Lat(), Lon: box.NorthEast().Lng()},
			},
		})
	}
	slices.SortFunc(out, func(a, b Cluster) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Geohash, b.Geohash)
	})
	return out, nil
}
