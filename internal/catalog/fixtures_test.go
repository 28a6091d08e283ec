package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/impact-atlas/internal/domain"
)

const craterGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type":"Feature","geometry":{"type":"Point","coordinates":[-89.5,21.33]},
     "properties":{"Name":"Chicxulub","Age [Myr]":"66.05 ± 0.01","Crater diamter [km]":"150","Country":"Mexico","Target":"Mixed","Crater type":"Multi-ring basin"}},
    {"type":"Feature","geometry":{"type":"Point","coordinates":[10.6,48.9]},
     "properties":{"Name":"Ries","Age [Myr]":"14.8 ± 0.7","Crater diamter [km]":"24","Country":"Germany","Target":"Mixed","Crater type":"Complex"}},
    {"type":"Feature","geometry":{"type":"Point","coordinates":[-111.02,35.03]},
     "properties":{"Name":"Barringer","Age [Myr]":"0.049 ± 0.003","Crater diamter [km]":"1.19","Country":"USA","Target":"Sedimentary","Crater type":"Simple"}},
    {"type":"Feature","geometry":{"type":"Point","coordinates":[27.5,-27.0]},
     "properties":{"Name":"Vredefort","Age [Myr]":"2023 ± 4","Crater diamter [km]":"300","Country":"South Africa","Target":"Crystalline","Crater type":"Multi-ring basin"}},
    {"type":"Feature","geometry":{"type":"Point","coordinates":[-63.3,50.4]},
     "properties":{"Name":"Lake Test","Age [Myr]":"60-70","Crater diamter [km]":"5","Country":"Canada","Target":"Crystalline","Crater type":"Complex"}},
    {"type":"Feature","geometry":{"type":"Point","coordinates":[0,0]},
     "properties":{"Name":"Undated","Age [Myr]":"","Crater diamter [km]":"n/a"}}
  ]
}`

const meteoriteJSON = `[
  {"name":"Aachen","id":"1","nametype":"Valid","recclass":"L5","mass":"21","fall":"Fell","year":"1880-01-01T00:00:00.000",
   "reclat":"50.775000","reclong":"6.083330","geolocation":{"type":"Point","coordinates":[6.08333,50.775]}},
  {"name":"Aarhus","id":"2","nametype":"Valid","recclass":"H6","mass":"720","fall":"Fell","year":"1951-01-01T00:00:00.000",
   "geolocation":{"latitude":"56.183330","longitude":"10.233330"}},
  {"name":"Abee","id":"6","nametype":"Valid","recclass":"EH4","mass":"107000","fall":"Fell","year":"1952-01-01T00:00:00.000",
   "reclat":"54.216670","reclong":"-113.000000"},
  {"name":"Hoba","id":"11890","nametype":"Valid","recclass":"Iron, IVB","mass":"60000000","fall":"Found","year":"1920-01-01T00:00:00.000",
   "reclat":"-19.583330","reclong":"17.916670"},
  {"name":"Nameless","id":"99","nametype":"Valid","recclass":"L5","mass":null,"fall":"Found","year":null},
  {"name":"Garbled","id":"100","nametype":"Valid","recclass":"L5","mass":"250","fall":"Found","year":"abcd"}
]`

func loadedCraters(t *testing.T) *CraterCatalog {
	t.Helper()
	c := NewCraterCatalog(8, nil)
	require.NoError(t, c.Load(strings.NewReader(craterGeoJSON)))
	return c
}

func loadedMeteorites(t *testing.T) *MeteoriteCatalog {
	t.Helper()
	c := NewMeteoriteCatalog(8, nil)
	require.NoError(t, c.Load(strings.NewReader(meteoriteJSON)))
	return c
}

func craterNames(craters []domain.Crater) []string {
	names := make([]string, 0, len(craters))
	for _, c := range craters {
		names = append(names, c.Name)
	}
	return names
}

func meteoriteNames(meteorites []domain.Meteorite) []string {
	names := make([]string, 0, len(meteorites))
	for _, m := range meteorites {
		names = append(names, m.Name)
	}
	return names
}
