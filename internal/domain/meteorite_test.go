package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const socrataAachen = `{"name":"Aachen","id":"1","nametype":"Valid","recclass":"L5","mass":"21","fall":"Fell","year":"1880-01-01T00:00:00.000","reclat":"50.775000","reclong":"6.083330","geolocation":{"type":"Point","coordinates":[6.08333,50.775]}}`

func decodeMeteorite(t *testing.T, s string) Meteorite {
	t.Helper()
	var m Meteorite
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestDecodeMeteorites(t *testing.T) {
	ms, err := DecodeMeteorites(strings.NewReader("[" + socrataAachen + `,{"name":"Abee","mass":107000,"year":1952}]`))
	require.NoError(t, err)
	require.Len(t, ms, 2)

	assert.Equal(t, "Aachen", ms[0].Name)
	assert.Equal(t, "1", ms[0].ID.String())
	assert.Equal(t, "L5", ms[0].RecClass)
	assert.Equal(t, "21", ms[0].Mass.String())

	mass, ok := MassGrams(ms[1])
	require.True(t, ok)
	assert.Equal(t, 107000.0, mass)
	assert.Equal(t, "1952", ResolveYear(ms[1]))
}

func TestDecodeMeteorites_Invalid(t *testing.T) {
	_, err := DecodeMeteorites(strings.NewReader(`{"not":"an array"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode meteorites")
}

func TestValue_JSON(t *testing.T) {
	t.Run("null is absent", func(t *testing.T) {
		m := decodeMeteorite(t, `{"mass":null}`)
		assert.False(t, m.Mass.Present())
		assert.True(t, m.Mass.IsZero())
	})

	t.Run("empty string is absent", func(t *testing.T) {
		m := decodeMeteorite(t, `{"mass":""}`)
		assert.False(t, m.Mass.Present())
		assert.False(t, m.Mass.IsZero())
	})

	t.Run("whitespace string is present but malformed", func(t *testing.T) {
		m := decodeMeteorite(t, `{"mass":"  "}`)
		assert.True(t, m.Mass.Present())
		_, ok := MassGrams(m)
		assert.False(t, ok)
	})

	t.Run("non-scalar kept as malformed", func(t *testing.T) {
		m := decodeMeteorite(t, `{"mass":{"value":3}}`)
		assert.True(t, m.Mass.Present())
		_, ok := MassGrams(m)
		assert.False(t, ok)
	})

	t.Run("round trip keeps shape", func(t *testing.T) {
		m := decodeMeteorite(t, `{"name":"X","mass":"21","year":1880}`)
		out, err := json.Marshal(m)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"X","mass":"21","year":1880}`, string(out))
	})
}

func TestResolveCoordinates(t *testing.T) {
	tests := []struct {
		name   string
		json   string
		want   Geo
		wantOK bool
	}{
		{
			name:   "latitude/longitude",
			json:   `{"geolocation":{"latitude":"50.775","longitude":"6.08333"}}`,
			want:   Geo{Lat: 50.775, Lon: 6.08333},
			wantOK: true,
		},
		{
			name:   "coordinates are lon, lat",
			json:   `{"geolocation":{"type":"Point","coordinates":[6.08333,50.775]}}`,
			want:   Geo{Lat: 50.775, Lon: 6.08333},
			wantOK: true,
		},
		{
			name:   "legacy reclat/reclong",
			json:   `{"reclat":"-33.1","reclong":"-64.3"}`,
			want:   Geo{Lat: -33.1, Lon: -64.3},
			wantOK: true,
		},
		{
			name:   "latitude/longitude preferred over coordinates and reclat",
			json:   `{"geolocation":{"latitude":"1","longitude":"2","coordinates":[30,40]},"reclat":"5","reclong":"6"}`,
			want:   Geo{Lat: 1, Lon: 2},
			wantOK: true,
		},
		{
			name:   "coordinates preferred over reclat",
			json:   `{"geolocation":{"coordinates":[30,40]},"reclat":"5","reclong":"6"}`,
			want:   Geo{Lat: 40, Lon: 30},
			wantOK: true,
		},
		{
			name:   "empty geolocation falls back to reclat",
			json:   `{"geolocation":{},"reclat":"5","reclong":"6"}`,
			want:   Geo{Lat: 5, Lon: 6},
			wantOK: true,
		},
		{
			name:   "incomplete coordinates pair",
			json:   `{"geolocation":{"coordinates":[30]}}`,
			wantOK: false,
		},
		{
			name:   "nothing",
			json:   `{"name":"Nowhere"}`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveCoordinates(decodeMeteorite(t, tt.json))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveYear(t *testing.T) {
	tests := []struct {
		name     string
		year     Value
		expected string
	}{
		{"socrata timestamp", StringValue("1880-01-01T00:00:00.000"), "1880"},
		{"number", NumberValue(1952), "1952"},
		{"short", StringValue("860"), "860"},
		{"fractional within four chars", StringValue("19.5xyz"), "19"},
		{"garbage", StringValue("abcd"), "Unknown"},
		{"blank", StringValue(""), "Unknown"},
		{"whitespace", StringValue("   "), "Unknown"},
		{"absent", Value{}, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveYear(Meteorite{Year: tt.year}))
		})
	}
}

func TestMeteorite_Describe(t *testing.T) {
	t.Run("full record", func(t *testing.T) {
		desc := decodeMeteorite(t, socrataAachen).Describe()
		assert.Contains(t, desc, "<b>Name:</b> Aachen<br>")
		assert.Contains(t, desc, "<b>ID:</b> 1<br>")
		assert.Contains(t, desc, "<b>Mass:</b> 21 g<br>")
		assert.Contains(t, desc, "<b>Class:</b> L5<br>")
		assert.Contains(t, desc, "<b>Year:</b> 1880<br>")
		assert.Contains(t, desc, "<b>Fall/Find:</b> Fell")
	})

	t.Run("empty record", func(t *testing.T) {
		desc := Meteorite{}.Describe()
		assert.Equal(t, 6, strings.Count(desc, "Unknown"))
	})

	t.Run("heavy mass uses tonnes", func(t *testing.T) {
		desc := Meteorite{Name: "Hoba", Mass: StringValue("60000000")}.Describe()
		assert.Contains(t, desc, "<b>Mass:</b> 60.00 tonnes<br>")
	})

	t.Run("html escaped", func(t *testing.T) {
		desc := Meteorite{Name: "<script>"}.Describe()
		assert.Contains(t, desc, "&lt;script&gt;")
	})
}

func TestMeteorite_Feature(t *testing.T) {
	f := decodeMeteorite(t, socrataAachen).Feature()

	assert.Equal(t, "Feature", f.Type)
	require.NotNil(t, f.Geometry)
	assert.Equal(t, "Point", f.Geometry.Type)
	assert.Equal(t, []float64{6.08333, 50.775}, f.Geometry.Coordinates)
	assert.Equal(t, "Aachen", f.Properties["name"])
	assert.Equal(t, "1880", f.Properties["year"])
	assert.Equal(t, 21.0, f.Properties["mass"])
	assert.Contains(t, f.Properties["description"], "Aachen")

	noGeo := Meteorite{Name: "Lost"}.Feature()
	assert.Nil(t, noGeo.Geometry)
	assert.NotContains(t, noGeo.Properties, "mass")
}
