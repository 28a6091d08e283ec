package domain

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Meteorite is a landing record as published by NASA. Fields are kept in
// their raw form; derived views (coordinates, year) are computed on demand.
type Meteorite struct {
	Name        string       `json:"name,omitempty"`
	ID          Value        `json:"id,omitzero"`
	NameType    string       `json:"nametype,omitempty"`
	RecClass    string       `json:"recclass,omitempty"`
	Fall        string       `json:"fall,omitempty"`
	Mass        Value        `json:"mass,omitzero"` // grams
	Year        Value        `json:"year,omitzero"`
	RecLat      Value        `json:"reclat,omitzero"`
	RecLong     Value        `json:"reclong,omitzero"`
	Geolocation *Geolocation `json:"geolocation,omitempty"`
}

// Geolocation is the Socrata location column. Depending on the export it
// carries either latitude/longitude or a GeoJSON-style coordinates pair.
type Geolocation struct {
	Type        string  `json:"type,omitempty"`
	Latitude    Value   `json:"latitude,omitzero"`
	Longitude   Value   `json:"longitude,omitzero"`
	Coordinates []Value `json:"coordinates,omitempty"` // [lon, lat]
}

// DecodeMeteorites reads a JSON array of meteorite records.
func DecodeMeteorites(r io.Reader) ([]Meteorite, error) {
	var out []Meteorite
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode meteorites: %w", err)
	}
	return out, nil
}

// ResolveCoordinates returns the first populated coordinate form: geolocation
// latitude/longitude, then geolocation coordinates, then reclat/reclong.
func ResolveCoordinates(m Meteorite) (Geo, bool) {
	if g := m.Geolocation; g != nil {
		if geo, ok := parseLatLon(g.Latitude, g.Longitude); ok {
			return geo, true
		}
		if len(g.Coordinates) == 2 {
			if geo, ok := parseLatLon(g.Coordinates[1], g.Coordinates[0]); ok {
				return geo, true
			}
		}
	}
	return parseLatLon(m.RecLat, m.RecLong)
}

// ResolveYear returns the landing year as text, or "Unknown".
func ResolveYear(m Meteorite) string {
	if !m.Year.Present() {
		return unknown
	}
	year, ok := parseYear(m.Year)
	if !ok {
		return unknown
	}
	return strconv.Itoa(year)
}

// MassGrams returns the parsed mass when present and well formed.
func MassGrams(m Meteorite) (float64, bool) {
	if !m.Mass.Present() {
		return 0, false
	}
	mass, err := m.Mass.Float()
	if err != nil || math.IsNaN(mass) {
		return 0, false
	}
	return mass, true
}

// Describe renders the meteorite tooltip.
func (m Meteorite) Describe() string {
	massDisplay := unknown
	if mass, ok := MassGrams(m); ok {
		massDisplay = FormatMass(mass)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>Name:</b> %s<br>\n", orUnknown(m.Name))
	fmt.Fprintf(&b, "<b>ID:</b> %s<br>\n", orUnknown(m.ID.String()))
	fmt.Fprintf(&b, "<b>Mass:</b> %s<br>\n", massDisplay)
	fmt.Fprintf(&b, "<b>Class:</b> %s<br>\n", orUnknown(m.RecClass))
	fmt.Fprintf(&b, "<b>Year:</b> %s<br>\n", ResolveYear(m))
	fmt.Fprintf(&b, "<b>Fall/Find:</b> %s", orUnknown(m.Fall))
	return b.String()
}

// Feature renders the meteorite as GeoJSON with its tooltip attached.
func (m Meteorite) Feature() Feature {
	props := map[string]any{
		"name":        m.Name,
		"id":          m.ID.String(),
		"recclass":    m.RecClass,
		"fall":        m.Fall,
		"year":        ResolveYear(m),
		"description": m.Describe(),
	}
	if mass, ok := MassGrams(m); ok {
		props["mass"] = mass
	}

	f := Feature{Type: "Feature", Properties: props}
	if geo, ok := ResolveCoordinates(m); ok {
		f.Geometry = PointGeometry(geo)
	}
	return f
}

// parseYear reads the first four characters as a year, tolerating a
// fractional suffix ("1880.5" style) by truncation.
func parseYear(v Value) (int, bool) {
	s := []rune(v.String())
	if len(s) > 4 {
		s = s[:4]
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

func parseLatLon(lat, lon Value) (Geo, bool) {
	if !lat.Present() || !lon.Present() {
		return Geo{}, false
	}
	la, err := lat.Float()
	if err != nil {
		return Geo{}, false
	}
	lo, err := lon.Float()
	if err != nil {
		return Geo{}, false
	}
	return Geo{Lat: la, Lon: lo}, true
}
