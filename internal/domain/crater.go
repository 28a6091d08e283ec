package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"maps"
	"strconv"
	"strings"
)

// GeoJSON property keys used by the Earth Impact Database export.
const (
	PropName       = "Name"
	PropAge        = "Age [Myr]"
	PropDiameter   = "Crater diamter [km]"
	PropCountry    = "Country"
	PropTarget     = "Target"
	PropCraterType = "Crater type"

	// Derived properties appended at load time.
	PropAgeMin = "age_min"
	PropAgeMax = "age_max"
)

const unknown = "Unknown"

// Crater is an impact crater record. Age bounds are resolved once at load
// time and are always populated.
type Crater struct {
	Name        string  `json:"name"`
	Country     string  `json:"country,omitempty"`
	Target      string  `json:"target,omitempty"`
	CraterType  string  `json:"crater_type,omitempty"`
	DiameterKm  float64 `json:"diameter_km"`
	DiameterRaw string  `json:"diameter_raw,omitempty"`
	AgeRaw      string  `json:"age_raw,omitempty"`
	AgeMin      float64 `json:"age_min"`
	AgeMax      float64 `json:"age_max"`
	Geo         *Geo    `json:"geo,omitempty"`

	// properties holds the source feature properties, never modified.
	properties map[string]any
}

type rawCollection struct {
	Type     string       `json:"type"`
	Features []rawFeature `json:"features"`
}

type rawFeature struct {
	Geometry   *rawGeometry   `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type rawGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// DecodeCraterCollection reads a GeoJSON FeatureCollection of craters and
// resolves each crater's age bounds.
func DecodeCraterCollection(r io.Reader) ([]Crater, error) {
	var coll rawCollection
	if err := json.NewDecoder(r).Decode(&coll); err != nil {
		return nil, fmt.Errorf("decode crater collection: %w", err)
	}
	if coll.Features == nil {
		return nil, errors.New("decode crater collection: missing features")
	}

	craters := make([]Crater, 0, len(coll.Features))
	for _, f := range coll.Features {
		craters = append(craters, NewCrater(f.Properties, pointOf(f.Geometry)))
	}
	return craters, nil
}

// NewCrater builds a crater from GeoJSON properties. Diameter parse failures
// fall back to zero; age parse failures fall back to the default age window.
func NewCrater(props map[string]any, geo *Geo) Crater {
	props = maps.Clone(props)
	if props == nil {
		props = map[string]any{}
	}

	diameterRaw := propString(props, PropDiameter)
	ageRaw := propString(props, PropAge)
	ageMin, ageMax := ParseAge(ageRaw).Resolve(DefaultAgeMinMyr, DefaultAgeMaxMyr)

	return Crater{
		Name:        propString(props, PropName),
		Country:     propString(props, PropCountry),
		Target:      propString(props, PropTarget),
		CraterType:  propString(props, PropCraterType),
		DiameterKm:  parseFloatOrZero(diameterRaw),
		DiameterRaw: diameterRaw,
		AgeRaw:      ageRaw,
		AgeMin:      ageMin,
		AgeMax:      ageMax,
		Geo:         geo,
		properties:  props,
	}
}

// Feature renders the crater as GeoJSON: the source properties plus the
// derived age bounds.
func (c Crater) Feature() Feature {
	props := make(map[string]any, len(c.properties)+2)
	maps.Copy(props, c.properties)
	props[PropAgeMin] = c.AgeMin
	props[PropAgeMax] = c.AgeMax

	f := Feature{Type: "Feature", Properties: props}
	if c.Geo != nil {
		f.Geometry = PointGeometry(*c.Geo)
	}
	return f
}

// Describe renders the crater tooltip.
func (c Crater) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>Name:</b> %s<br>\n", orUnknown(c.Name))
	fmt.Fprintf(&b, "<b>Age:</b> %s Myr<br>\n", orUnknown(c.AgeRaw))
	fmt.Fprintf(&b, "<b>Diameter:</b> %s km<br>\n", orUnknown(c.DiameterRaw))
	fmt.Fprintf(&b, "<b>Country:</b> %s<br>\n", orUnknown(c.Country))
	fmt.Fprintf(&b, "<b>Target:</b> %s<br>\n", orUnknown(c.Target))
	fmt.Fprintf(&b, "<b>Type:</b> %s<br>\n", orUnknown(c.CraterType))
	return b.String()
}

// pointOf extracts [lon, lat] from a Point geometry. Other geometry types
// and malformed coordinates yield nil.
func pointOf(g *rawGeometry) *Geo {
	if g == nil || !strings.EqualFold(g.Type, "Point") || len(g.Coordinates) == 0 {
		return nil
	}
	var coords []float64
	if err := json.Unmarshal(g.Coordinates, &coords); err != nil || len(coords) < 2 {
		return nil
	}
	return &Geo{Lat: coords[1], Lon: coords[0]}
}

// propString reads a property as text. Numbers keep their shortest form.
func propString(props map[string]any, key string) string {
	switch v := props[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return unknown
	}
	return html.EscapeString(s)
}
