package domain

// FeatureCollection is the GeoJSON envelope returned to the globe.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single GeoJSON feature. Geometry is nil for records without
// usable coordinates.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   *Geometry      `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry is a GeoJSON Point.
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [lon, lat]
}

// NewFeatureCollection wraps features in a FeatureCollection envelope.
// A nil slice is emitted as an empty array.
func NewFeatureCollection(features []Feature) FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

// PointGeometry builds a GeoJSON Point from a coordinate pair.
func PointGeometry(g Geo) *Geometry {
	return &Geometry{Type: "Point", Coordinates: []float64{g.Lon, g.Lat}}
}
