package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/couchcryptid/impact-atlas/internal/domain"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type indexData struct {
	CesiumToken    string
	InitialCraters domain.FeatureCollection
	Filters        indexFilters
}

// indexFilters seeds the slider bounds.
type indexFilters struct {
	Diameter domain.Range `json:"diameter"`
	Age      domain.Range `json:"age"`
	Year     domain.Range `json:"year"`
	Mass     domain.Range `json:"mass"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	data := indexData{
		CesiumToken:    s.opts.CesiumToken,
		InitialCraters: s.craters.All(),
		Filters: indexFilters{
			Diameter: domain.DefaultDiameterRange,
			Age:      domain.DefaultAgeRange,
			Year:     domain.DefaultYearRange,
			Mass:     domain.DefaultMassRange,
		},
	}

	var buf bytes.Buffer
	if err := s.index.Execute(&buf, data); err != nil {
		s.logger.Error("render index", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
