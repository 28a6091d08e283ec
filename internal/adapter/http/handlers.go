package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/impact-atlas/internal/catalog"
	"github.com/couchcryptid/impact-atlas/internal/domain"
	"github.com/couchcryptid/impact-atlas/internal/observability"
)

// maxFilterBody bounds a filter request body.
const maxFilterBody = 64 << 10

// filterResponse is returned by both filter endpoints.
type filterResponse struct {
	Count      int                      `json:"count"`
	Total      int                      `json:"total"`
	Collection domain.FeatureCollection `json:"collection"`
	Top        []topEntry               `json:"top"`
}

// topEntry is one row of the "largest" list beside the globe.
type topEntry struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

type healthResponse struct {
	Status                string `json:"status"`
	CraterFeatures        int    `json:"crater_features"`
	Meteorites            int    `json:"meteorites"`
	CesiumTokenConfigured bool   `json:"cesium_token_configured"`
	NASATokenConfigured   bool   `json:"nasa_token_configured"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, healthResponse{
		Status:                "ok",
		CraterFeatures:        s.craters.Len(),
		Meteorites:            s.meteorites.Len(),
		CesiumTokenConfigured: s.opts.CesiumToken != "",
		NASATokenConfigured:   s.opts.NASATokenConfigured,
	})
}

func (s *Server) handleCraters(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.craters.All())
}

func (s *Server) handleCraterFilter(w http.ResponseWriter, r *http.Request) {
	f, err := domain.DecodeCraterFilter(http.MaxBytesReader(w, r.Body, maxFilterBody))
	if err != nil {
		s.rejectFilter(w, observability.CatalogCraters, err)
		return
	}
	s.metrics.FilterRequests.WithLabelValues(observability.CatalogCraters, "ok").Inc()

	craters := s.craters.Filter(f)
	top := catalog.TopCraters(craters, catalog.DefaultTopN)
	entries := make([]topEntry, 0, len(top))
	for _, c := range top {
		entries = append(entries, topEntry{
			Name:    c.Name,
			Value:   c.DiameterKm,
			Display: strconv.FormatFloat(c.DiameterKm, 'f', -1, 64) + " km",
		})
	}

	sharedobs.WriteJSON(w, http.StatusOK, filterResponse{
		Count:      len(craters),
		Total:      s.craters.Len(),
		Collection: catalog.CraterCollection(craters),
		Top:        entries,
	})
}

func (s *Server) handleCraterFacets(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.craters.Facets())
}

func (s *Server) handleMeteoriteFilter(w http.ResponseWriter, r *http.Request) {
	f, err := domain.DecodeMeteoriteFilter(http.MaxBytesReader(w, r.Body, maxFilterBody))
	if err != nil {
		s.rejectFilter(w, observability.CatalogMeteorites, err)
		return
	}
	s.metrics.FilterRequests.WithLabelValues(observability.CatalogMeteorites, "ok").Inc()

	meteorites := s.meteorites.ApplyFilters(f)
	top := catalog.TopMeteorites(meteorites, catalog.DefaultTopN)
	entries := make([]topEntry, 0, len(top))
	for _, m := range top {
		mass, _ := domain.MassGrams(m)
		entries = append(entries, topEntry{Name: m.Name, Value: mass, Display: domain.FormatMass(mass)})
	}

	sharedobs.WriteJSON(w, http.StatusOK, filterResponse{
		Count:      len(meteorites),
		Total:      s.meteorites.Len(),
		Collection: catalog.MeteoriteCollection(meteorites),
		Top:        entries,
	})
}

// handleMeteoriteClusters groups meteorites by geohash cell. The optional
// repeatable "class" query parameter narrows the set. Class names may contain
// commas ("Iron, IVB"), so values are never split.
func (s *Server) handleMeteoriteClusters(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	precision := catalog.DefaultClusterPrecision
	if raw := q.Get("precision"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "precision must be an integer", []string{"precision"})
			return
		}
		precision = p
	}

	f := domain.DefaultMeteoriteFilter()
	for _, class := range q["class"] {
		if class = strings.TrimSpace(class); class != "" {
			f.Classes = append(f.Classes, class)
		}
	}

	clusters, err := catalog.Clusters(s.meteorites.ApplyFilters(f), precision)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), []string{"precision"})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{
		"precision": precision,
		"clusters":  clusters,
	})
}

func (s *Server) handleMeteoriteFacets(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.meteorites.Facets())
}

func (s *Server) rejectFilter(w http.ResponseWriter, catalogName string, err error) {
	s.metrics.FilterRequests.WithLabelValues(catalogName, "invalid").Inc()

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeError(w, http.StatusRequestEntityTooLarge, "filter body too large", nil)
		return
	}
	var fe *domain.FilterError
	if errors.As(err, &fe) {
		writeError(w, http.StatusBadRequest, fe.Error(), fe.Fields)
		return
	}
	s.logger.Error("filter decode failed", "catalog", catalogName, "error", err)
	writeError(w, http.StatusBadRequest, err.Error(), nil)
}

func writeError(w http.ResponseWriter, status int, msg string, fields []string) {
	sharedobs.WriteJSON(w, status, errorResponse{Error: msg, Fields: fields})
}
