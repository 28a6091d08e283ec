package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/impact-atlas/internal/catalog"
	"github.com/couchcryptid/impact-atlas/internal/domain"
)

const (
	testCraters    = "testdata/craters.geojson"
	testMeteorites = "testdata/meteorites.json"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestAgeCmd(t *testing.T) {
	out, err := execute(t, "age", "65 ± 1", "< 5", "> 2000", "~ 35", "unknown")
	require.NoError(t, err)

	assert.Regexp(t, `65 ± 1\s+uncertainty\s+64\s+66`, out)
	assert.Regexp(t, `< 5\s+upper_bound\s+-\s+5`, out)
	assert.Regexp(t, `> 2000\s+lower_bound\s+2000\s+-`, out)
	assert.Regexp(t, `~ 35\s+approximate\s+35\s+35`, out)
	assert.Regexp(t, `unknown\s+no_match\s+-\s+-`, out)
}

func TestAgeCmd_RequiresArgs(t *testing.T) {
	_, err := execute(t, "age")
	require.Error(t, err)
}

func TestMassCmd(t *testing.T) {
	out, err := execute(t, "mass", "21", "1000", "60000000")
	require.NoError(t, err)
	assert.Equal(t, "21 g\n1.00 kg\n60.00 tonnes\n", out)

	_, err = execute(t, "mass", "heavy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid mass "heavy"`)
}

func TestCratersCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		count   string
		want    []string
		notWant []string
	}{
		{
			name:  "defaults keep everything",
			args:  nil,
			count: "4 of 4 craters",
			want:  []string{"Chicxulub", "Ries", "Barringer", "Vredefort"},
		},
		{
			name:    "diameter window",
			args:    []string{"--diameter-min", "20"},
			count:   "3 of 4 craters",
			want:    []string{"Chicxulub", "Ries", "Vredefort"},
			notWant: []string{"Barringer"},
		},
		{
			name:    "age window overlaps uncertainty",
			args:    []string{"--age-min", "66.05", "--age-max", "100"},
			count:   "1 of 4 craters",
			want:    []string{"Chicxulub"},
			notWant: []string{"Ries"},
		},
		{
			name:    "repeatable target",
			args:    []string{"--target", "Sedimentary", "--target", "Crystalline"},
			count:   "2 of 4 craters",
			want:    []string{"Barringer", "Vredefort"},
			notWant: []string{"Chicxulub"},
		},
		{
			name:    "top by diameter",
			args:    []string{"--top", "1"},
			count:   "1 of 4 craters",
			want:    []string{"Vredefort"},
			notWant: []string{"Chicxulub"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"craters", "--file", testCraters}, tt.args...)
			out, err := execute(t, args...)
			require.NoError(t, err)

			assert.Contains(t, out, tt.count)
			for _, name := range tt.want {
				assert.Contains(t, out, name)
			}
			for _, name := range tt.notWant {
				assert.NotContains(t, out, name)
			}
		})
	}
}

func TestCratersCmd_JSON(t *testing.T) {
	out, err := execute(t, "craters", "--file", testCraters, "--type", "Simple", "--json")
	require.NoError(t, err)

	var fc domain.FeatureCollection
	require.NoError(t, json.Unmarshal([]byte(out), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "Barringer", fc.Features[0].Properties[domain.PropName])
	assert.Contains(t, fc.Features[0].Properties, "description")
}

func TestCratersCmd_Facets(t *testing.T) {
	out, err := execute(t, "craters", "--file", testCraters, "--facets")
	require.NoError(t, err)

	var facets catalog.CraterFacets
	require.NoError(t, json.Unmarshal([]byte(out), &facets))
	assert.InDelta(t, 300, facets.MaxDiameterKm, 0)
	require.NotEmpty(t, facets.TargetRocks)
	assert.Equal(t, catalog.FacetCount{Value: "Mixed", Count: 2}, facets.TargetRocks[0])
}

func TestCratersCmd_Errors(t *testing.T) {
	_, err := execute(t, "craters", "--file", testCraters, "--diameter-min", "50", "--diameter-max", "10")
	require.Error(t, err)
	var ferr *domain.FilterError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, []string{"Diameter.Max"}, ferr.Fields)

	_, err = execute(t, "craters", "--file", "testdata/missing.geojson")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceMissing)
}

func TestMeteoritesCmd_File(t *testing.T) {
	out, err := execute(t, "meteorites", "--file", testMeteorites)
	require.NoError(t, err)
	assert.Contains(t, out, "2 of 2 meteorites")
	assert.Regexp(t, `Aachen\s+L5\s+21 g\s+1880\s+Fell`, out)
	assert.Regexp(t, `Hoba\s+Iron, IVB\s+60.00 tonnes\s+1920\s+Found`, out)

	out, err = execute(t, "meteorites", "--file", testMeteorites, "--class", "Iron, IVB")
	require.NoError(t, err)
	assert.Contains(t, out, "1 of 2 meteorites")
	assert.NotContains(t, out, "Aachen")

	out, err = execute(t, "meteorites", "--file", testMeteorites, "--year-max", "1900")
	require.NoError(t, err)
	assert.Contains(t, out, "1 of 2 meteorites")
	assert.Contains(t, out, "Aachen")
}

func TestMeteoritesCmd_Clusters(t *testing.T) {
	out, err := execute(t, "meteorites", "--file", testMeteorites, "--clusters", "1")
	require.NoError(t, err)

	var clusters []catalog.Cluster
	require.NoError(t, json.Unmarshal([]byte(out), &clusters))
	require.Len(t, clusters, 2)
	assert.Equal(t, "k", clusters[0].Geohash)
	assert.Equal(t, "u", clusters[1].Geohash)

	_, err = execute(t, "meteorites", "--file", testMeteorites, "--clusters", "13")
	require.ErrorIs(t, err, catalog.ErrInvalidPrecision)
}

func TestMeteoritesCmd_Fetch(t *testing.T) {
	body, err := os.ReadFile(testMeteorites)
	require.NoError(t, err)

	var gotLimit, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("$limit")
		gotToken = r.Header.Get("X-App-Token")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	t.Setenv("NASA_API_URL", srv.URL)
	t.Setenv("NASA_API_LIMIT", "25")
	t.Setenv("NASA_APP_TOKEN", "socrata")

	out, err := execute(t, "meteorites", "--fetch", "--top", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Hoba")
	assert.NotContains(t, out, "Aachen")
	assert.Equal(t, "25", gotLimit)
	assert.Equal(t, "socrata", gotToken)
}

func TestMeteoritesCmd_SourceFlags(t *testing.T) {
	_, err := execute(t, "meteorites")
	require.Error(t, err, "one of --file or --fetch is required")

	_, err = execute(t, "meteorites", "--file", testMeteorites, "--fetch")
	require.Error(t, err)
}

type fakePublisher struct {
	brokers    []string
	topic      string
	craters    []domain.Crater
	meteorites []domain.Meteorite
	closed     bool
}

func (p *fakePublisher) PublishCraters(_ context.Context, craters []domain.Crater) error {
	p.craters = append(p.craters, craters...)
	return nil
}

func (p *fakePublisher) PublishMeteorites(_ context.Context, meteorites []domain.Meteorite) error {
	p.meteorites = append(p.meteorites, meteorites...)
	return nil
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

func stubPublisher(t *testing.T) *fakePublisher {
	t.Helper()
	fake := &fakePublisher{}
	orig := newPublisher
	newPublisher = func(brokers []string, topic string, _ *slog.Logger) publisher {
		fake.brokers = brokers
		fake.topic = topic
		return fake
	}
	t.Cleanup(func() { newPublisher = orig })
	return fake
}

func TestExportCmd(t *testing.T) {
	fake := stubPublisher(t)

	out, err := execute(t, "export",
		"--brokers", "kafka-1:9092, kafka-2:9092",
		"--topic", "atlas.test",
		"--craters-file", testCraters,
		"--meteorites-file", testMeteorites,
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, fake.brokers)
	assert.Equal(t, "atlas.test", fake.topic)
	assert.Len(t, fake.craters, 4)
	assert.Len(t, fake.meteorites, 2)
	assert.True(t, fake.closed)
	assert.Contains(t, out, "exported 4 craters to atlas.test")
	assert.Contains(t, out, "exported 2 meteorites to atlas.test")
}

func TestExportCmd_NothingToExport(t *testing.T) {
	fake := stubPublisher(t)

	_, err := execute(t, "export", "--craters-file", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to export")
	assert.False(t, fake.closed, "no writer is opened")
}
