//go:build nasa

package nasa

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/impact-atlas/internal/domain"
	"github.com/couchcryptid/impact-atlas/internal/observability"
)

// These tests hit the real NASA Open Data API. NASA_APP_TOKEN is optional.
// Run with: go test -tags=nasa ./internal/adapter/nasa/ -v -count=1

func smokeClient() *Client {
	return NewClient(DefaultBaseURL, os.Getenv("NASA_APP_TOKEN"), 100, 30*time.Second,
		slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())
}

func TestSmoke_FetchMeteorites(t *testing.T) {
	meteorites, err := smokeClient().FetchMeteorites(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, meteorites)
	assert.LessOrEqual(t, len(meteorites), 100)

	withCoords := 0
	for _, m := range meteorites {
		assert.NotEmpty(t, m.Name)
		if _, ok := domain.ResolveCoordinates(m); ok {
			withCoords++
		}
	}
	assert.Positive(t, withCoords, "expected at least one landing with coordinates")
}
