package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/impact-atlas/internal/catalog"
	"github.com/couchcryptid/impact-atlas/internal/domain"
	"github.com/couchcryptid/impact-atlas/internal/observability"
)

// CraterSource yields the crater dataset.
type CraterSource interface {
	LoadCraters(ctx context.Context) ([]domain.Crater, error)
}

// MeteoriteSource yields meteorite landing records.
type MeteoriteSource interface {
	FetchMeteorites(ctx context.Context) ([]domain.Meteorite, error)
}

// Options tunes the meteorite fetch retries. Zero values take defaults.
type Options struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts < 1 {
		o.MaxAttempts = 1
	}
	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	if o.InitialBackoff <= 0 {
		o.InitialBackoff = 200 * time.Millisecond
	}
	if o.MaxBackoff <= 0 {
		o.MaxBackoff = 5 * time.Second
	}
	return o
}

// Loader fills both catalogs once at startup. A failing source leaves its
// catalog empty; the service keeps running.
type Loader struct {
	craterSrc    CraterSource
	meteoriteSrc MeteoriteSource
	craters      *catalog.CraterCatalog
	meteorites   *catalog.MeteoriteCatalog
	opts         Options
	logger       *slog.Logger
	metrics      *observability.Metrics
	ready        atomic.Bool
}

// New creates a Loader. meteoriteSrc may be nil when fetching is disabled.
func New(
	craterSrc CraterSource,
	meteoriteSrc MeteoriteSource,
	craters *catalog.CraterCatalog,
	meteorites *catalog.MeteoriteCatalog,
	opts Options,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Loader {
	return &Loader{
		craterSrc:    craterSrc,
		meteoriteSrc: meteoriteSrc,
		craters:      craters,
		meteorites:   meteorites,
		opts:         opts.withDefaults(),
		logger:       logger,
		metrics:      metrics,
	}
}

// CheckReadiness returns nil once the startup load has finished.
func (l *Loader) CheckReadiness(_ context.Context) error {
	if !l.ready.Load() {
		return errors.New("catalogs are still loading")
	}
	return nil
}

// Run loads both catalogs concurrently and marks the loader ready. Source
// failures are logged, not returned; Run returns early only when ctx is
// cancelled.
func (l *Loader) Run(ctx context.Context) error {
	start := time.Now()
	l.logger.Info("catalog load started")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l.loadCraters(gctx)
		return gctx.Err()
	})
	g.Go(func() error {
		l.loadMeteorites(gctx)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		l.logger.Info("catalog load stopping", "reason", err)
		return nil
	}

	l.ready.Store(true)
	l.metrics.CatalogReady.Set(1)
	l.logger.Info("catalog load finished",
		"craters", l.craters.Len(),
		"meteorites", l.meteorites.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (l *Loader) loadCraters(ctx context.Context) {
	craters, err := l.craterSrc.LoadCraters(ctx)
	if err != nil {
		l.degrade(observability.CatalogCraters, err)
		l.craters.Replace(nil)
		return
	}
	l.craters.Replace(craters)
	l.logger.Info("catalog loaded", "catalog", observability.CatalogCraters, "count", len(craters))
}

func (l *Loader) loadMeteorites(ctx context.Context) {
	if l.meteoriteSrc == nil {
		l.logger.Info("meteorite fetch disabled, continuing with empty catalog")
		l.meteorites.Replace(nil)
		return
	}

	meteorites, err := l.fetchWithRetry(ctx)
	if err != nil {
		l.degrade(observability.CatalogMeteorites, err)
		l.meteorites.Replace(nil)
		return
	}
	l.meteorites.Replace(meteorites)
	l.logger.Info("catalog loaded", "catalog", observability.CatalogMeteorites, "count", len(meteorites))
}

// fetchWithRetry calls the meteorite source up to MaxAttempts times. A
// missing source is not retried.
func (l *Loader) fetchWithRetry(ctx context.Context) ([]domain.Meteorite, error) {
	backoff := l.opts.InitialBackoff
	var lastErr error
	for attempt := 1; attempt <= l.opts.MaxAttempts; attempt++ {
		meteorites, err := l.meteoriteSrc.FetchMeteorites(ctx)
		if err == nil {
			return meteorites, nil
		}
		lastErr = err
		if ctx.Err() != nil || errors.Is(err, domain.ErrSourceMissing) || attempt == l.opts.MaxAttempts {
			break
		}

		l.logger.Warn("meteorite fetch failed, retrying",
			"error", err,
			"attempt", attempt,
			"backoff", backoff,
		)
		if !retry.SleepWithContext(ctx, backoff) {
			break
		}
		backoff = retry.NextBackoff(backoff, l.opts.MaxBackoff)
	}
	return nil, fmt.Errorf("fetch meteorites: %w", lastErr)
}

func (l *Loader) degrade(catalogName string, err error) {
	l.metrics.CatalogLoadErrors.WithLabelValues(catalogName).Inc()
	if errors.Is(err, domain.ErrSourceMissing) {
		l.logger.Warn("data source missing, continuing with empty catalog", "catalog", catalogName, "error", err)
		return
	}
	l.logger.Error("catalog load failed, continuing with empty catalog", "catalog", catalogName, "error", err)
}
