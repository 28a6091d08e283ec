// Command atlas serves the impact atlas: a Cesium globe of impact craters and
// meteorite landings backed by filterable in-memory catalogs.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/impact-atlas/internal/adapter/http"
	"github.com/couchcryptid/impact-atlas/internal/adapter/nasa"
	"github.com/couchcryptid/impact-atlas/internal/adapter/static"
	"github.com/couchcryptid/impact-atlas/internal/catalog"
	"github.com/couchcryptid/impact-atlas/internal/config"
	"github.com/couchcryptid/impact-atlas/internal/observability"
	"github.com/couchcryptid/impact-atlas/internal/pipeline"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	craters := catalog.NewCraterCatalog(cfg.FilterCacheSize, metrics)
	meteorites := catalog.NewMeteoriteCatalog(cfg.FilterCacheSize, metrics)

	var meteoriteSrc pipeline.MeteoriteSource
	switch {
	case cfg.MeteoriteFile != "":
		meteoriteSrc = static.NewMeteoriteFile(cfg.MeteoriteFile)
		logger.Info("meteorites from local file", "path", cfg.MeteoriteFile)
	case cfg.NASAFetchEnabled:
		meteoriteSrc = nasa.NewClient(cfg.NASAAPIURL, cfg.NASAAppToken, cfg.NASAAPILimit, cfg.NASATimeout, logger, metrics)
		logger.Info("meteorites from nasa open data", "url", cfg.NASAAPIURL, "limit", cfg.NASAAPILimit)
	default:
		logger.Info("meteorite fetch disabled")
	}

	loader := pipeline.New(
		static.NewCraterFile(cfg.CraterFile),
		meteoriteSrc,
		craters,
		meteorites,
		pipeline.Options{MaxAttempts: cfg.FetchMaxAttempts},
		logger,
		metrics,
	)

	srv := httpadapter.NewServer(httpadapter.Options{
		Addr:                cfg.HTTPAddr,
		CesiumToken:         cfg.CesiumToken,
		NASATokenConfigured: cfg.NASAAppToken != "",
		RateLimitRPS:        cfg.RateLimitRPS,
	}, craters, meteorites, loader, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The globe page is served while catalogs load; /readyz reports when both are in.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	go func() {
		if err := loader.Run(ctx); err != nil {
			logger.Error("catalog load error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
