package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	CesiumToken     string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Crater dataset.
	CraterFile string

	// Meteorite source: NASA Open Data, or a local dump when MeteoriteFile is set.
	NASAAPIURL       string
	NASAAPILimit     int
	NASAAppToken     string
	NASATimeout      time.Duration
	NASAFetchEnabled bool
	MeteoriteFile    string
	FetchMaxAttempts int

	RateLimitRPS    float64
	FilterCacheSize int
}

// Load reads configuration from environment variables, applying defaults where unset.
// A missing CESIUM_ION_ACCESS_TOKEN is an error: the globe cannot render without it.
func Load() (*Config, error) {
	cesiumToken := os.Getenv("CESIUM_ION_ACCESS_TOKEN")
	if cesiumToken == "" {
		return nil, errors.New("CESIUM_ION_ACCESS_TOKEN is required")
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	nasaTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("NASA_TIMEOUT", "30s"))
	if err != nil || nasaTimeout <= 0 {
		return nil, errors.New("invalid NASA_TIMEOUT")
	}

	nasaLimit, err := parsePositiveInt("NASA_API_LIMIT", 50000)
	if err != nil {
		return nil, err
	}

	maxAttempts, err := parsePositiveInt("FETCH_MAX_ATTEMPTS", 3)
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseNonNegativeInt("FILTER_CACHE_SIZE", 128)
	if err != nil {
		return nil, err
	}

	fetchEnabled, err := strconv.ParseBool(sharedcfg.EnvOrDefault("NASA_FETCH_ENABLED", "true"))
	if err != nil {
		return nil, errors.New("invalid NASA_FETCH_ENABLED")
	}

	rps, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("RATE_LIMIT_RPS", "20"), 64)
	if err != nil {
		return nil, errors.New("invalid RATE_LIMIT_RPS")
	}

	return &Config{
		CesiumToken:     cesiumToken,
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", defaultAddr()),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CraterFile: sharedcfg.EnvOrDefault("CRATER_FILE", "static/data/earth-impact-craters.geojson"),

		NASAAPIURL:       sharedcfg.EnvOrDefault("NASA_API_URL", "https://data.nasa.gov/resource/gh4g-9sfh.json"),
		NASAAPILimit:     nasaLimit,
		NASAAppToken:     os.Getenv("NASA_APP_TOKEN"),
		NASATimeout:      nasaTimeout,
		NASAFetchEnabled: fetchEnabled,
		MeteoriteFile:    os.Getenv("METEORITE_FILE"),
		FetchMaxAttempts: maxAttempts,

		RateLimitRPS:    rps,
		FilterCacheSize: cacheSize,
	}, nil
}

// defaultAddr honours PORT, which most PaaS runtimes set.
func defaultAddr() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":8080"
}

func parsePositiveInt(key string, fallback int) (int, error) {
	n, err := parseNonNegativeInt(key, fallback)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("invalid %s: must be at least 1", key)
	}
	return n, nil
}

func parseNonNegativeInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
