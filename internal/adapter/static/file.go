// Package static reads the bundled datasets from the local filesystem.
package static

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/couchcryptid/impact-atlas/internal/domain"
)

// CraterFile loads craters from a GeoJSON FeatureCollection on disk.
type CraterFile struct {
	path string
}

// NewCraterFile returns a crater source backed by path.
func NewCraterFile(path string) *CraterFile {
	return &CraterFile{path: path}
}

// LoadCraters reads and decodes the file. A missing file wraps
// domain.ErrSourceMissing.
func (f *CraterFile) LoadCraters(_ context.Context) ([]domain.Crater, error) {
	file, err := open(f.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	craters, err := domain.DecodeCraterCollection(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}
	return craters, nil
}

// MeteoriteFile loads meteorites from a local dump of the NASA JSON array.
type MeteoriteFile struct {
	path string
}

// NewMeteoriteFile returns a meteorite source backed by path.
func NewMeteoriteFile(path string) *MeteoriteFile {
	return &MeteoriteFile{path: path}
}

// FetchMeteorites reads and decodes the file. A missing file wraps
// domain.ErrSourceMissing.
func (f *MeteoriteFile) FetchMeteorites(_ context.Context) ([]domain.Meteorite, error) {
	file, err := open(f.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	meteorites, err := domain.DecodeMeteorites(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}
	return meteorites, nil
}

func open(path string) (*os.File, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("open %s: %w", path, domain.ErrSourceMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return file, nil
}
