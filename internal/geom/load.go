package geom

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// LoadFile picks a reader by file extension.
func LoadFile(path string) ([]*Feature, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return LoadGeo(path)
	case ".csv":
		return LoadCSV(path)
	case ".kml":
		return LoadKML(path)
	case ".wkt", ".txt":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return LoadWKT(string(b))
	}
	return nil, errors.New("unsupported file type: " + filepath.Ext(path))
}
