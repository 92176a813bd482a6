package geom

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	planar "github.com/ctessum/geom"
)

// LoadCSV reads a CSV with x/y (or latitude/longitude) columns and returns
// one Point feature per row. The other columns become properties.
func LoadCSV(path string) ([]*Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV is LoadCSV over a reader.
// Column detection: lat|latitude|y and lon|lng|long|longitude|x (case-insensitive).
func ReadCSV(rd io.Reader) ([]*Feature, error) {
	r := csv.NewReader(rd)
	r.TrimLeadingSpace = true
	recs, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.New("empty csv")
	}
	header := recs[0]
	idxLat, idxLon := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude", "y":
			if idxLat == -1 {
				idxLat = i
			}
		case "lon", "lng", "long", "longitude", "x":
			if idxLon == -1 {
				idxLon = i
			}
		}
	}
	if idxLat == -1 || idxLon == -1 {
		return nil, errors.New("csv: latitude/longitude columns not found")
	}
	var out []*Feature
	for _, row := range recs[1:] {
		if idxLon >= len(row) || idxLat >= len(row) {
			continue
		}
		x, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxLon]), 64)
		y, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxLat]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		props := map[string]any{}
		for i, v := range row {
			if i == idxLat || i == idxLon || i >= len(header) {
				continue
			}
			props[header[i]] = v
		}
		out = append(out, NewFeature(planar.Point{X: x, Y: y}, props))
	}
	if len(out) == 0 {
		return nil, errors.New("csv: no valid points parsed")
	}
	return out, nil
}
