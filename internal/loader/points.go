package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"roadtour/internal/geo"
	"roadtour/internal/network"
)

// LoadPoints reads points of interest from CSV. The header must name an id,
// lat and lon column; a name column is optional. Spanish column names from
// legacy exports (latitud, longitud, nombre) are accepted. Duplicate ids and
// out-of-range coordinates are rejected.
func LoadPoints(r io.Reader) ([]network.Point, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	idx := map[string]int{}
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "id":
			idx["id"] = i
		case "lat", "latitud", "latitude":
			idx["lat"] = i
		case "lon", "lng", "longitud", "longitude":
			idx["lon"] = i
		case "name", "nombre":
			idx["name"] = i
		}
	}
	for _, required := range []string{"id", "lat", "lon"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("csv header missing %s column", required)
		}
	}

	var points []network.Point
	seen := map[string]bool{}
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		id := strings.TrimSpace(rec[idx["id"]])
		if id == "" {
			return nil, fmt.Errorf("csv line %d: empty id", line)
		}
		if seen[id] {
			return nil, fmt.Errorf("csv line %d: duplicate id %s", line, id)
		}
		seen[id] = true

		lat, err := strconv.ParseFloat(strings.TrimSpace(rec[idx["lat"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: bad latitude: %w", line, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(rec[idx["lon"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: bad longitude: %w", line, err)
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return nil, fmt.Errorf("csv line %d: coordinate out of range (%v, %v)", line, lat, lon)
		}

		p := network.Point{ID: id, At: geo.Coord{Lat: lat, Lon: lon}}
		if i, ok := idx["name"]; ok && i < len(rec) {
			p.Name = strings.TrimSpace(rec[i])
		}
		points = append(points, p)
	}
	return points, nil
}
