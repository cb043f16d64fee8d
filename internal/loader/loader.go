// Package loader reads road networks from GeoJSON and points of interest
// from CSV, with a gob-encoded cache for repeatedly loaded networks.
package loader

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"roadtour/internal/geo"
	"roadtour/internal/network"
)

// Stats summarizes what a network load produced.
type Stats struct {
	Features int `json:"features"`
	Skipped  int `json:"skipped"`
	Nodes    int `json:"nodes"`
	Edges    int `json:"edges"`
}

// nodeID derives a stable node id from a coordinate. Six decimals is about
// 10 cm of precision, enough to merge shared vertices between features.
func nodeID(c geo.Coord) string {
	return fmt.Sprintf("n_%.6f_%.6f", c.Lat, c.Lon)
}

// LoadNetwork parses a GeoJSON FeatureCollection and builds an undirected
// graph from its LineString features. Each consecutive vertex pair becomes
// an edge weighted by its haversine length in meters. Vertices shared
// between features merge into one node. Non-line features are skipped and
// counted.
func LoadNetwork(path string) (*network.Graph, Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("reading network file: %w", err)
	}
	return ParseNetwork(data)
}

// ParseNetwork is LoadNetwork over raw GeoJSON bytes.
func ParseNetwork(data []byte) (*network.Graph, Stats, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("parsing geojson: %w", err)
	}

	g := network.NewGraph()
	stats := Stats{Features: len(fc.Features)}
	for _, f := range fc.Features {
		switch geom := f.Geometry.(type) {
		case orb.LineString:
			addLine(g, geom)
		case orb.MultiLineString:
			for _, ls := range geom {
				addLine(g, ls)
			}
		default:
			stats.Skipped++
		}
	}
	stats.Nodes = g.NodeCount()
	stats.Edges = g.EdgeCount()
	return g, stats, nil
}

func addLine(g *network.Graph, ls orb.LineString) {
	for i := 0; i+1 < len(ls); i++ {
		a := geo.FromPoint(ls[i])
		b := geo.FromPoint(ls[i+1])
		ida, idb := nodeID(a), nodeID(b)
		if ida == idb {
			continue
		}
		g.AddNode(ida, a)
		g.AddNode(idb, b)
		g.AddEdge(ida, idb, geo.Haversine(a, b))
	}
}
