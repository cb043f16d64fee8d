package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"roadtour/internal/geo"
	"roadtour/internal/network"
	"roadtour/internal/solver"
)

func testPoints() []network.Point {
	return []network.Point{
		{ID: "p0", Name: "Start", At: geo.Coord{Lat: 0, Lon: 0}},
		{ID: "p1", At: geo.Coord{Lat: 0, Lon: 0.01}},
		{ID: "p2", At: geo.Coord{Lat: 0.01, Lon: 0.01}},
	}
}

func TestRouteFeatureCollectionStraightLines(t *testing.T) {
	points := testPoints()
	fc, err := RouteFeatureCollection([]int{0, 1, 2, 0}, points, nil, []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	// 3 visit points + 3 legs.
	if len(fc.Features) != 6 {
		t.Fatalf("features = %d, want 6", len(fc.Features))
	}
	if fc.Features[0].Properties["order"] != 0 || fc.Features[0].Properties["id"] != "p0" {
		t.Fatalf("first feature = %+v", fc.Features[0].Properties)
	}

	data, err := json.Marshal(fc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"FeatureCollection"`) {
		t.Fatalf("marshaled: %s", data)
	}
}

func TestRouteFeatureCollectionFollowsNetwork(t *testing.T) {
	points := testPoints()
	g := network.NewGraph()
	ids := []string{"a", "b", "c"}
	for i, id := range ids {
		g.AddNode(id, points[i].At)
	}
	// Detour node between a and b.
	g.AddNode("mid", geo.Coord{Lat: 0.001, Lon: 0.005})
	for _, e := range []struct {
		u, v string
	}{{"a", "mid"}, {"mid", "b"}, {"b", "c"}, {"c", "a"}} {
		cu, _ := g.Node(e.u)
		cv, _ := g.Node(e.v)
		if err := g.AddEdge(e.u, e.v, geo.Haversine(cu, cv)); err != nil {
			t.Fatal(err)
		}
	}

	fc, err := RouteFeatureCollection([]int{0, 1, 2, 0}, points, g, ids)
	if err != nil {
		t.Fatal(err)
	}
	// The a->b leg passes through mid, so its line has 3 coordinates.
	var legFound bool
	for _, f := range fc.Features {
		if f.Properties["leg"] == 0 {
			legFound = true
			ls, ok := f.Geometry.(orb.LineString)
			if !ok {
				t.Fatalf("leg geometry is %T", f.Geometry)
			}
			if len(ls) != 3 {
				t.Fatalf("leg has %d coordinates, want 3", len(ls))
			}
			if f.Properties["distance_m"].(float64) <= 0 {
				t.Fatal("leg distance missing")
			}
		}
	}
	if !legFound {
		t.Fatal("no leg feature")
	}
}

func TestRouteFeatureCollectionBadInput(t *testing.T) {
	points := testPoints()
	if _, err := RouteFeatureCollection([]int{0, 5, 0}, points, nil, []string{"a", "b", "c"}); err == nil {
		t.Fatal("expected out of range error")
	}
	if _, err := RouteFeatureCollection([]int{0, 1, 0}, points, nil, []string{"a"}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestComparisonFeatureCollection(t *testing.T) {
	points := testPoints()
	results := map[string]solver.Result{
		"held_karp": {Route: []int{0, 1, 2, 0}, Distance: 10, Optimal: true},
		"nn_2opt":   {Route: []int{0, 2, 1, 0}, Distance: 12},
	}
	fc, err := ComparisonFeatureCollection(results, points)
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("features = %d, want 2", len(fc.Features))
	}
	// Algorithms render in sorted order so output is stable.
	if fc.Features[0].Properties["algorithm"] != "held_karp" {
		t.Fatalf("first feature = %+v", fc.Features[0].Properties)
	}
	ls, ok := fc.Features[0].Geometry.(orb.LineString)
	if !ok || len(ls) != 4 {
		t.Fatalf("geometry = %T len %d", fc.Features[0].Geometry, len(ls))
	}

	bad := map[string]solver.Result{"x": {Route: []int{0, 9, 0}}}
	if _, err := ComparisonFeatureCollection(bad, points); err == nil {
		t.Fatal("expected out of range error")
	}
}

func TestRouteWKT(t *testing.T) {
	points := testPoints()
	s, err := RouteWKT([]int{0, 1, 2, 0}, points)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(s, "LINESTRING") {
		t.Fatalf("wkt = %q", s)
	}
	if _, err := RouteWKT([]int{0, 9}, points); err == nil {
		t.Fatal("expected out of range error")
	}
}
