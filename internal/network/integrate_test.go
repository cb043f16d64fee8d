package network

import (
	"errors"
	"math"
	"testing"

	"roadtour/internal/geo"
)

// twoNodeRoad is a single east-west road segment near the equator, roughly
// 1.1 km long, with its weight set to its geodesic length.
func twoNodeRoad(t *testing.T) (*Graph, geo.Coord, geo.Coord) {
	t.Helper()
	a := geo.Coord{Lat: 0, Lon: 0}
	b := geo.Coord{Lat: 0, Lon: 0.01}
	g := NewGraph()
	g.AddNode("a", a)
	g.AddNode("b", b)
	mustEdge(t, g, "a", "b", geo.Haversine(a, b))
	return g, a, b
}

func TestNearestEdge(t *testing.T) {
	g, _, _ := twoNodeRoad(t)
	// Slightly north of the midpoint.
	p := geo.Coord{Lat: 0.001, Lon: 0.005}
	hit, err := NearestEdge(g, p)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(hit.Ratio-0.5) > 0.01 {
		t.Fatalf("ratio = %v, want ~0.5", hit.Ratio)
	}
	wantMeters := geo.Haversine(p, geo.Coord{Lat: 0, Lon: 0.005})
	if math.Abs(hit.Meters-wantMeters) > 1 {
		t.Fatalf("meters = %v, want ~%v", hit.Meters, wantMeters)
	}
}

func TestNearestEdgeEmptyGraph(t *testing.T) {
	g := NewGraph()
	if _, err := NearestEdge(g, geo.Coord{}); !errors.Is(err, ErrEdgeNotFound) {
		t.Fatalf("got %v, want ErrEdgeNotFound", err)
	}
}

func TestIntegrateSplitsEdge(t *testing.T) {
	g, a, b := twoNodeRoad(t)
	original := geo.Haversine(a, b)

	in, err := Integrate(g, "p1", geo.Coord{Lat: 0.001, Lon: 0.005}, 500)
	if err != nil {
		t.Fatal(err)
	}
	if in.NodeID != "punto_p1" {
		t.Fatalf("node id = %s", in.NodeID)
	}
	if !g.HasNode(in.NodeID) {
		t.Fatal("new node missing from graph")
	}
	if _, err := g.EdgeWeight("a", "b"); !errors.Is(err, ErrEdgeNotFound) {
		t.Fatal("original edge must be removed")
	}

	wa, err := g.EdgeWeight("a", in.NodeID)
	if err != nil {
		t.Fatal(err)
	}
	wb, err := g.EdgeWeight(in.NodeID, "b")
	if err != nil {
		t.Fatal(err)
	}
	// The two halves conserve the original geodesic length.
	if math.Abs((wa+wb)-original) > 0.5 {
		t.Fatalf("split sum = %v, original = %v", wa+wb, original)
	}
	// Midpoint split: each half is close to 50%.
	if r := wa / original; math.Abs(r-0.5) > 0.02 {
		t.Fatalf("first half ratio = %v, want ~0.5", r)
	}
}

func TestIntegrateBeyondThreshold(t *testing.T) {
	g, _, _ := twoNodeRoad(t)
	// ~1.1 km north of the road, threshold 500 m.
	_, err := Integrate(g, "far", geo.Coord{Lat: 0.01, Lon: 0.005}, 500)
	var pu *PointUnreachableError
	if !errors.As(err, &pu) {
		t.Fatalf("got %v, want PointUnreachableError", err)
	}
	if pu.Distance <= pu.Threshold {
		t.Fatalf("error distance %v must exceed threshold %v", pu.Distance, pu.Threshold)
	}
	// The graph is untouched.
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Fatal("graph mutated on rejected integration")
	}
}

func TestIntegrateIDCollision(t *testing.T) {
	g, _, _ := twoNodeRoad(t)
	first, err := Integrate(g, "dup", geo.Coord{Lat: 0.0005, Lon: 0.003}, 500)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Integrate(g, "dup", geo.Coord{Lat: 0.0005, Lon: 0.007}, 500)
	if err != nil {
		t.Fatal(err)
	}
	if first.NodeID != "punto_dup" || second.NodeID != "punto_dup_1" {
		t.Fatalf("ids = %s, %s", first.NodeID, second.NodeID)
	}
}

func TestIntegrateAllAbortsWithoutRollback(t *testing.T) {
	g, _, _ := twoNodeRoad(t)
	points := []Point{
		{ID: "ok", At: geo.Coord{Lat: 0.0005, Lon: 0.003}},
		{ID: "far", At: geo.Coord{Lat: 0.05, Lon: 0.005}},
		{ID: "never", At: geo.Coord{Lat: 0.0005, Lon: 0.008}},
	}
	done, err := IntegrateAll(g, points, 500)
	if err == nil {
		t.Fatal("expected failure on the second point")
	}
	if len(done) != 1 || done[0].PointID != "ok" {
		t.Fatalf("integrated = %v", done)
	}
	// First integration stays in the graph.
	if !g.HasNode("punto_ok") {
		t.Fatal("prior integration rolled back")
	}
	if g.HasNode("punto_never") {
		t.Fatal("integration continued past the failure")
	}
}

func TestValidateIntegration(t *testing.T) {
	g, _, _ := twoNodeRoad(t)
	in, err := Integrate(g, "p1", geo.Coord{Lat: 0.0005, Lon: 0.005}, 500)
	if err != nil {
		t.Fatal(err)
	}
	ok, issues := ValidateIntegration(g, []string{"a", "b", in.NodeID})
	if !ok {
		t.Fatalf("expected valid, issues = %v", issues)
	}

	g.AddNode("lonely", geo.Coord{Lat: 1, Lon: 1})
	ok, issues = ValidateIntegration(g, []string{"a", "lonely", "ghost"})
	if ok {
		t.Fatal("expected issues")
	}
	if len(issues) != 2 {
		t.Fatalf("issues = %v", issues)
	}
}

func TestValidateIntegrationDisconnected(t *testing.T) {
	g, _, _ := twoNodeRoad(t)
	g.AddNode("x", geo.Coord{Lat: 1, Lon: 1})
	g.AddNode("y", geo.Coord{Lat: 1, Lon: 1.001})
	mustEdge(t, g, "x", "y", 100)

	ok, issues := ValidateIntegration(g, []string{"a", "x"})
	if ok {
		t.Fatal("expected reachability issue")
	}
	if len(issues) != 1 || issues[0] != "no path between a and x" {
		t.Fatalf("issues = %v", issues)
	}
}
