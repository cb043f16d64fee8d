package geo

import (
	"math"
	"testing"
)

func TestHaversineKnownDistance(t *testing.T) {
	// One degree of latitude at the equator is ~111.2 km.
	a := Coord{Lat: 0, Lon: 0}
	b := Coord{Lat: 1, Lon: 0}
	d := Haversine(a, b)
	if math.Abs(d-111195) > 500 {
		t.Fatalf("1 degree latitude: got %.0f m, want ~111195 m", d)
	}
	if Haversine(a, a) != 0 {
		t.Fatalf("self distance must be 0")
	}
}

func TestHaversineSymmetric(t *testing.T) {
	a := Coord{Lat: 4.6486, Lon: -74.0978}
	b := Coord{Lat: 4.6097, Lon: -74.0817}
	if d1, d2 := Haversine(a, b), Haversine(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Fatalf("haversine not symmetric: %v vs %v", d1, d2)
	}
}

func TestProjectMidpoint(t *testing.T) {
	p := Coord{Lat: 1.0, Lon: 1.5}
	a := Coord{Lat: 1.0, Lon: 1.0}
	b := Coord{Lat: 1.0, Lon: 2.0}
	proj, ratio := ProjectOntoSegment(p, a, b)
	if math.Abs(ratio-0.5) > 0.01 {
		t.Fatalf("midpoint ratio: got %v, want ~0.5", ratio)
	}
	if math.Abs(proj.Lat-1.0) > 1e-9 || math.Abs(proj.Lon-1.5) > 1e-9 {
		t.Fatalf("unexpected projection: %+v", proj)
	}
}

func TestProjectRatioClamped(t *testing.T) {
	a := Coord{Lat: 1.0, Lon: 1.0}
	b := Coord{Lat: 1.0, Lon: 2.0}
	cases := []struct {
		p    Coord
		low  float64
		high float64
	}{
		{Coord{Lat: 1.0, Lon: 1.1}, 0.0, 0.2},  // near start
		{Coord{Lat: 1.0, Lon: 1.9}, 0.8, 1.0},  // near end
		{Coord{Lat: 1.0, Lon: 0.0}, 0.0, 0.0},  // before start, clamps to 0
		{Coord{Lat: 1.0, Lon: 5.0}, 1.0, 1.0},  // past end, clamps to 1
		{Coord{Lat: 20.0, Lon: 1.5}, 0.5, 0.5}, // far off-axis, still mid
	}
	for _, c := range cases {
		_, ratio := ProjectOntoSegment(c.p, a, b)
		if ratio < c.low-1e-9 || ratio > c.high+1e-9 {
			t.Fatalf("point %+v: ratio %v outside [%v,%v]", c.p, ratio, c.low, c.high)
		}
	}
}

func TestProjectZeroLengthSegment(t *testing.T) {
	a := Coord{Lat: 2.0, Lon: 3.0}
	proj, ratio := ProjectOntoSegment(Coord{Lat: 9, Lon: 9}, a, a)
	if ratio != 0 {
		t.Fatalf("zero-length segment: ratio %v, want 0", ratio)
	}
	if proj != a {
		t.Fatalf("zero-length segment: proj %+v, want %+v", proj, a)
	}
}

func TestPointSegmentDistance(t *testing.T) {
	a := Coord{Lat: 0.0, Lon: 0.0}
	b := Coord{Lat: 0.0, Lon: 1.0}
	// Point directly above the middle: planar distance equals the lat offset.
	if d := PointSegmentDistance(Coord{Lat: 0.25, Lon: 0.5}, a, b); math.Abs(d-0.25) > 1e-9 {
		t.Fatalf("perpendicular distance: got %v, want 0.25", d)
	}
	// Point on the segment.
	if d := PointSegmentDistance(Coord{Lat: 0.0, Lon: 0.5}, a, b); d > 1e-12 {
		t.Fatalf("on-segment distance: got %v, want 0", d)
	}
}
