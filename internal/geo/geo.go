package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// Coord is a geographic coordinate in decimal degrees.
type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Point converts to an orb.Point (lon/lat order, as GeoJSON uses).
func (c Coord) Point() orb.Point { return orb.Point{c.Lon, c.Lat} }

// FromPoint converts an orb.Point (lon/lat) back to a Coord.
func FromPoint(p orb.Point) Coord { return Coord{Lat: p.Lat(), Lon: p.Lon()} }

// Haversine returns the great-circle distance between a and b in meters.
func Haversine(a, b Coord) float64 {
	return orbgeo.DistanceHaversine(a.Point(), b.Point())
}

// ProjectOntoSegment projects p onto the segment a-b in the raw lon/lat
// plane and returns the projected coordinate and the ratio t along the
// segment, clamped to [0,1]. A zero-length segment projects to a with t=0.
//
// The planar frame is only used to locate the foot of the perpendicular;
// real-world distances to and along the segment must be measured with
// Haversine afterwards.
func ProjectOntoSegment(p, a, b Coord) (Coord, float64) {
	dx := b.Lon - a.Lon
	dy := b.Lat - a.Lat
	den := dx*dx + dy*dy
	if den == 0 {
		return a, 0
	}
	t := ((p.Lon-a.Lon)*dx + (p.Lat-a.Lat)*dy) / den
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Coord{Lat: a.Lat + t*dy, Lon: a.Lon + t*dx}, t
}

// PointSegmentDistance returns the planar (degree-space) distance from p to
// the segment a-b. It is a ranking metric for nearest-edge search, not a
// physical distance.
func PointSegmentDistance(p, a, b Coord) float64 {
	proj, _ := ProjectOntoSegment(p, a, b)
	dx := p.Lon - proj.Lon
	dy := p.Lat - proj.Lat
	return math.Sqrt(dx*dx + dy*dy)
}
