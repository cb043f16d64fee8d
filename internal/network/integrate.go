package network

import (
	"fmt"
	"math"

	"roadtour/internal/geo"
)

// NearestEdgeHit describes the closest edge to a query point.
type NearestEdgeHit struct {
	U, V       string
	Projection geo.Coord
	Ratio      float64 // position of the projection along U->V, in [0,1]
	Meters     float64 // geodesic distance from the point to the projection
}

// NearestEdge scans every edge and returns the one whose segment is closest
// to c. Ranking uses the planar degree-space distance; the returned Meters
// is the real haversine distance to the projected point.
func NearestEdge(g *Graph, c geo.Coord) (NearestEdgeHit, error) {
	best := NearestEdgeHit{Meters: math.Inf(1)}
	bestPlanar := math.Inf(1)
	found := false
	g.Edges(func(u, v string, _ float64) {
		cu, _ := g.Node(u)
		cv, _ := g.Node(v)
		d := geo.PointSegmentDistance(c, cu, cv)
		if d < bestPlanar {
			bestPlanar = d
			proj, t := geo.ProjectOntoSegment(c, cu, cv)
			best = NearestEdgeHit{
				U:          u,
				V:          v,
				Projection: proj,
				Ratio:      t,
				Meters:     geo.Haversine(c, proj),
			}
			found = true
		}
	})
	if !found {
		return NearestEdgeHit{}, ErrEdgeNotFound
	}
	return best, nil
}

// Integration records how a point of interest was attached to the network.
type Integration struct {
	PointID string
	NodeID  string
	Meters  float64 // distance from the original point to its network node
}

// Integrate attaches the point with the given id to the network by splitting
// its nearest edge at the projection. The split halves are weighted by their
// real geodesic lengths, so the original edge weight is conserved up to the
// difference between the stored weight and the haversine length.
//
// If the point is farther than threshold meters from every edge, the graph
// is left untouched and a PointUnreachableError is returned.
func Integrate(g *Graph, id string, c geo.Coord, threshold float64) (Integration, error) {
	hit, err := NearestEdge(g, c)
	if err != nil {
		return Integration{}, err
	}
	if hit.Meters > threshold {
		return Integration{}, &PointUnreachableError{ID: id, Distance: hit.Meters, Threshold: threshold}
	}

	nodeID := freshNodeID(g, "punto_"+id)
	cu, _ := g.Node(hit.U)
	cv, _ := g.Node(hit.V)

	if err := g.RemoveEdge(hit.U, hit.V); err != nil {
		return Integration{}, err
	}
	g.AddNode(nodeID, hit.Projection)
	if err := g.AddEdge(hit.U, nodeID, geo.Haversine(cu, hit.Projection)); err != nil {
		return Integration{}, err
	}
	if err := g.AddEdge(nodeID, hit.V, geo.Haversine(hit.Projection, cv)); err != nil {
		return Integration{}, err
	}
	return Integration{PointID: id, NodeID: nodeID, Meters: hit.Meters}, nil
}

// freshNodeID returns base if unused, otherwise base_1, base_2, ... in order,
// so repeated integrations of the same point id stay deterministic.
func freshNodeID(g *Graph, base string) string {
	if !g.HasNode(base) {
		return base
	}
	for n := 1; ; n++ {
		id := fmt.Sprintf("%s_%d", base, n)
		if !g.HasNode(id) {
			return id
		}
	}
}

// Point is a named point of interest to integrate.
type Point struct {
	ID   string    `json:"id"`
	Name string    `json:"name,omitempty"`
	At   geo.Coord `json:"at"`
}

// IntegrateAll integrates points in order and stops at the first failure.
// Points already integrated stay in the graph; the caller decides whether a
// partial integration is usable.
func IntegrateAll(g *Graph, points []Point, threshold float64) ([]Integration, error) {
	out := make([]Integration, 0, len(points))
	for _, p := range points {
		in, err := Integrate(g, p.ID, p.At, threshold)
		if err != nil {
			return out, fmt.Errorf("integrating point %s: %w", p.ID, err)
		}
		out = append(out, in)
	}
	return out, nil
}

// ValidateIntegration checks that every node id exists, has at least one
// edge, and that all of them are mutually reachable. It returns every issue
// found rather than stopping at the first one.
func ValidateIntegration(g *Graph, nodeIDs []string) (bool, []string) {
	var issues []string
	present := make([]string, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		if !g.HasNode(id) {
			issues = append(issues, fmt.Sprintf("node %s does not exist", id))
			continue
		}
		if g.Degree(id) == 0 {
			issues = append(issues, fmt.Sprintf("node %s is isolated", id))
			continue
		}
		present = append(present, id)
	}
	if len(present) > 1 {
		reach := reachableFrom(g, present[0])
		for _, id := range present[1:] {
			if !reach[id] {
				issues = append(issues, (&NoPathError{From: present[0], To: id}).Error())
			}
		}
	}
	return len(issues) == 0, issues
}

// reachableFrom returns the set of nodes reachable from start via BFS.
func reachableFrom(g *Graph, start string) map[string]bool {
	seen := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, e := range g.Neighbors(u) {
			if !seen[e.To] {
				seen[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	return seen
}
