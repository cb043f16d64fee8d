// Package export renders solved tours as GeoJSON and WKT.
package export

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"

	"roadtour/internal/network"
	"roadtour/internal/solver"
)

// RouteFeatureCollection builds a GeoJSON FeatureCollection for a solved
// tour: one Point feature per visit carrying its order, plus a LineString
// per leg. When g is non-nil each leg follows the real shortest path over
// the network; otherwise legs are straight lines between visits.
//
// route holds matrix indices into points/nodeIDs, length n+1, closing at 0.
func RouteFeatureCollection(route []int, points []network.Point, g *network.Graph, nodeIDs []string) (*geojson.FeatureCollection, error) {
	if len(points) != len(nodeIDs) {
		return nil, fmt.Errorf("points and node ids disagree: %d vs %d", len(points), len(nodeIDs))
	}
	fc := geojson.NewFeatureCollection()

	for order, idx := range route[:len(route)-1] {
		if idx < 0 || idx >= len(points) {
			return nil, fmt.Errorf("route index %d out of range", idx)
		}
		p := points[idx]
		f := geojson.NewFeature(p.At.Point())
		f.Properties["id"] = p.ID
		if p.Name != "" {
			f.Properties["name"] = p.Name
		}
		f.Properties["order"] = order
		fc.Append(f)
	}

	for i := 0; i+1 < len(route); i++ {
		ls, dist, err := legLine(points, g, nodeIDs, route[i], route[i+1])
		if err != nil {
			return nil, err
		}
		f := geojson.NewFeature(ls)
		f.Properties["leg"] = i
		f.Properties["from"] = points[route[i]].ID
		f.Properties["to"] = points[route[i+1]].ID
		if dist > 0 {
			f.Properties["distance_m"] = dist
		}
		fc.Append(f)
	}
	return fc, nil
}

func legLine(points []network.Point, g *network.Graph, nodeIDs []string, from, to int) (orb.LineString, float64, error) {
	if g == nil {
		return orb.LineString{points[from].At.Point(), points[to].At.Point()}, 0, nil
	}
	path, dist, err := network.ShortestPath(g, nodeIDs[from], nodeIDs[to])
	if err != nil {
		return nil, 0, fmt.Errorf("leg %s to %s: %w", points[from].ID, points[to].ID, err)
	}
	ls := make(orb.LineString, 0, len(path))
	for _, id := range path {
		c, ok := g.Node(id)
		if !ok {
			return nil, 0, network.ErrNodeNotFound
		}
		ls = append(ls, c.Point())
	}
	return ls, dist, nil
}

// ComparisonFeatureCollection renders one tour LineString per algorithm so
// competing solves can be inspected on the same map. Legs run straight
// between visits; each feature carries the algorithm name, tour distance
// and optimality flag.
func ComparisonFeatureCollection(results map[string]solver.Result, points []network.Point) (*geojson.FeatureCollection, error) {
	algs := make([]string, 0, len(results))
	for alg := range results {
		algs = append(algs, alg)
	}
	sort.Strings(algs)

	fc := geojson.NewFeatureCollection()
	for _, alg := range algs {
		res := results[alg]
		ls := make(orb.LineString, 0, len(res.Route))
		for _, idx := range res.Route {
			if idx < 0 || idx >= len(points) {
				return nil, fmt.Errorf("route index %d out of range", idx)
			}
			ls = append(ls, points[idx].At.Point())
		}
		f := geojson.NewFeature(ls)
		f.Properties["algorithm"] = alg
		f.Properties["distance"] = res.Distance
		f.Properties["optimal"] = res.Optimal
		fc.Append(f)
	}
	return fc, nil
}

// RouteWKT renders the tour as a single WKT LINESTRING through the visit
// coordinates in order.
func RouteWKT(route []int, points []network.Point) (string, error) {
	ls := make(orb.LineString, 0, len(route))
	for _, idx := range route {
		if idx < 0 || idx >= len(points) {
			return "", fmt.Errorf("route index %d out of range", idx)
		}
		ls = append(ls, points[idx].At.Point())
	}
	return wkt.MarshalString(ls), nil
}
