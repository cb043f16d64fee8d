package network

import (
	"sort"
	"sync"

	"roadtour/internal/geo"
)

// Edge is one directed half of an undirected road segment. Weight is the
// geodesic length of the segment in meters.
type Edge struct {
	To     string
	Weight float64
}

// Graph is an undirected weighted road network. Nodes are addressed by
// string IDs rather than pointers so that edges survive serialization and
// node maps can be rebuilt cheaply.
type Graph struct {
	mu    sync.RWMutex
	nodes map[string]geo.Coord
	adj   map[string][]Edge
}

// NewGraph returns an empty network.
func NewGraph() *Graph {
	return &Graph{
		nodes: map[string]geo.Coord{},
		adj:   map[string][]Edge{},
	}
}

// AddNode inserts or moves a node. Existing edges keep their weights.
func (g *Graph) AddNode(id string, c geo.Coord) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nodes[id] = c
	if _, ok := g.adj[id]; !ok {
		g.adj[id] = nil
	}
}

// AddEdge connects u and v in both directions with the given weight. Both
// nodes must already exist. Adding an edge that already exists replaces its
// weight.
func (g *Graph) AddEdge(u, v string, weight float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.nodes[u]; !ok {
		return ErrNodeNotFound
	}
	if _, ok := g.nodes[v]; !ok {
		return ErrNodeNotFound
	}
	g.setHalf(u, v, weight)
	g.setHalf(v, u, weight)
	return nil
}

func (g *Graph) setHalf(u, v string, weight float64) {
	for i, e := range g.adj[u] {
		if e.To == v {
			g.adj[u][i].Weight = weight
			return
		}
	}
	g.adj[u] = append(g.adj[u], Edge{To: v, Weight: weight})
}

// RemoveEdge deletes the undirected edge between u and v.
func (g *Graph) RemoveEdge(u, v string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.dropHalf(u, v) || !g.dropHalf(v, u) {
		return ErrEdgeNotFound
	}
	return nil
}

func (g *Graph) dropHalf(u, v string) bool {
	list := g.adj[u]
	for i, e := range list {
		if e.To == v {
			g.adj[u] = append(list[:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// Node returns a node's coordinate.
func (g *Graph) Node(id string) (geo.Coord, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c, ok := g.nodes[id]
	return c, ok
}

// HasNode reports whether id exists.
func (g *Graph) HasNode(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// EdgeWeight returns the weight of the edge u-v.
func (g *Graph) EdgeWeight(u, v string) (float64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, e := range g.adj[u] {
		if e.To == v {
			return e.Weight, nil
		}
	}
	return 0, ErrEdgeNotFound
}

// Neighbors returns a copy of u's adjacency list.
func (g *Graph) Neighbors(u string) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Edge, len(g.adj[u]))
	copy(out, g.adj[u])
	return out
}

// Degree returns the number of edges incident to id.
func (g *Graph) Degree(id string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.adj[id])
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	total := 0
	for _, list := range g.adj {
		total += len(list)
	}
	return total / 2
}

// NodeIDs returns all node IDs in sorted order for deterministic iteration.
func (g *Graph) NodeIDs() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Nodes returns a snapshot of the node map.
func (g *Graph) Nodes() map[string]geo.Coord {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[string]geo.Coord, len(g.nodes))
	for id, c := range g.nodes {
		out[id] = c
	}
	return out
}

// Edges visits every undirected edge exactly once.
func (g *Graph) Edges(fn func(u, v string, weight float64)) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for u, list := range g.adj {
		for _, e := range list {
			if u < e.To {
				fn(u, e.To, e.Weight)
			}
		}
	}
}

// Bounds returns the bounding box of all node coordinates. ok is false for
// an empty graph.
func (g *Graph) Bounds() (min, max geo.Coord, ok bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	first := true
	for _, c := range g.nodes {
		if first {
			min, max = c, c
			first = false
			continue
		}
		if c.Lat < min.Lat {
			min.Lat = c.Lat
		}
		if c.Lat > max.Lat {
			max.Lat = c.Lat
		}
		if c.Lon < min.Lon {
			min.Lon = c.Lon
		}
		if c.Lon > max.Lon {
			max.Lon = c.Lon
		}
	}
	return min, max, !first
}
