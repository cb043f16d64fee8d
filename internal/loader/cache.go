package loader

import (
	"crypto/sha256"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"roadtour/internal/geo"
	"roadtour/internal/network"
)

// cachedEdge is one undirected edge in the gob snapshot.
type cachedEdge struct {
	U, V   string
	Weight float64
}

// cachedNetwork is the gob on-disk form of a graph. Gob cannot encode the
// live graph directly because of its mutex, so loads and stores go through
// this flat snapshot.
type cachedNetwork struct {
	Nodes map[string]geo.Coord
	Edges []cachedEdge
	Stats Stats
}

// LoadNetworkCached loads a network through a gob cache keyed by the SHA-256
// of the source file's contents. force bypasses and rewrites the cache. A
// stale or corrupt cache entry falls back to a fresh parse.
func LoadNetworkCached(path, cacheDir string, force bool) (*network.Graph, Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("reading network file: %w", err)
	}
	sum := sha256.Sum256(data)
	cachePath := filepath.Join(cacheDir, fmt.Sprintf("net_%x.gob", sum[:8]))

	if !force {
		if g, stats, err := readCache(cachePath); err == nil {
			return g, stats, nil
		}
	}

	g, stats, err := ParseNetwork(data)
	if err != nil {
		return nil, Stats{}, err
	}
	// Cache write failures are not fatal; the parse already succeeded.
	_ = writeCache(cachePath, g, stats)
	return g, stats, nil
}

func readCache(path string) (*network.Graph, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, err
	}
	defer f.Close()

	var snap cachedNetwork
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, Stats{}, fmt.Errorf("decoding cache: %w", err)
	}
	g := network.NewGraph()
	for id, c := range snap.Nodes {
		g.AddNode(id, c)
	}
	for _, e := range snap.Edges {
		if err := g.AddEdge(e.U, e.V, e.Weight); err != nil {
			return nil, Stats{}, fmt.Errorf("rebuilding cached graph: %w", err)
		}
	}
	return g, snap.Stats, nil
}

func writeCache(path string, g *network.Graph, stats Stats) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	snap := cachedNetwork{Nodes: g.Nodes(), Stats: stats}
	g.Edges(func(u, v string, w float64) {
		snap.Edges = append(snap.Edges, cachedEdge{U: u, V: v, Weight: w})
	})

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(snap); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
