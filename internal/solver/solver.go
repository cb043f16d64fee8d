// Package solver implements exact and heuristic tour solvers over a
// symmetric distance matrix. Index 0 is always the start and end of the
// tour; solvers return routes of length n+1 beginning and ending at 0.
package solver

import (
	"fmt"
	"time"

	"roadtour/internal/network"
)

// Progress reports solver advancement. done and total are algorithm
// specific units (permutations, subproblems, scans). Implementations must
// not block; solvers call it inline.
type Progress func(done, total int)

// Stats carries per-run counters for diagnostics and API responses.
type Stats struct {
	Explored        int           `json:"explored"`
	Improvements    int           `json:"improvements,omitempty"`
	InitialDistance float64       `json:"initial_distance,omitempty"`
	ImprovementPct  float64       `json:"improvement_pct,omitempty"`
	Elapsed         time.Duration `json:"elapsed_ns"`
}

// Result is a solved tour. Route holds matrix indices, length n+1, starting
// and ending at 0. Optimal is true only for exact solvers.
type Result struct {
	Route     []int   `json:"route"`
	Distance  float64 `json:"distance"`
	Algorithm string  `json:"algorithm"`
	Optimal   bool    `json:"optimal"`
	Stats     Stats   `json:"stats"`
}

// Options tunes heuristic behavior and wires progress reporting. The zero
// value uses defaults.
type Options struct {
	Progress      Progress
	MaxStaleScans int // 2-opt: consecutive non-improving full scans before stopping
	MaxIterations int // 2-opt: cap on accepted moves
}

func (o Options) report(done, total int) {
	if o.Progress != nil {
		o.Progress(done, total)
	}
}

func (o Options) staleScans() int {
	if o.MaxStaleScans <= 0 {
		return defaultStaleScans
	}
	return o.MaxStaleScans
}

func (o Options) maxIterations() int {
	if o.MaxIterations <= 0 {
		return defaultMaxIterations
	}
	return o.MaxIterations
}

const (
	defaultStaleScans    = 3
	defaultMaxIterations = 100000
)

// checkMatrix rejects matrices that are not square or too small to tour.
func checkMatrix(m [][]float64) error {
	if err := network.CheckSquare(m); err != nil {
		return err
	}
	if len(m) < 2 {
		return fmt.Errorf("need at least 2 points, got %d", len(m))
	}
	return nil
}
