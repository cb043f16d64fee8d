package solver

import (
	"math"
	"time"
)

// NearestNeighborTwoOpt builds a greedy tour from index 0 and polishes it
// with first-improvement 2-opt. A scan restarts from the top after every
// accepted move; the search stops once MaxStaleScans consecutive full scans
// find no improvement, or after MaxIterations accepted moves.
func NearestNeighborTwoOpt(m [][]float64, opts Options) (Result, error) {
	if err := checkMatrix(m); err != nil {
		return Result{}, err
	}
	n := len(m)
	start := time.Now()

	route := nearestNeighborRoute(m)
	initial := TourDistance(route, m)
	distance := initial

	maxStale := opts.staleScans()
	maxIter := opts.maxIterations()

	stale := 0
	improvements := 0
	scans := 0
	for stale < maxStale && improvements < maxIter {
		improved := false
	scan:
		for i := 1; i < n-1; i++ {
			for j := i + 1; j < n; j++ {
				// Reversing route[i..j] replaces edges (i-1,i) and
				// (j,j+1) with (i-1,j) and (i,j+1).
				delta := m[route[i-1]][route[j]] + m[route[i]][route[j+1]] -
					m[route[i-1]][route[i]] - m[route[j]][route[j+1]]
				if delta < -1e-10 {
					reverse(route, i, j)
					distance += delta
					improvements++
					improved = true
					break scan
				}
			}
		}
		scans++
		if improved {
			stale = 0
		} else {
			stale++
		}
		opts.report(improvements, maxIter)
	}

	// Guard against float drift from incremental deltas.
	distance = TourDistance(route, m)

	pct := 0.0
	if initial > 0 {
		pct = (initial - distance) / initial * 100
	}
	if math.IsNaN(pct) {
		pct = 0
	}

	return Result{
		Route:     route,
		Distance:  distance,
		Algorithm: "nn_2opt",
		Optimal:   false,
		Stats: Stats{
			Explored:        scans,
			Improvements:    improvements,
			InitialDistance: initial,
			ImprovementPct:  pct,
			Elapsed:         time.Since(start),
		},
	}, nil
}

// nearestNeighborRoute builds the greedy closed tour from index 0.
func nearestNeighborRoute(m [][]float64) []int {
	n := len(m)
	route := make([]int, 0, n+1)
	visited := make([]bool, n)
	cur := 0
	visited[0] = true
	route = append(route, 0)
	for len(route) < n {
		next := -1
		best := math.Inf(1)
		for j := 0; j < n; j++ {
			if !visited[j] && m[cur][j] < best {
				best = m[cur][j]
				next = j
			}
		}
		visited[next] = true
		route = append(route, next)
		cur = next
	}
	return append(route, 0)
}

func reverse(route []int, i, j int) {
	for i < j {
		route[i], route[j] = route[j], route[i]
		i++
		j--
	}
}
