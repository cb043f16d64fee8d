package solver

import (
	"math"
	"time"
)

// BruteForce solves the tour exactly by trying every permutation of the
// points after index 0. It refuses inputs above BruteForceLimit points with
// an estimate of how long the full enumeration would take.
func BruteForce(m [][]float64, opts Options) (Result, error) {
	if err := checkMatrix(m); err != nil {
		return Result{}, err
	}
	n := len(m)
	if n > BruteForceLimit {
		return Result{}, &ProblemTooLargeError{
			Algorithm: "brute_force",
			N:         n,
			Limit:     BruteForceLimit,
			Estimate:  EstimateBruteForce(n) + " of runtime",
		}
	}

	start := time.Now()
	total := int(factorial(n - 1))

	// Permute indices 1..n-1 in place; index 0 is fixed.
	perm := make([]int, n-1)
	for i := range perm {
		perm[i] = i + 1
	}

	best := math.Inf(1)
	bestPerm := make([]int, n-1)
	explored := 0

	var visit func(k int)
	visit = func(k int) {
		if k == len(perm) {
			d := m[0][perm[0]]
			for i := 0; i+1 < len(perm); i++ {
				d += m[perm[i]][perm[i+1]]
			}
			d += m[perm[len(perm)-1]][0]
			explored++
			if d < best {
				best = d
				copy(bestPerm, perm)
			}
			if explored%1000 == 0 {
				opts.report(explored, total)
			}
			return
		}
		for i := k; i < len(perm); i++ {
			perm[k], perm[i] = perm[i], perm[k]
			visit(k + 1)
			perm[k], perm[i] = perm[i], perm[k]
		}
	}
	visit(0)
	opts.report(explored, total)

	route := make([]int, 0, n+1)
	route = append(route, 0)
	route = append(route, bestPerm...)
	route = append(route, 0)

	return Result{
		Route:     route,
		Distance:  best,
		Algorithm: "brute_force",
		Optimal:   true,
		Stats: Stats{
			Explored: explored,
			Elapsed:  time.Since(start),
		},
	}, nil
}
