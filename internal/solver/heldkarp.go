package solver

import (
	"math"
	"math/bits"
	"time"
)

// HeldKarp solves the tour exactly with the Held-Karp dynamic program.
// dp[mask][k] is the cheapest path starting at 0, visiting exactly the set
// of points in mask, and ending at k. Masks are enumerated in increasing
// popcount order so every subproblem's predecessors are already solved.
// Inputs above HeldKarpLimit points are refused with a memory estimate.
func HeldKarp(m [][]float64, opts Options) (Result, error) {
	if err := checkMatrix(m); err != nil {
		return Result{}, err
	}
	n := len(m)
	if n > HeldKarpLimit {
		_, mem := EstimateHeldKarp(n)
		return Result{}, &ProblemTooLargeError{
			Algorithm: "held_karp",
			N:         n,
			Limit:     HeldKarpLimit,
			Estimate:  mem + " of memory",
		}
	}

	start := time.Now()
	full := 1 << n

	dp := make([][]float64, full)
	parent := make([][]int, full)
	for mask := range dp {
		dp[mask] = make([]float64, n)
		parent[mask] = make([]int, n)
		for k := range dp[mask] {
			dp[mask][k] = math.Inf(1)
			parent[mask][k] = -1
		}
	}
	for k := 1; k < n; k++ {
		dp[1<<k][k] = m[0][k]
	}

	totalSub := (full / 2) * n
	explored := 0

	// Subsets of {1..n-1} by increasing size. subsetsOfSize walks masks of
	// a given popcount with Gosper's hack; bit 0 never appears in a mask.
	for size := 2; size < n; size++ {
		for _, mask := range subsetsOfSize(n, size) {
			for k := 0; k < n; k++ {
				if mask&(1<<k) == 0 {
					continue
				}
				prev := mask &^ (1 << k)
				best := math.Inf(1)
				from := -1
				for j := 0; j < n; j++ {
					if prev&(1<<j) == 0 {
						continue
					}
					if c := dp[prev][j] + m[j][k]; c < best {
						best = c
						from = j
					}
				}
				dp[mask][k] = best
				parent[mask][k] = from
				explored++
				if explored%4096 == 0 {
					opts.report(explored, totalSub)
				}
			}
		}
	}
	opts.report(explored, totalSub)

	// Close the tour: all of {1..n-1} visited, return to 0.
	allMask := (full - 1) &^ 1
	best := math.Inf(1)
	last := -1
	for k := 1; k < n; k++ {
		if c := dp[allMask][k] + m[k][0]; c < best {
			best = c
			last = k
		}
	}

	route := make([]int, 0, n+1)
	route = append(route, 0)
	mask := allMask
	for k := last; k != -1 && k != 0; {
		route = append(route, k)
		pk := parent[mask][k]
		mask &^= 1 << k
		k = pk
	}
	// route currently holds 0 then the tail reversed.
	for i, j := 1, len(route)-1; i < j; i, j = i+1, j-1 {
		route[i], route[j] = route[j], route[i]
	}
	route = append(route, 0)

	return Result{
		Route:     route,
		Distance:  best,
		Algorithm: "held_karp",
		Optimal:   true,
		Stats: Stats{
			Explored: explored,
			Elapsed:  time.Since(start),
		},
	}, nil
}

// subsetsOfSize yields every mask over bits 1..n-1 with exactly size bits
// set, in increasing numeric order, using Gosper's hack shifted to skip
// bit 0.
func subsetsOfSize(n, size int) []int {
	if size <= 0 || size > n-1 {
		return nil
	}
	var out []int
	// Work over n-1 candidate bits, then shift left by one so bit 0 stays
	// clear.
	mask := (1 << size) - 1
	limit := 1 << (n - 1)
	for mask < limit {
		out = append(out, mask<<1)
		c := mask & -mask
		r := mask + c
		mask = ((r ^ mask) >> (bits.TrailingZeros(uint(c)) + 2)) | r
	}
	return out
}
