package solver

import (
	"fmt"
	"math"
)

// Throughput assumptions for feasibility estimates. They are deliberately
// conservative; the estimates gate problem sizes, they do not predict
// runtimes.
const (
	permutationsPerSecond = 1_000_000
	subproblemsPerSecond  = 100_000
	bytesPerSubproblem    = 100
)

// Hard problem-size limits.
const (
	BruteForceLimit = 11
	HeldKarpLimit   = 20
)

// ProblemTooLargeError explains why a solver refused the input, including a
// human-readable feasibility estimate.
type ProblemTooLargeError struct {
	Algorithm string
	N         int
	Limit     int
	Estimate  string
}

func (e *ProblemTooLargeError) Error() string {
	return fmt.Sprintf("%s cannot handle %d points (limit %d): estimated %s", e.Algorithm, e.N, e.Limit, e.Estimate)
}

// EstimateBruteForce returns the human-readable time estimate for
// exhaustively solving n points, based on (n-1)! permutations.
func EstimateBruteForce(n int) string {
	perms := factorial(n - 1)
	return humanDuration(perms / permutationsPerSecond)
}

// EstimateHeldKarp returns time and memory estimates for the dynamic
// program over n points, based on 2^n * n subproblems.
func EstimateHeldKarp(n int) (timeEstimate, memEstimate string) {
	sub := math.Exp2(float64(n)) * float64(n)
	return humanDuration(sub / subproblemsPerSecond), humanBytes(sub * bytesPerSubproblem)
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

func humanDuration(seconds float64) string {
	switch {
	case seconds < 1:
		return "under a second"
	case seconds < 60:
		return fmt.Sprintf("%.0f seconds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%.1f minutes", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%.1f hours", seconds/3600)
	case seconds < 86400*365:
		return fmt.Sprintf("%.1f days", seconds/86400)
	default:
		return fmt.Sprintf("%.1f years", seconds/(86400*365))
	}
}

func humanBytes(b float64) string {
	switch {
	case b < 1<<20:
		return fmt.Sprintf("%.0f KB", b/(1<<10))
	case b < 1<<30:
		return fmt.Sprintf("%.1f MB", b/(1<<20))
	default:
		return fmt.Sprintf("%.1f GB", b/(1<<30))
	}
}
