package solver

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"
)

var triangle = [][]float64{
	{0, 10, 10},
	{10, 0, 10},
	{10, 10, 0},
}

// randomMatrix builds a symmetric matrix with zero diagonal.
func randomMatrix(n int, rng *rand.Rand) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := 1 + rng.Float64()*99
			m[i][j] = d
			m[j][i] = d
		}
	}
	return m
}

func TestAllSolversOnTriangle(t *testing.T) {
	type solveFn func([][]float64, Options) (Result, error)
	for name, fn := range map[string]solveFn{
		"brute_force": BruteForce,
		"held_karp":   HeldKarp,
		"nn_2opt":     NearestNeighborTwoOpt,
	} {
		res, err := fn(triangle, Options{})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if res.Distance != 30 {
			t.Fatalf("%s distance = %v, want 30", name, res.Distance)
		}
		if err := ValidateRoute(res.Route, 3); err != nil {
			t.Fatalf("%s route %v: %v", name, res.Route, err)
		}
	}
}

func TestBruteForceHeldKarpAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for n := 2; n <= 10; n++ {
		m := randomMatrix(n, rng)
		bf, err := BruteForce(m, Options{})
		if err != nil {
			t.Fatalf("n=%d brute force: %v", n, err)
		}
		hk, err := HeldKarp(m, Options{})
		if err != nil {
			t.Fatalf("n=%d held-karp: %v", n, err)
		}
		if math.Abs(bf.Distance-hk.Distance) > 0.01 {
			t.Fatalf("n=%d: brute force %v vs held-karp %v", n, bf.Distance, hk.Distance)
		}
		if !bf.Optimal || !hk.Optimal {
			t.Fatalf("exact solvers must report optimal")
		}
		if d := TourDistance(hk.Route, m); math.Abs(d-hk.Distance) > 1e-6 {
			t.Fatalf("n=%d: held-karp route sums to %v, reported %v", n, d, hk.Distance)
		}
	}
}

func TestTwoOptNeverWorseThanGreedy(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		n := 5 + rng.Intn(26)
		m := randomMatrix(n, rng)
		res, err := NearestNeighborTwoOpt(m, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if err := ValidateRoute(res.Route, n); err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if res.Distance > res.Stats.InitialDistance+1e-6 {
			t.Fatalf("n=%d: 2-opt worsened %v -> %v", n, res.Stats.InitialDistance, res.Distance)
		}
		if d := TourDistance(res.Route, m); math.Abs(d-res.Distance) > 1e-6 {
			t.Fatalf("n=%d: route sums to %v, reported %v", n, d, res.Distance)
		}
		if res.Optimal {
			t.Fatal("heuristic must not report optimal")
		}
	}
}

func TestTwoOptMatchesExactOnSmall(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	m := randomMatrix(8, rng)
	exact, err := BruteForce(m, Options{})
	if err != nil {
		t.Fatal(err)
	}
	heur, err := NearestNeighborTwoOpt(m, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if heur.Distance < exact.Distance-1e-6 {
		t.Fatalf("heuristic %v beat the optimum %v", heur.Distance, exact.Distance)
	}
}

func TestBruteForceTooLarge(t *testing.T) {
	m := randomMatrix(12, rand.New(rand.NewSource(1)))
	_, err := BruteForce(m, Options{})
	var tl *ProblemTooLargeError
	if !errors.As(err, &tl) {
		t.Fatalf("got %v, want ProblemTooLargeError", err)
	}
	if tl.N != 12 || tl.Limit != BruteForceLimit {
		t.Fatalf("error = %+v", tl)
	}
	if !strings.Contains(tl.Error(), "runtime") {
		t.Fatalf("message must cite runtime: %q", tl.Error())
	}
}

func TestHeldKarpTooLarge(t *testing.T) {
	m := randomMatrix(21, rand.New(rand.NewSource(1)))
	_, err := HeldKarp(m, Options{})
	var tl *ProblemTooLargeError
	if !errors.As(err, &tl) {
		t.Fatalf("got %v, want ProblemTooLargeError", err)
	}
	if tl.Limit != HeldKarpLimit {
		t.Fatalf("error = %+v", tl)
	}
	if !strings.Contains(tl.Error(), "memory") {
		t.Fatalf("message must cite memory: %q", tl.Error())
	}
}

func TestSolversRejectBadMatrix(t *testing.T) {
	bad := [][]float64{{0, 1}, {1}}
	tiny := [][]float64{{0}}
	for name, fn := range map[string]func([][]float64, Options) (Result, error){
		"brute_force": BruteForce,
		"held_karp":   HeldKarp,
		"nn_2opt":     NearestNeighborTwoOpt,
	} {
		if _, err := fn(bad, Options{}); err == nil {
			t.Fatalf("%s accepted a ragged matrix", name)
		}
		if _, err := fn(tiny, Options{}); err == nil {
			t.Fatalf("%s accepted a single point", name)
		}
	}
}

func TestProgressCallback(t *testing.T) {
	m := randomMatrix(9, rand.New(rand.NewSource(3)))
	calls := 0
	lastDone := -1
	opts := Options{Progress: func(done, total int) {
		calls++
		if done < lastDone {
			t.Fatalf("progress went backwards: %d after %d", done, lastDone)
		}
		lastDone = done
		if total <= 0 {
			t.Fatalf("total = %d", total)
		}
	}}
	if _, err := BruteForce(m, opts); err != nil {
		t.Fatal(err)
	}
	if calls == 0 {
		t.Fatal("progress never reported")
	}
}

func TestSubsetsOfSize(t *testing.T) {
	got := subsetsOfSize(4, 2)
	// Bits 1..3, pairs: {1,2}=6, {1,3}=10, {2,3}=12.
	want := []int{6, 10, 12}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if s := subsetsOfSize(4, 0); len(s) != 0 {
		t.Fatalf("size 0 must be empty, got %v", s)
	}
	if s := subsetsOfSize(4, 4); len(s) != 0 {
		t.Fatalf("size n must be empty over n-1 bits, got %v", s)
	}
}
