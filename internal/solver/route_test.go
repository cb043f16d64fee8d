package solver

import (
	"errors"
	"testing"
)

func TestTourDistance(t *testing.T) {
	m := [][]float64{
		{0, 10, 10},
		{10, 0, 10},
		{10, 10, 0},
	}
	if d := TourDistance([]int{0, 1, 2, 0}, m); d != 30 {
		t.Fatalf("distance = %v, want 30", d)
	}
	if d := TourDistance([]int{0}, m); d != 0 {
		t.Fatalf("single-node distance = %v, want 0", d)
	}
}

func TestValidateRoute(t *testing.T) {
	cases := []struct {
		name  string
		route []int
		n     int
		ok    bool
	}{
		{"valid", []int{0, 2, 1, 0}, 3, true},
		{"too short", []int{0, 1, 0}, 3, false},
		{"bad start", []int{1, 0, 2, 1}, 3, false},
		{"bad end", []int{0, 1, 2, 2}, 3, false},
		{"repeat", []int{0, 1, 1, 0}, 3, false},
		{"out of range", []int{0, 1, 5, 0}, 3, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidateRoute(c.route, c.n)
			if c.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !c.ok {
				if !errors.Is(err, ErrInvalidRoute) {
					t.Fatalf("got %v, want ErrInvalidRoute", err)
				}
			}
		})
	}
}
