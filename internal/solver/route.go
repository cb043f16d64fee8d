package solver

import (
	"errors"
	"fmt"
)

// ErrInvalidRoute is wrapped by ValidateRoute with the specific defect.
var ErrInvalidRoute = errors.New("invalid route")

// TourDistance sums the matrix distances along a route. The route must
// already be validated; indexes out of range panic like any slice access.
func TourDistance(route []int, m [][]float64) float64 {
	total := 0.0
	for i := 0; i+1 < len(route); i++ {
		total += m[route[i]][route[i+1]]
	}
	return total
}

// ValidateRoute checks that route is a closed tour over n points: length
// n+1, starting and ending at 0, visiting every index exactly once.
func ValidateRoute(route []int, n int) error {
	if len(route) != n+1 {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidRoute, len(route), n+1)
	}
	if route[0] != 0 || route[len(route)-1] != 0 {
		return fmt.Errorf("%w: must start and end at 0", ErrInvalidRoute)
	}
	seen := make([]bool, n)
	for _, idx := range route[:len(route)-1] {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%w: index %d out of range", ErrInvalidRoute, idx)
		}
		if seen[idx] {
			return fmt.Errorf("%w: index %d visited twice", ErrInvalidRoute, idx)
		}
		seen[idx] = true
	}
	for idx, ok := range seen {
		if !ok {
			return fmt.Errorf("%w: index %d never visited", ErrInvalidRoute, idx)
		}
	}
	return nil
}
