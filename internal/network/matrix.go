package network

import "fmt"

// BuildMatrix computes the pairwise shortest-path distance matrix for the
// given node IDs. Only the upper triangle is computed; the lower triangle is
// mirrored, so the result is symmetric by construction. The diagonal is zero.
func BuildMatrix(g *Graph, nodeIDs []string) ([][]float64, error) {
	n := len(nodeIDs)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d, err := ShortestDistance(g, nodeIDs[i], nodeIDs[j])
			if err != nil {
				return nil, fmt.Errorf("distance %s to %s: %w", nodeIDs[i], nodeIDs[j], err)
			}
			m[i][j] = d
			m[j][i] = d
		}
	}
	return m, nil
}

// BuildMatrixFor builds the distance matrix for a set of integrated points.
// The points and their graph node ids must pair up one to one; a count
// mismatch means the caller's bookkeeping drifted and matrix indices would
// no longer map back to points.
func BuildMatrixFor(g *Graph, points []Point, nodeIDs []string) ([][]float64, error) {
	if len(points) != len(nodeIDs) {
		return nil, &DimensionMismatchError{Rows: len(points), Cols: len(nodeIDs)}
	}
	return BuildMatrix(g, nodeIDs)
}

// CheckSquare verifies the matrix is non-empty and square.
func CheckSquare(m [][]float64) error {
	if len(m) == 0 {
		return &DimensionMismatchError{Rows: 0, Cols: 0}
	}
	for _, row := range m {
		if len(row) != len(m) {
			return &DimensionMismatchError{Rows: len(m), Cols: len(row)}
		}
	}
	return nil
}

// IsSymmetric reports whether m[i][j] and m[j][i] agree within tol
// everywhere. Asymmetry in a mirrored matrix indicates a builder bug, so
// callers typically log it rather than fail.
func IsSymmetric(m [][]float64, tol float64) bool {
	for i := range m {
		for j := i + 1; j < len(m); j++ {
			d := m[i][j] - m[j][i]
			if d < -tol || d > tol {
				return false
			}
		}
	}
	return true
}

// Triple is an ordered (i, j, k) index triple.
type Triple struct {
	I, J, K int
}

// TriangleViolations returns every ordered triple where going through j is
// shorter than the direct distance by more than tol, i.e.
// m[i][k] > m[i][j] + m[j][k] + tol. On a shortest-path matrix this should
// be empty; violations are diagnostic only and never block solving.
func TriangleViolations(m [][]float64, tol float64) []Triple {
	var out []Triple
	n := len(m)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			for k := 0; k < n; k++ {
				if k == i || k == j {
					continue
				}
				if m[i][k] > m[i][j]+m[j][k]+tol {
					out = append(out, Triple{I: i, J: j, K: k})
				}
			}
		}
	}
	return out
}
