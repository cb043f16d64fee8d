package network

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph lookups and routing.
var (
	ErrNodeNotFound = errors.New("node not found")
	ErrEdgeNotFound = errors.New("edge not found")
)

// NoPathError reports that two nodes are in disconnected components.
type NoPathError struct {
	From string
	To   string
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("no path between %s and %s", e.From, e.To)
}

// PointUnreachableError reports that a point's nearest edge is farther away
// than the integration threshold allows. Distances are in meters.
type PointUnreachableError struct {
	ID        string
	Distance  float64
	Threshold float64
}

func (e *PointUnreachableError) Error() string {
	return fmt.Sprintf("point %s is %.1fm from the nearest edge, beyond the %.1fm threshold", e.ID, e.Distance, e.Threshold)
}

// DimensionMismatchError reports a malformed distance matrix, either a
// non-square matrix or a point set whose size disagrees with its node set.
type DimensionMismatchError struct {
	Rows int
	Cols int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: %d by %d", e.Rows, e.Cols)
}
