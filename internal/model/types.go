package model

import (
	"encoding/json"
	"time"

	"roadtour/internal/network"
	"roadtour/internal/solver"
)

// Request and persistence shapes shared by the API and store layers.

// NetworkRequest loads a road network into a session, either inline as
// GeoJSON or from a server-side file path.
type NetworkRequest struct {
	GeoJSON json.RawMessage `json:"geojson,omitempty"`
	Path    string          `json:"path,omitempty"`
	Force   bool            `json:"force,omitempty"` // bypass the parse cache
}

// PointsRequest integrates points of interest into a session's network.
type PointsRequest struct {
	Points    []network.Point `json:"points"`
	Threshold float64         `json:"threshold,omitempty"` // meters, server default when 0
}

// SolveRequest runs one algorithm over a session's distance matrix.
type SolveRequest struct {
	Algorithm     string `json:"algorithm"`
	MaxStaleScans int    `json:"maxStaleScans,omitempty"`
	MaxIterations int    `json:"maxIterations,omitempty"`
}

// ResultRecord is a persisted solve outcome.
type ResultRecord struct {
	ID        string       `json:"id"`
	SessionID string       `json:"sessionId"`
	Algorithm string       `json:"algorithm"`
	Route     []int        `json:"route"`
	Distance  float64      `json:"distance"`
	Optimal   bool         `json:"optimal"`
	Stats     solver.Stats `json:"stats"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Comparison lines up every solved algorithm on a session. Best names the
// algorithm with the shortest tour, Fastest the one with the lowest solve
// time.
type Comparison struct {
	Results map[string]solver.Result `json:"results"`
	Best    string                   `json:"best"`
	Fastest string                   `json:"fastest"`
}

// MatrixDiagnostics reports advisory checks on a built matrix.
type MatrixDiagnostics struct {
	Size               int  `json:"size"`
	Symmetric          bool `json:"symmetric"`
	TriangleViolations int  `json:"triangleViolations"`
}

type SubscriptionRequest struct {
	URL    string   `json:"url"`
	Events []string `json:"events"`
	Secret string   `json:"secret"`
}

type Subscription struct {
	ID     string   `json:"id"`
	URL    string   `json:"url"`
	Events []string `json:"events"`
	Secret string   `json:"secret,omitempty"`
}
