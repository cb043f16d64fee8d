// Package session holds per-client solve state: the loaded network, the
// integrated points and the distance matrix built from them. All solve
// state lives in an explicit session rather than package globals so
// concurrent clients never share graphs.
package session

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"roadtour/internal/loader"
	"roadtour/internal/network"
	"roadtour/internal/solver"
)

// ErrNotFound is returned by the manager for unknown session ids.
var ErrNotFound = errors.New("session not found")

// ErrNoNetwork is returned when an operation needs a loaded network first.
var ErrNoNetwork = errors.New("session has no network loaded")

// ErrNoMatrix is returned when solving before any points were integrated.
var ErrNoMatrix = errors.New("session has no distance matrix")

// ValidationError reports post-integration checks that failed: missing or
// isolated nodes, or points in different components.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "integration validation failed: " + strings.Join(e.Issues, "; ")
}

// Session is one client's working state. Methods serialize on an internal
// mutex, so integrating and solving on the same session never race.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	mu           sync.Mutex
	updatedAt    time.Time
	graph        *network.Graph
	netStats     loader.Stats
	points       []network.Point
	nodeIDs      []string
	integrations []network.Integration
	matrix       [][]float64
	results      map[string]solver.Result
}

func newSession() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		updatedAt: now,
		results:   map[string]solver.Result{},
	}
}

// SetNetwork installs a freshly loaded network and clears all downstream
// state, since old integrations reference nodes of the old graph.
func (s *Session) SetNetwork(g *network.Graph, stats loader.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph = g
	s.netStats = stats
	s.points = nil
	s.nodeIDs = nil
	s.integrations = nil
	s.matrix = nil
	s.results = map[string]solver.Result{}
	s.touch()
}

// IntegratePoints attaches points to the network and invalidates any cached
// matrix and solve results. On failure the session keeps the points
// integrated before the failure, matching the graph state. Callers rebuild
// the matrix with RebuildMatrix once the batch is in.
func (s *Session) IntegratePoints(points []network.Point, threshold float64) ([]network.Integration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.graph == nil {
		return nil, ErrNoNetwork
	}
	done, err := network.IntegrateAll(s.graph, points, threshold)
	for i, in := range done {
		s.points = append(s.points, points[i])
		s.nodeIDs = append(s.nodeIDs, in.NodeID)
		s.integrations = append(s.integrations, in)
	}
	// Any change to the integrated set invalidates cached solves.
	s.matrix = nil
	s.results = map[string]solver.Result{}
	s.touch()
	if err != nil {
		return done, err
	}
	if ok, issues := network.ValidateIntegration(s.graph, s.nodeIDs); !ok {
		return done, &ValidationError{Issues: issues}
	}
	return done, nil
}

// RebuildMatrix recomputes the distance matrix over everything integrated
// so far.
func (s *Session) RebuildMatrix() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.graph == nil {
		return ErrNoNetwork
	}
	m, err := network.BuildMatrixFor(s.graph, s.points, s.nodeIDs)
	if err != nil {
		return err
	}
	s.matrix = m
	s.touch()
	return nil
}

// Matrix returns a copy of the current distance matrix.
func (s *Session) Matrix() ([][]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.matrix == nil {
		return nil, ErrNoMatrix
	}
	out := make([][]float64, len(s.matrix))
	for i, row := range s.matrix {
		out[i] = append([]float64(nil), row...)
	}
	return out, nil
}

// Solve runs the named algorithm over the session matrix and caches the
// result. The session stays locked for the duration of the solve.
func (s *Session) Solve(algorithm string, opts solver.Options) (solver.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.matrix == nil {
		return solver.Result{}, ErrNoMatrix
	}

	var (
		res solver.Result
		err error
	)
	switch algorithm {
	case "brute_force":
		res, err = solver.BruteForce(s.matrix, opts)
	case "held_karp":
		res, err = solver.HeldKarp(s.matrix, opts)
	case "nn_2opt":
		res, err = solver.NearestNeighborTwoOpt(s.matrix, opts)
	default:
		return solver.Result{}, errors.New("unknown algorithm " + algorithm)
	}
	if err != nil {
		return solver.Result{}, err
	}
	if verr := solver.ValidateRoute(res.Route, len(s.matrix)); verr != nil {
		return solver.Result{}, verr
	}
	s.results[algorithm] = res
	s.touch()
	return res, nil
}

// Result returns a cached solve result by algorithm name.
func (s *Session) Result(algorithm string) (solver.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.results[algorithm]
	return r, ok
}

// Results returns every cached solve result keyed by algorithm name.
func (s *Session) Results() map[string]solver.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]solver.Result, len(s.results))
	for alg, r := range s.results {
		out[alg] = r
	}
	return out
}

// Points returns the integrated points in order.
func (s *Session) Points() []network.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]network.Point(nil), s.points...)
}

// NodeIDs returns the graph node ids for the integrated points, index
// aligned with Points.
func (s *Session) NodeIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.nodeIDs...)
}

// Graph exposes the session network for export and validation.
func (s *Session) Graph() *network.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph
}

// Summary is the JSON shape of a session's state.
type Summary struct {
	ID           string                `json:"id"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Network      *loader.Stats         `json:"network,omitempty"`
	Points       []network.Point       `json:"points,omitempty"`
	Integrations []network.Integration `json:"integrations,omitempty"`
	MatrixSize   int                   `json:"matrix_size"`
	Algorithms   []string              `json:"solved_algorithms,omitempty"`
}

// Summarize snapshots the session for API responses.
func (s *Session) Summarize() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := Summary{
		ID:           s.ID,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.updatedAt,
		Points:       append([]network.Point(nil), s.points...),
		Integrations: append([]network.Integration(nil), s.integrations...),
		MatrixSize:   len(s.matrix),
	}
	if s.graph != nil {
		stats := s.netStats
		out.Network = &stats
	}
	for alg := range s.results {
		out.Algorithms = append(out.Algorithms, alg)
	}
	sort.Strings(out.Algorithms)
	return out
}

func (s *Session) touch() { s.updatedAt = time.Now().UTC() }

// Manager owns all live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: map[string]*Session{}}
}

// Create registers a new empty session.
func (m *Manager) Create() *Session {
	s := newSession()
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get looks up a session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// List returns summaries of every live session.
func (m *Manager) List() []Summary {
	m.mu.RLock()
	ids := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		ids = append(ids, s)
	}
	m.mu.RUnlock()

	out := make([]Summary, 0, len(ids))
	for _, s := range ids {
		out = append(out, s.Summarize())
	}
	return out
}
