package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"roadtour/internal/export"
	"roadtour/internal/loader"
	"roadtour/internal/metrics"
	"roadtour/internal/model"
	"roadtour/internal/network"
	"roadtour/internal/session"
	"roadtour/internal/solver"
)

// SessionsHandler handles POST/GET /v1/sessions
func (s *Server) SessionsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		sess := s.Sessions.Create()
		writeJSON(w, http.StatusCreated, sess.Summarize())
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"items": s.Sessions.List()})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// SessionByIDHandler dispatches /v1/sessions/{id} and its sub-resources:
// network, points, solve, results, export, events.
func (s *Server) SessionByIDHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/sessions/")
	if rest == r.URL.Path || rest == "" {
		writeProblem(w, http.StatusNotFound, "Not Found", "missing session id", r.URL.Path)
		return
	}
	parts := strings.Split(rest, "/")
	id := parts[0]
	sess, err := s.Sessions.Get(id)
	if err != nil {
		writeDomainError(w, err, r.URL.Path)
		return
	}
	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, sess.Summarize())
		case http.MethodDelete:
			s.Sessions.Delete(id)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}
	switch parts[1] {
	case "network":
		s.networkHandler(w, r, sess)
	case "points":
		s.pointsHandler(w, r, sess)
	case "solve":
		s.solveHandler(w, r, sess)
	case "results":
		if len(parts) > 2 && parts[2] == "compare" {
			s.compareHandler(w, r, sess)
		} else {
			s.sessionResultsHandler(w, r, sess)
		}
	case "export":
		s.exportHandler(w, r, sess)
	case "events":
		s.EventsHandler(w, r, sess.ID)
	default:
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
	}
}

// networkHandler loads a road network into the session, inline or from a
// server-side GeoJSON path through the parse cache.
func (s *Server) networkHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req model.NetworkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	var (
		g     *network.Graph
		stats loader.Stats
		err   error
	)
	switch {
	case len(req.GeoJSON) > 0:
		g, stats, err = loader.ParseNetwork(req.GeoJSON)
	case req.Path != "":
		g, stats, err = loader.LoadNetworkCached(req.Path, s.Config.CacheDir, req.Force)
	default:
		writeProblem(w, http.StatusBadRequest, "Invalid network request", "geojson or path required", r.URL.Path)
		return
	}
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Network load failed", err.Error(), r.URL.Path)
		return
	}
	sess.SetNetwork(g, stats)
	writeJSON(w, http.StatusOK, stats)
}

// pointsHandler integrates points into the session network and rebuilds the
// distance matrix, returning integration details plus matrix diagnostics.
// Accepts JSON or a CSV upload (Content-Type text/csv).
func (s *Server) pointsHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req model.PointsRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/csv") {
		points, err := loader.LoadPoints(r.Body)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid CSV", err.Error(), r.URL.Path)
			return
		}
		req.Points = points
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if err := validatePointsRequest(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid points request", err.Error(), r.URL.Path)
		return
	}
	threshold := req.Threshold
	if threshold == 0 {
		threshold = s.Config.ThresholdMeters
	}
	done, err := sess.IntegratePoints(req.Points, threshold)
	metrics.PointsIntegrated.WithLabelValues("ok").Add(float64(len(done)))
	if err != nil {
		// Integration aborts on the first bad point, so at most one point
		// of the batch actually failed. The reply still names the points
		// that made it in, since those stay integrated in the session.
		if len(done) < len(req.Points) {
			metrics.PointsIntegrated.WithLabelValues("failed").Inc()
		}
		status, title := problemFor(err)
		writeJSON(w, status, struct {
			Problem
			Integrations []network.Integration `json:"integrations,omitempty"`
		}{
			Problem: Problem{
				Type:     "about:blank",
				Title:    title,
				Status:   status,
				Detail:   err.Error(),
				Instance: r.URL.Path,
			},
			Integrations: done,
		})
		return
	}

	start := time.Now()
	if err := sess.RebuildMatrix(); err != nil {
		writeDomainError(w, err, r.URL.Path)
		return
	}
	metrics.MatrixBuildDuration.Observe(time.Since(start).Seconds())

	m, err := sess.Matrix()
	if err != nil {
		writeDomainError(w, err, r.URL.Path)
		return
	}
	diag := model.MatrixDiagnostics{
		Size:               len(m),
		Symmetric:          network.IsSymmetric(m, 1e-6),
		TriangleViolations: len(network.TriangleViolations(m, 1e-6)),
	}
	s.Pub.Emit(r.Context(), "points.integrated", map[string]any{
		"sessionId": sess.ID,
		"points":    len(done),
		"matrix":    diag,
	})
	writeJSON(w, http.StatusOK, map[string]any{"integrations": done, "matrix": diag})
}

// solveHandler runs one algorithm over the session matrix, streams progress
// to event subscribers, persists the result, and emits a webhook event.
func (s *Server) solveHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req model.SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if err := validateSolveRequest(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid solve request", err.Error(), r.URL.Path)
		return
	}
	opts := solver.Options{
		MaxStaleScans: req.MaxStaleScans,
		MaxIterations: req.MaxIterations,
	}
	if opts.MaxStaleScans == 0 {
		opts.MaxStaleScans = s.Config.Solver.MaxStaleScans
	}
	if opts.MaxIterations == 0 {
		opts.MaxIterations = s.Config.Solver.MaxIterations
	}
	sessionID := sess.ID
	opts.Progress = func(done, total int) {
		s.Broker.Publish(sessionID, Event{Type: "solve.progress", Data: map[string]any{
			"algorithm": req.Algorithm, "done": done, "total": total,
		}})
	}

	start := time.Now()
	res, err := sess.Solve(req.Algorithm, opts)
	if err != nil {
		metrics.SolveTotal.WithLabelValues(req.Algorithm, "error").Inc()
		writeDomainError(w, err, r.URL.Path)
		return
	}
	metrics.SolveTotal.WithLabelValues(req.Algorithm, "ok").Inc()
	metrics.SolveDuration.WithLabelValues(req.Algorithm).Observe(time.Since(start).Seconds())

	rec := model.ResultRecord{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Algorithm: res.Algorithm,
		Route:     res.Route,
		Distance:  res.Distance,
		Optimal:   res.Optimal,
		Stats:     res.Stats,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.SaveResult(r.Context(), rec); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Save result failed", err.Error(), r.URL.Path)
		return
	}
	s.Broker.Publish(sessionID, Event{Type: "solve.completed", Data: map[string]any{
		"resultId": rec.ID, "algorithm": rec.Algorithm, "distance": rec.Distance,
	}})
	s.Pub.Emit(r.Context(), "solve.completed", map[string]any{
		"resultId":  rec.ID,
		"sessionId": sessionID,
		"algorithm": rec.Algorithm,
		"distance":  rec.Distance,
		"optimal":   rec.Optimal,
	})
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) sessionResultsHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	algorithm := r.URL.Query().Get("algorithm")
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &limit)
	}
	items, err := s.Store.ListResults(r.Context(), sess.ID, algorithm, limit)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List results failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// compareHandler lines up every algorithm solved on the session, naming the
// shortest tour and the quickest solver. With format=geojson the competing
// routes render into a single FeatureCollection.
func (s *Server) compareHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	results := sess.Results()
	if len(results) == 0 {
		writeProblem(w, http.StatusNotFound, "No results", "no solve results to compare", r.URL.Path)
		return
	}
	if r.URL.Query().Get("format") == "geojson" {
		fc, err := export.ComparisonFeatureCollection(results, sess.Points())
		if err != nil {
			writeDomainError(w, err, r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, fc)
		return
	}
	algs := make([]string, 0, len(results))
	for alg := range results {
		algs = append(algs, alg)
	}
	sort.Strings(algs)
	cmp := model.Comparison{Results: results}
	for _, alg := range algs {
		res := results[alg]
		if cmp.Best == "" || res.Distance < results[cmp.Best].Distance {
			cmp.Best = alg
		}
		if cmp.Fastest == "" || res.Stats.Elapsed < results[cmp.Fastest].Stats.Elapsed {
			cmp.Fastest = alg
		}
	}
	writeJSON(w, http.StatusOK, cmp)
}

// exportHandler renders a solved route as GeoJSON or WKT. The route legs
// follow the network's shortest paths when the graph is still loaded.
func (s *Server) exportHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	algorithm := r.URL.Query().Get("algorithm")
	if algorithm == "" {
		writeProblem(w, http.StatusBadRequest, "Missing algorithm", "algorithm query parameter required", r.URL.Path)
		return
	}
	res, ok := sess.Result(algorithm)
	if !ok {
		writeProblem(w, http.StatusNotFound, "No result", "no solve result for algorithm "+algorithm, r.URL.Path)
		return
	}
	switch format := r.URL.Query().Get("format"); format {
	case "", "geojson":
		fc, err := export.RouteFeatureCollection(res.Route, sess.Points(), sess.Graph(), sess.NodeIDs())
		if err != nil {
			writeDomainError(w, err, r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, fc)
	case "wkt":
		wkt, err := export.RouteWKT(res.Route, sess.Points())
		if err != nil {
			writeDomainError(w, err, r.URL.Path)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, wkt)
	default:
		writeProblem(w, http.StatusBadRequest, "Invalid format", "format must be geojson or wkt", r.URL.Path)
	}
}

// ResultByIDHandler handles GET /v1/results/{id}
func (s *Server) ResultByIDHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/results/")
	if id == "" {
		writeProblem(w, http.StatusNotFound, "Not Found", "missing result id", r.URL.Path)
		return
	}
	rec, err := s.Store.GetResult(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// SubscriptionsHandler handles POST/GET /v1/subscriptions
func (s *Server) SubscriptionsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req model.SubscriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		if err := validateSubscriptionRequest(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid subscription", err.Error(), r.URL.Path)
			return
		}
		sub, err := s.Store.CreateSubscription(r.Context(), req)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "Create subscription failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusCreated, sub)
	case http.MethodGet:
		items, err := s.Store.ListSubscriptions(r.Context())
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "List subscriptions failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// SubscriptionByIDHandler handles DELETE /v1/subscriptions/{id}
func (s *Server) SubscriptionByIDHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/subscriptions/")
	if err := s.Store.DeleteSubscription(r.Context(), id); err != nil {
		writeDomainError(w, err, r.URL.Path)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Health
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	// Check DB connectivity when using the Postgres store
	type pinger interface {
		Ping(ctx context.Context) error
	}
	if pg, ok := s.Store.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := pg.Ping(ctx); err != nil {
			writeProblem(w, http.StatusServiceUnavailable, "Not Ready", err.Error(), r.URL.Path)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
