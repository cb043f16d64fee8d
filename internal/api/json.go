package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"roadtour/internal/network"
	"roadtour/internal/session"
	"roadtour/internal/solver"
	"roadtour/internal/store"
)

// Problem represents an RFC7807 problem details response body.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, title, detail, instance string) {
	writeJSON(w, status, Problem{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	})
}

// problemFor maps solver and network errors onto an HTTP status and title.
func problemFor(err error) (int, string) {
	var (
		unreachable *network.PointUnreachableError
		tooLarge    *solver.ProblemTooLargeError
		noPath      *network.NoPathError
		dim         *network.DimensionMismatchError
		invalid     *session.ValidationError
	)
	switch {
	case errors.As(err, &unreachable):
		return http.StatusUnprocessableEntity, "Point Unreachable"
	case errors.As(err, &invalid):
		return http.StatusUnprocessableEntity, "Integration Invalid"
	case errors.As(err, &tooLarge):
		return http.StatusUnprocessableEntity, "Problem Too Large"
	case errors.As(err, &noPath):
		return http.StatusUnprocessableEntity, "No Path"
	case errors.As(err, &dim):
		return http.StatusBadRequest, "Dimension Mismatch"
	case errors.Is(err, network.ErrNodeNotFound), errors.Is(err, session.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "Not Found"
	case errors.Is(err, session.ErrNoNetwork), errors.Is(err, session.ErrNoMatrix):
		return http.StatusConflict, "Session Not Ready"
	case errors.Is(err, solver.ErrInvalidRoute):
		return http.StatusInternalServerError, "Invalid Route"
	default:
		return http.StatusInternalServerError, "Internal Error"
	}
}

// writeDomainError maps solver and network errors onto problem responses.
func writeDomainError(w http.ResponseWriter, err error, instance string) {
	status, title := problemFor(err)
	writeProblem(w, status, title, err.Error(), instance)
}
