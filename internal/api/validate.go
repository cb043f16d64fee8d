package api

import (
	"fmt"
	"strings"

	"roadtour/internal/model"
)

func validateSolveRequest(req *model.SolveRequest) error {
	switch req.Algorithm {
	case "brute_force", "held_karp", "nn_2opt":
	case "":
		return fmt.Errorf("algorithm is required (brute_force, held_karp, nn_2opt)")
	default:
		return fmt.Errorf("invalid algorithm: %s", req.Algorithm)
	}
	if req.MaxStaleScans < 0 {
		return fmt.Errorf("maxStaleScans must be >= 0")
	}
	if req.MaxIterations < 0 {
		return fmt.Errorf("maxIterations must be >= 0")
	}
	return nil
}

func validatePointsRequest(req *model.PointsRequest) error {
	if len(req.Points) == 0 {
		return fmt.Errorf("points must not be empty")
	}
	if req.Threshold < 0 {
		return fmt.Errorf("threshold must be >= 0")
	}
	seen := make(map[string]struct{}, len(req.Points))
	for i, p := range req.Points {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return fmt.Errorf("point %d has an empty id", i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate point id: %s", id)
		}
		seen[id] = struct{}{}
		if p.At.Lat < -90 || p.At.Lat > 90 || p.At.Lon < -180 || p.At.Lon > 180 {
			return fmt.Errorf("point %s has coordinates out of range", id)
		}
	}
	return nil
}

func validateSubscriptionRequest(req *model.SubscriptionRequest) error {
	if !strings.HasPrefix(req.URL, "http://") && !strings.HasPrefix(req.URL, "https://") {
		return fmt.Errorf("url must be http or https")
	}
	if len(req.Events) == 0 {
		return fmt.Errorf("events must not be empty")
	}
	return nil
}
