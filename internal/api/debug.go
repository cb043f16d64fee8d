package api

import (
	"encoding/json"
	"net/http"
	"time"

	"roadtour/internal/buildinfo"
)

func (s *Server) DebugJSON(w http.ResponseWriter, r *http.Request) {
	info := map[string]any{
		"build": buildinfo.Info(),
		"time":  time.Now().UTC().Format(time.RFC3339),
		"config": map[string]any{
			"listen":               s.Config.Listen,
			"cache_dir":            s.Config.CacheDir,
			"threshold_meters":     s.Config.ThresholdMeters,
			"cors_origins":         s.Config.CORSOrigins,
			"rate_rps":             s.Config.RateLimit.RPS,
			"rate_burst":           s.Config.RateLimit.Burst,
			"webhook_max_attempts": s.Config.Webhooks.MaxAttempts,
			"has_database_url":     s.Config.DatabaseURL != "",
			"has_redis_url":        s.Config.RedisURL != "",
		},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(info)
}
