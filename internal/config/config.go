// Package config loads server settings from an optional YAML file with
// environment variable overrides, so container deploys can tweak single
// values without shipping a file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen      string `yaml:"listen"`
	DatabaseURL string `yaml:"database_url"`
	RedisURL    string `yaml:"redis_url"`
	CacheDir    string `yaml:"cache_dir"`

	// ThresholdMeters is the default maximum distance from a point to its
	// nearest edge during integration.
	ThresholdMeters float64 `yaml:"threshold_meters"`

	CORSOrigins []string `yaml:"cors_origins"`

	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`

	Solver struct {
		MaxStaleScans int `yaml:"max_stale_scans"`
		MaxIterations int `yaml:"max_iterations"`
	} `yaml:"solver"`

	Webhooks struct {
		MaxAttempts int `yaml:"max_attempts"`
	} `yaml:"webhooks"`
}

// Default returns the built-in configuration.
func Default() Config {
	var c Config
	c.Listen = ":8080"
	c.CacheDir = os.TempDir()
	c.ThresholdMeters = 500
	c.RateLimit.RPS = 5
	c.RateLimit.Burst = 10
	c.Solver.MaxStaleScans = 3
	c.Solver.MaxIterations = 100000
	c.Webhooks.MaxAttempts = 10
	return c
}

// Load reads the YAML file at path (skipped when empty), then applies
// environment overrides on top.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return c, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parsing config: %w", err)
		}
	}
	c.applyEnv()
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Listen = ":" + v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("CACHE_DIR"); v != "" {
		c.CacheDir = v
	}
	if v := os.Getenv("INTEGRATION_THRESHOLD_M"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			c.ThresholdMeters = f
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("WEBHOOK_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Webhooks.MaxAttempts = n
		}
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
