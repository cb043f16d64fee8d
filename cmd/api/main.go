package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"roadtour/internal/api"
	"roadtour/internal/config"
	"roadtour/internal/metrics"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("CONFIG"), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	srvDeps, err := api.NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}
	metrics.RegisterDefault()

	mux := http.NewServeMux()

	// Sessions and their sub-resources (network, points, solve, results,
	// export, events). Solve requests share one rate limiter.
	mux.HandleFunc("/v1/sessions", api.MetricsMiddleware("/v1/sessions", srvDeps.SessionsHandler))
	mux.HandleFunc("/v1/sessions/", api.MetricsMiddleware("/v1/sessions/{id}", srvDeps.SolveLimiter(srvDeps.SessionByIDHandler)))

	// Persisted results
	mux.HandleFunc("/v1/results/", api.MetricsMiddleware("/v1/results/{id}", srvDeps.ResultByIDHandler))

	// Webhook subscriptions
	mux.HandleFunc("/v1/subscriptions", srvDeps.SubscriptionsHandler)
	mux.HandleFunc("/v1/subscriptions/", srvDeps.SubscriptionByIDHandler)

	// Health and diagnostics
	mux.HandleFunc("/healthz", srvDeps.HealthHandler)
	mux.HandleFunc("/readyz", srvDeps.ReadyHandler)
	mux.HandleFunc("/debug/info", srvDeps.DebugJSON)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// API documentation
	mux.HandleFunc("/openapi.yaml", srvDeps.OpenAPIHandler)
	mux.HandleFunc("/docs", srvDeps.DocsHandler)

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           logMiddleware(srvDeps.CORSMiddleware(mux)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("API listening on %s", cfg.Listen)
	// Start webhook worker
	worker := srvDeps.NewWebhookWorker()
	worker.Start()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		dur := time.Since(start)
		log.Printf("%s %s %s %v", r.RemoteAddr, r.Method, r.URL.Path, dur)
	})
}
