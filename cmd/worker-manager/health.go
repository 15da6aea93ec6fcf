package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"careerguide-workers/internal/common/camunda"
	"careerguide-workers/internal/common/database"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func writeStatus(w http.ResponseWriter, code int, body map[string]interface{}) {
	body["time"] = time.Now().Format(time.RFC3339)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// readinessHandler reports ready only when every backing service answers.
func readinessHandler(db *sql.DB, cache redis.UniversalClient, zeebe *camunda.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true
		check := func(name string, err error) {
			if err != nil {
				checks[name] = err.Error()
				ready = false
				return
			}
			checks[name] = "ok"
		}

		check("postgres", database.PingPostgres(ctx, db))
		if cache != nil {
			check("redis", database.PingRedis(ctx, cache))
		}
		if zeebe != nil {
			check("zeebe", zeebe.HealthCheck(ctx))
		}

		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		writeStatus(w, code, map[string]interface{}{"status": status, "checks": checks})
	}
}

func newHealthServer(addr string, db *sql.DB, cache redis.UniversalClient, zeebe *camunda.Client) *http.Server {
	if addr == "" {
		addr = ":8080"
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{"status": "healthy"})
	})
	mux.HandleFunc("/ready", readinessHandler(db, cache, zeebe))
	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
