package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/invoiceb2b/financing-api/internal/health"
)

// NewServer exposes /metrics plus the health endpoints on a separate port so
// probes and scrapes never compete with API traffic.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, http.StatusOK, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		result := checker.Readiness(r.Context())
		status := http.StatusOK
		if result.Status != "up" {
			status = http.StatusServiceUnavailable
		}
		writeResult(w, status, result)
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeResult(w http.ResponseWriter, status int, result health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result)
}
