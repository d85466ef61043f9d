package scheduler

import (
	"encoding/json"
	"net/http"
)

type healthResponse struct {
	Status  string      `json:"status"`
	Service string      `json:"service"`
	Source  string      `json:"source,omitempty"`
	Jobs    []JobStatus `json:"jobs"`
}

// HealthHandler reports the scheduler's job states. The status is
// "degraded" while any job's last run failed.
func (s *Scheduler) HealthHandler(service, source string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		resp := healthResponse{Status: "ok", Service: service, Source: source, Jobs: s.Status()}
		for _, job := range resp.Jobs {
			if job.LastError != "" {
				resp.Status = "degraded"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// NewMux returns the HTTP routes served alongside the scheduler.
func (s *Scheduler) NewMux(service, source string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.HealthHandler(service, source))
	return mux
}
