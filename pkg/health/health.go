// pkg/health/health.go
package health

import (
	"net/http"
)

// Handler answers liveness probes with a bare "OK".
func Handler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Serve exposes /health on addr. It blocks, so run it in its own goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", Handler)
	return http.ListenAndServe(addr, mux)
}
