package webhook

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/groups", s.groupRoutes)

	// Everything else is "<action>/<value?>/<target...>".
	r.With(s.rateLimitMiddleware).Get("/*", s.handleCommand)

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{
		"status":     "ok",
		"version":    s.version,
		"configured": s.engine != nil,
		"pro":        s.pro,
	}
	if s.bridge != nil {
		body["bridge"] = s.bridge.BreakerState()
	}
	if s.snapshots != nil {
		body["snapshot_version"] = s.snapshots.Version()
	}
	writeJSON(w, http.StatusOK, body)
}
