// Package api declares the host's JSON endpoints and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paes/ensayos/internal/routes"
)

// Resolver exposes the route table to handlers.
type Resolver interface {
	Resolve(path string) (routes.Match, error)
	Routes() []routes.Route
}

// Server wires HTTP routes for the host API.
type Server struct {
	healthHandler *HealthHandler
	routesHandler *RoutesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(resolver Resolver) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		routesHandler: NewRoutesHandler(resolver),
	}
}

// Register attaches all API routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/metrics", MetricsMiddleware(s.healthHandler.HandleMetrics, "metrics"))
	r.Get("/_routes", MetricsMiddleware(s.routesHandler.HandleList, "routes"))
	r.Get("/_routes/resolve", MetricsMiddleware(s.routesHandler.HandleResolve, "resolve"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
