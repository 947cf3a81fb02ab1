package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/paes/ensayos/internal/routes"
	"github.com/paes/ensayos/pkg/metrics"
)

// RoutesHandler exposes the route table over HTTP.
type RoutesHandler struct {
	resolver Resolver
}

// NewRoutesHandler creates a new routes handler.
func NewRoutesHandler(resolver Resolver) *RoutesHandler {
	return &RoutesHandler{resolver: resolver}
}

type routeEntry struct {
	Pattern string   `json:"pattern"`
	Name    string   `json:"name,omitempty"`
	Page    string   `json:"page"`
	Params  []string `json:"params,omitempty"`
	Props   string   `json:"props"`
}

type resolveResponse struct {
	Page    string            `json:"page"`
	Name    string            `json:"name,omitempty"`
	Pattern string            `json:"pattern"`
	Params  map[string]string `json:"params"`
	Props   map[string]string `json:"props,omitempty"`
}

// HandleList handles GET /_routes requests.
func (h *RoutesHandler) HandleList(w http.ResponseWriter, _ *http.Request) {
	rs := h.resolver.Routes()
	out := make([]routeEntry, 0, len(rs))
	for _, r := range rs {
		out = append(out, routeEntry{
			Pattern: r.Pattern,
			Name:    r.Name,
			Page:    string(r.Page),
			Params:  r.Params(),
			Props:   r.Props.String(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleResolve handles GET /_routes/resolve?path=... requests.
func (h *RoutesHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSpace(r.URL.Query().Get("path"))
	if path == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing path", ErrBadRequest))
		return
	}
	m, err := h.resolver.Resolve(path)
	if err != nil {
		metrics.RecordRouteResolution("none")
		if errors.Is(err, routes.ErrNoRoute) {
			writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("%w: %s", ErrNotFound, path))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	metrics.RecordRouteResolution(string(m.Route.Page))
	writeJSON(w, http.StatusOK, resolveResponse{
		Page:    string(m.Route.Page),
		Name:    m.Route.Name,
		Pattern: m.Route.Pattern,
		Params:  m.Params,
		Props:   m.Props,
	})
}
