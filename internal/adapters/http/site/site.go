// Package site serves the SPA shell for every path the route table knows.
package site

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/paes/ensayos/internal/adapters/http/api"
	"github.com/paes/ensayos/internal/routes"
	"github.com/paes/ensayos/pkg/logger"
	"github.com/paes/ensayos/pkg/metrics"
)

// Error constants
var (
	ErrShell = errors.New("spa shell unavailable")
)

// Response headers describing the resolved route.
const (
	HeaderRoutePage = "X-Route-Page"
	HeaderRouteName = "X-Route-Name"
	shellFile       = "index.html"
)

// PageResolver resolves request paths to pages.
type PageResolver interface {
	Resolve(path string) (routes.Match, error)
}

// Handler serves the shell for routed paths and static assets otherwise.
type Handler struct {
	resolver PageResolver
	files    fs.FS
	log      logger.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithStaticDir serves assets and the shell from dir instead of the embedded files.
func WithStaticDir(dir string) Option {
	return func(h *Handler) {
		if dir != "" {
			h.files = os.DirFS(dir)
		}
	}
}

// WithFS serves assets and the shell from fsys.
func WithFS(fsys fs.FS) Option {
	return func(h *Handler) {
		if fsys != nil {
			h.files = fsys
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// NewHandler creates a site handler over resolver.
func NewHandler(resolver PageResolver, opts ...Option) *Handler {
	h := &Handler{resolver: resolver, files: FS(), log: logger.Nop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register attaches the catch-all site route to r. API routes must be
// registered on r as well so they take precedence.
func (h *Handler) Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}
	handler := api.MetricsMiddleware(h.ServeHTTP, "site")
	r.Get("/*", handler)
	r.Head("/*", handler)
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// The escaped form keeps %3F and %25 inside their segment.
	m, err := h.resolver.Resolve(r.URL.EscapedPath())
	if err == nil {
		metrics.RecordRouteResolution(string(m.Route.Page))
		h.serveShell(w, r, m)
		return
	}
	metrics.RecordRouteResolution("none")

	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name != "" && name != shellFile {
		if st, statErr := fs.Stat(h.files, name); statErr == nil && st.Mode().IsRegular() {
			http.ServeFileFS(w, r, h.files, name)
			return
		}
	}
	http.NotFound(w, r)
}

func (h *Handler) serveShell(w http.ResponseWriter, r *http.Request, m routes.Match) {
	body, err := fs.ReadFile(h.files, shellFile)
	if err != nil {
		h.log.Error(r.Context(), "read shell", logger.Error(errors.Join(ErrShell, err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set(HeaderRoutePage, string(m.Route.Page))
	if m.Route.Name != "" {
		w.Header().Set(HeaderRouteName, m.Route.Name)
	}
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}
