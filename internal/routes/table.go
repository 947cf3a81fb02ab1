// Package routes holds the SPA route table and resolves request paths to pages.
package routes

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
)

var (
	// ErrInvalidRoute is returned by NewTable for a malformed route definition.
	ErrInvalidRoute = errors.New("invalid route")
	// ErrNoRoute is returned by Resolve when no pattern matches the path.
	ErrNoRoute = errors.New("no route matches path")
	// ErrUnknownName is returned by URL for a name not present in the table.
	ErrUnknownName = errors.New("unknown route name")
	// ErrMissingParam is returned by URL when a pattern parameter has no value.
	ErrMissingParam = errors.New("missing route parameter")
)

// Route is one entry of the route table.
type Route struct {
	Pattern string
	Name    string
	Page    Page
	Props   PropsRule
}

// Params returns the parameter names of the pattern in order.
func (r Route) Params() []string {
	var names []string
	for _, seg := range strings.Split(r.Pattern, "/") {
		if name, ok := paramName(seg); ok {
			names = append(names, name)
		}
	}
	return names
}

// Match is the result of resolving a path.
type Match struct {
	Route  Route
	Params map[string]string
	Props  map[string]string
}

// Table resolves paths against an ordered set of routes.
// It is read-only after construction and safe for concurrent use.
type Table struct {
	routes    []Route
	byPattern map[string]int
	byName    map[string]int
	mux       *chi.Mux
}

// NewTable builds a Table from routes. A pattern or name declared more
// than once resolves to its last declaration.
func NewTable(routes []Route) (t *Table, err error) {
	t = &Table{
		byPattern: make(map[string]int, len(routes)),
		byName:    make(map[string]int),
		mux:       chi.NewRouter(),
	}

	for _, r := range routes {
		if !strings.HasPrefix(r.Pattern, "/") {
			return nil, fmt.Errorf("%w: pattern %q must start with /", ErrInvalidRoute, r.Pattern)
		}
		if r.Page == "" {
			return nil, fmt.Errorf("%w: pattern %q has no page", ErrInvalidRoute, r.Pattern)
		}
		if i, ok := t.byPattern[r.Pattern]; ok {
			if old := t.routes[i].Name; old != "" && old != r.Name {
				delete(t.byName, old)
			}
			t.routes[i] = r
		} else {
			t.byPattern[r.Pattern] = len(t.routes)
			t.routes = append(t.routes, r)
		}
		if r.Name != "" {
			t.byName[r.Name] = t.byPattern[r.Pattern]
		}
	}

	defer func() {
		if p := recover(); p != nil {
			t, err = nil, fmt.Errorf("%w: %v", ErrInvalidRoute, p)
		}
	}()
	for _, r := range t.routes {
		t.mux.Method(http.MethodGet, r.Pattern, http.NotFoundHandler())
	}
	return t, nil
}

// MustDefault returns the Table built from Default. It panics if the
// default table is malformed.
func MustDefault() *Table {
	t, err := NewTable(Default())
	if err != nil {
		panic(err)
	}
	return t
}

// Routes returns the effective routes in declaration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// ByName returns the route registered under name.
func (t *Table) ByName(name string) (Route, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Route{}, false
	}
	return t.routes[i], true
}

// Resolve matches path against the table. path is in escaped form, as in a
// request target; use r.URL.EscapedPath() rather than the decoded r.URL.Path.
// Query strings and fragments are ignored and a trailing slash is tolerated.
func (t *Table) Resolve(path string) (Match, error) {
	u, err := url.Parse(path)
	if err != nil {
		return Match{}, fmt.Errorf("%w: %q: %v", ErrNoRoute, path, err)
	}
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}

	rctx := chi.NewRouteContext()
	pattern := t.mux.Find(rctx, http.MethodGet, p)
	i, ok := t.byPattern[pattern]
	if pattern == "" || !ok {
		return Match{}, fmt.Errorf("%w: %q", ErrNoRoute, path)
	}

	params := make(map[string]string, len(rctx.URLParams.Keys))
	for k, key := range rctx.URLParams.Keys {
		v := rctx.URLParams.Values[k]
		if un, err := url.PathUnescape(v); err == nil {
			v = un
		}
		params[key] = v
	}

	r := t.routes[i]
	return Match{Route: r, Params: params, Props: r.Props.apply(params)}, nil
}

// URL builds the path for the named route from params.
func (t *Table) URL(name string, params map[string]string) (string, error) {
	r, ok := t.ByName(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownName, name)
	}
	segs := strings.Split(r.Pattern, "/")
	for i, seg := range segs {
		pname, isParam := paramName(seg)
		if !isParam {
			continue
		}
		v, ok := params[pname]
		if !ok || v == "" {
			return "", fmt.Errorf("%w: %q for route %q", ErrMissingParam, pname, name)
		}
		segs[i] = url.PathEscape(v)
	}
	return strings.Join(segs, "/"), nil
}

// paramName reports the parameter name of a {name} or {name:regexp} segment.
func paramName(seg string) (string, bool) {
	if len(seg) < 3 || seg[0] != '{' || seg[len(seg)-1] != '}' {
		return "", false
	}
	name := seg[1 : len(seg)-1]
	if i := strings.IndexByte(name, ':'); i >= 0 {
		name = name[:i]
	}
	return name, true
}
