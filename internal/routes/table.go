package routes

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrDuplicateRoute is returned when a method and path pair is registered twice.
var ErrDuplicateRoute = errors.New("route already registered")

// Route maps an HTTP method and path to a handler. An empty Method matches any method.
type Route struct {
	Method  string
	Path    string
	Handler http.Handler
}

type routeKey struct {
	method string
	path   string
}

// Table is a static route table. It is built once at startup and only read
// while serving, so it needs no locking.
type Table struct {
	routes   []Route
	index    map[routeKey]http.Handler
	notFound http.Handler
	target   func(*http.Request) string
}

// Option configures a Table.
type Option func(*Table)

// WithNotFound sets the handler used when no route matches.
func WithNotFound(h http.Handler) Option {
	return func(t *Table) {
		t.notFound = h
	}
}

// WithRequestTarget matches routes against the raw request target, query
// string included, instead of the decoded path.
func WithRequestTarget() Option {
	return func(t *Table) {
		t.target = requestTarget
	}
}

// NewTable creates an empty table that matches on the request path and
// answers unmatched requests with http.NotFound.
func NewTable(opts ...Option) *Table {
	t := &Table{
		index:    make(map[routeKey]http.Handler),
		notFound: http.HandlerFunc(http.NotFound),
		target:   requestPath,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Handle registers h for method and path.
func (t *Table) Handle(method, path string, h http.Handler) error {
	key := routeKey{method: method, path: path}
	if _, exists := t.index[key]; exists {
		return fmt.Errorf("%w: %s %s", ErrDuplicateRoute, displayMethod(method), path)
	}
	t.index[key] = h
	t.routes = append(t.routes, Route{Method: method, Path: path, Handler: h})
	return nil
}

// Routes returns the registered routes in registration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Lookup finds the handler for method and target. Exact method matches win
// over method-less routes.
func (t *Table) Lookup(method, target string) (http.Handler, bool) {
	if h, ok := t.index[routeKey{method: method, path: target}]; ok {
		return h, true
	}
	if h, ok := t.index[routeKey{path: target}]; ok {
		return h, true
	}
	return nil, false
}

// Mount registers every route on mux. Routes with a method use the
// "METHOD /path" pattern form, method-less routes the bare path.
func (t *Table) Mount(mux *http.ServeMux) {
	for _, route := range t.routes {
		pattern := route.Path
		if route.Method != "" {
			pattern = route.Method + " " + route.Path
		}
		mux.Handle(pattern, route.Handler)
	}
}

func (t *Table) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h, ok := t.Lookup(r.Method, t.target(r)); ok {
		h.ServeHTTP(w, r)
		return
	}
	t.notFound.ServeHTTP(w, r)
}

func requestPath(r *http.Request) string {
	return r.URL.Path
}

func requestTarget(r *http.Request) string {
	if r.RequestURI != "" {
		return r.RequestURI
	}
	return r.URL.RequestURI()
}

func displayMethod(method string) string {
	if method == "" {
		return "*"
	}
	return method
}
