package router

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/getmockd/devhttp/internal/matching"
	"github.com/getmockd/devhttp/pkg/chain"
	"github.com/getmockd/devhttp/pkg/httputil"
)

// Methods lists the verbs a route can be registered for.
var Methods = []string{
	http.MethodHead,
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
}

// Phase says when a filter runs relative to the route handler.
type Phase int

const (
	Before Phase = iota
	After
)

func (p Phase) String() string {
	if p == After {
		return "after"
	}
	return "before"
}

// ParsePhase parses "before" or "after", ignoring case.
func ParsePhase(s string) (Phase, error) {
	switch strings.ToLower(s) {
	case "before":
		return Before, nil
	case "after":
		return After, nil
	default:
		return Before, fmt.Errorf("unknown filter phase %q", s)
	}
}

// Route is one handler registration.
type Route struct {
	Method  string
	Pattern matching.Pattern
	Handler chain.Handler
}

// Weight returns the specificity of the route's pattern.
func (r Route) Weight() int {
	return r.Pattern.Weight()
}

// Filter is one before or after link registration.
type Filter struct {
	Phase   Phase
	Pattern matching.Pattern
	Link    chain.Link
}

// Registry stores routes and filters. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	routes     []Route
	filters    []Filter
	errHandler chain.Handler
}

// New returns an empty registry whose error handler writes 404 Not Found.
func New() *Registry {
	return &Registry{errHandler: notFound}
}

func notFound(res *chain.Response, _ *chain.Request) {
	httputil.NotFound(res)
}

// Handle registers a handler for method and pattern. The method is
// upper-cased.
func (r *Registry) Handle(method string, pattern matching.Pattern, h chain.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, Route{
		Method:  strings.ToUpper(method),
		Pattern: pattern,
		Handler: h,
	})
}

// Filter registers a link to run in the given phase for matching paths.
func (r *Registry) Filter(phase Phase, pattern matching.Pattern, link chain.Link) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters = append(r.filters, Filter{Phase: phase, Pattern: pattern, Link: link})
}

// SetErrorHandler replaces the handler used when no route matches. A nil
// handler restores the default.
func (r *Registry) SetErrorHandler(h chain.Handler) {
	if h == nil {
		h = notFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errHandler = h
}

// ErrorHandler returns the current error handler.
func (r *Registry) ErrorHandler() chain.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.errHandler
}

// Match returns the best route for path and method, or false when no route
// matches.
func (r *Registry) Match(path, method string) (Route, bool) {
	method = strings.ToUpper(method)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []Route
	for _, rt := range r.routes {
		if rt.Method == method && rt.Pattern.Matches(path) {
			matches = append(matches, rt)
		}
	}
	if len(matches) == 0 {
		return Route{}, false
	}

	// Highest weight first; stable keeps registration order among equals.
	slices.SortStableFunc(matches, func(a, b Route) int {
		return b.Weight() - a.Weight()
	})
	return matches[0], true
}

// ResolveHandler returns the handler of the best matching route, or the
// error handler when none matches.
func (r *Registry) ResolveHandler(path, method string) chain.Handler {
	if rt, ok := r.Match(path, method); ok {
		return rt.Handler
	}
	return r.ErrorHandler()
}

// ResolveFilters returns the links of every filter of phase matching path,
// in registration order.
func (r *Registry) ResolveFilters(path string, phase Phase) []chain.Link {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var links []chain.Link
	for _, f := range r.filters {
		if f.Phase == phase && f.Pattern.Matches(path) {
			links = append(links, f.Link)
		}
	}
	return links
}

// Routes returns a copy of the registered routes in registration order.
func (r *Registry) Routes() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.routes)
}

// Filters returns a copy of the registered filters in registration order.
func (r *Registry) Filters() []Filter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.filters)
}
