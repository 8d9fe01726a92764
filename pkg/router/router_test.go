package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/devhttp/internal/matching"
	"github.com/getmockd/devhttp/pkg/chain"
)

// tagged returns a handler that writes its name, so tests can tell which
// handler was resolved.
func tagged(name string) chain.Handler {
	return func(res *chain.Response, _ *chain.Request) {
		res.End([]byte(name))
	}
}

func run(t *testing.T, h chain.Handler) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	res := chain.NewResponse(rec)
	h(res, chain.NewRequest(httptest.NewRequest(http.MethodGet, "/", nil)))
	return rec.Code, rec.Body.String()
}

func TestResolveHandler_HighestWeightWins(t *testing.T) {
	r := New()
	r.Handle("GET", matching.Predicate(func(string) bool { return true }), tagged("predicate"))
	r.Handle("GET", matching.MustRegexp(`^/a`), tagged("regexp"))
	r.Handle("GET", matching.Exact("/a"), tagged("exact"))

	_, body := run(t, r.ResolveHandler("/a", "GET"))
	assert.Equal(t, "exact", body)

	_, body = run(t, r.ResolveHandler("/abc", "GET"))
	assert.Equal(t, "regexp", body)

	_, body = run(t, r.ResolveHandler("/zzz", "GET"))
	assert.Equal(t, "predicate", body)
}

func TestResolveHandler_ExactOutranksAnyRegexp(t *testing.T) {
	r := New()
	long := `^/a(` + strings.Repeat("x?", 200) + `)$`
	r.Handle("GET", matching.MustRegexp(long), tagged("long"))
	r.Handle("GET", matching.MustRegexp(`^\/a`), tagged("short"))
	r.Handle("GET", matching.Exact("/a"), tagged("exact"))

	_, body := run(t, r.ResolveHandler("/a", "GET"))
	assert.Equal(t, "exact", body)

	_, body = run(t, r.ResolveHandler("/axx", "GET"))
	assert.Equal(t, "long", body)
}

func TestResolveHandler_TiesBreakByRegistration(t *testing.T) {
	r := New()
	r.Handle("GET", matching.Exact("/same"), tagged("first"))
	r.Handle("GET", matching.Exact("/same"), tagged("second"))
	r.Handle("GET", matching.Predicate(func(string) bool { return true }), tagged("p1"))
	r.Handle("GET", matching.Predicate(func(string) bool { return true }), tagged("p2"))

	_, body := run(t, r.ResolveHandler("/same", "GET"))
	assert.Equal(t, "first", body)

	_, body = run(t, r.ResolveHandler("/other", "GET"))
	assert.Equal(t, "p1", body)
}

func TestResolveHandler_MethodMustMatch(t *testing.T) {
	r := New()
	r.Handle("post", matching.Exact("/items"), tagged("post"))
	r.Handle("GET", matching.Exact("/items"), tagged("get"))

	_, body := run(t, r.ResolveHandler("/items", "POST"))
	assert.Equal(t, "post", body)

	_, body = run(t, r.ResolveHandler("/items", "get"))
	assert.Equal(t, "get", body)

	code, body := run(t, r.ResolveHandler("/items", "DELETE"))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "404 Not Found", body)
}

func TestResolveHandler_ZeroPatternNeverMatches(t *testing.T) {
	r := New()
	r.Handle("GET", matching.Pattern{}, tagged("never"))

	code, _ := run(t, r.ResolveHandler("", "GET"))
	assert.Equal(t, http.StatusNotFound, code)
}

func TestErrorHandler(t *testing.T) {
	r := New()
	r.SetErrorHandler(func(res *chain.Response, _ *chain.Request) {
		res.WriteHead(http.StatusTeapot, nil)
		res.End([]byte("custom"))
	})

	code, body := run(t, r.ResolveHandler("/missing", "GET"))
	assert.Equal(t, http.StatusTeapot, code)
	assert.Equal(t, "custom", body)

	r.SetErrorHandler(nil)
	code, _ = run(t, r.ResolveHandler("/missing", "GET"))
	assert.Equal(t, http.StatusNotFound, code)
}

func TestResolveFilters_RegistrationOrder(t *testing.T) {
	r := New()
	var calls []string
	link := func(name string) chain.Link {
		return func(res *chain.Response, req *chain.Request, c *chain.Chain) {
			calls = append(calls, name)
			c.Next(res, req)
		}
	}

	// Registered least specific first; must still run first.
	r.Filter(Before, matching.Predicate(func(string) bool { return true }), link("any"))
	r.Filter(Before, matching.Exact("/api/x"), link("exact"))
	r.Filter(After, matching.Exact("/api/x"), link("after"))
	r.Filter(Before, matching.Prefix("/api"), link("prefix"))
	r.Filter(Before, matching.Exact("/other"), link("other"))

	before := r.ResolveFilters("/api/x", Before)
	require.Len(t, before, 3)

	c := chain.New()
	c.AddAll(before)
	c.Next(chain.NewResponse(httptest.NewRecorder()), chain.NewRequest(httptest.NewRequest(http.MethodGet, "/api/x", nil)))
	assert.Equal(t, []string{"any", "exact", "prefix"}, calls)

	assert.Len(t, r.ResolveFilters("/api/x", After), 1)
	assert.Empty(t, r.ResolveFilters("/nothing", After))
}

func TestRoutesAndFiltersAreCopies(t *testing.T) {
	r := New()
	r.Handle("GET", matching.Exact("/a"), tagged("a"))
	r.Filter(After, matching.Exact("/a"), nil)

	routes := r.Routes()
	routes[0].Method = "DELETE"
	assert.Equal(t, "GET", r.Routes()[0].Method)
	assert.Equal(t, 102, r.Routes()[0].Weight())

	filters := r.Filters()
	require.Len(t, filters, 1)
	assert.Equal(t, After, filters[0].Phase)
}

func TestRegistry_ConcurrentUse(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Handle("GET", matching.Exact("/x"), tagged("x"))
		}()
		go func() {
			defer wg.Done()
			_ = r.ResolveHandler("/x", "GET")
			_ = r.ResolveFilters("/x", Before)
		}()
	}
	wg.Wait()
	assert.Len(t, r.Routes(), 10)
}

func TestParsePhase(t *testing.T) {
	p, err := ParsePhase("After")
	require.NoError(t, err)
	assert.Equal(t, After, p)
	assert.Equal(t, "after", p.String())

	p, err = ParsePhase("before")
	require.NoError(t, err)
	assert.Equal(t, Before, p)

	_, err = ParsePhase("during")
	assert.Error(t, err)
}
