package config

import (
	"fmt"
	"net/http"
	"os"
	"slices"

	"github.com/getmockd/devhttp/pkg/chain"
	"github.com/getmockd/devhttp/pkg/httputil"
	"github.com/getmockd/devhttp/pkg/router"
	"github.com/getmockd/devhttp/pkg/server"
	"github.com/getmockd/devhttp/pkg/store/file"
)

// Apply registers the static mappings, JSON mappings, stats endpoint,
// filters and routes of cfg on srv, in that order. cfg should be valid.
// storeOpts are passed to every JSON store.
func Apply(srv *server.Server, cfg *Config, storeOpts ...file.Option) error {
	for _, m := range cfg.Static {
		if err := srv.SetStatic(m.Prefix, m.Folder, m.DefaultFile); err != nil {
			return err
		}
	}

	for _, m := range cfg.JSON {
		opts := slices.Clone(storeOpts)
		if m.Schema != "" {
			opts = append(opts, file.WithSchemaFile(m.Schema))
		}
		lookup := m.LookupField
		if lookup == "" {
			lookup = DefaultLookupField
		}
		if err := srv.SetJSON(m.Prefix, m.File, lookup, m.ReadOnly, opts...); err != nil {
			return err
		}
	}

	if cfg.Server.StatsPath != "" {
		srv.SetStats(cfg.Server.StatsPath)
	}

	for i, f := range cfg.Filters {
		phase, err := router.ParsePhase(f.Phase)
		if err != nil {
			return fmt.Errorf("filters[%d]: %w", i, err)
		}
		pattern, err := f.Compile()
		if err != nil {
			return fmt.Errorf("filters[%d]: %w", i, err)
		}
		link := filterLink(srv, f)
		if phase == router.After {
			srv.AfterFilter(pattern, link)
		} else {
			srv.BeforeFilter(pattern, link)
		}
	}

	for i, r := range cfg.Routes {
		pattern, err := r.Compile()
		if err != nil {
			return fmt.Errorf("routes[%d]: %w", i, err)
		}
		srv.On(r.Method, pattern, routeHandler(srv, r))
	}
	return nil
}

func filterLink(srv *server.Server, f Filter) chain.Link {
	return func(res *chain.Response, req *chain.Request, c *chain.Chain) {
		for k, v := range f.Headers {
			res.Header().Set(k, v)
		}
		if f.Log != "" {
			srv.Logger().Info(f.Log, "id", req.ID, "method", req.Method, "path", req.Path, "status", res.Status())
		}
		c.Next(res, req)
	}
}

func routeHandler(srv *server.Server, r Route) chain.Handler {
	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	return func(res *chain.Response, req *chain.Request) {
		body := []byte(r.Body)
		contentType := httputil.ContentTypeText
		if r.BodyFile != "" {
			content, err := os.ReadFile(r.BodyFile)
			if err != nil {
				srv.Logger().Warn("route body file not readable", "id", req.ID, "file", r.BodyFile, "error", err)
				httputil.InternalError(res, err)
				return
			}
			body = content
			contentType = httputil.ContentType(r.BodyFile, content)
		}

		res.Header().Set("Content-Type", contentType)
		for k, v := range r.Headers {
			res.Header().Set(k, v)
		}
		res.WriteHeader(status)
		if req.Method != http.MethodHead {
			_, _ = res.Write(body)
		}
		res.End()
	}
}
