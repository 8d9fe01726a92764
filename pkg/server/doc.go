// Package server is the devhttp request dispatcher.
//
// A Server holds a route registry. Callers register handlers per method and
// pattern, before and after filters, static folders and JSON-file-backed
// CRUD resources, then serve it like any http.Handler:
//
//	srv := server.New(server.DefaultConfig(), server.WithLogger(logger))
//	srv.BeforeFilter(server.Prefix("/api"), auth)
//	srv.OnGet(server.Exact("/health"), func(res *chain.Response, req *chain.Request) {
//	    httputil.WriteText(res, http.StatusOK, "ok")
//	})
//	if err := srv.SetJSON("/api/todos", "todos.json", "id", false); err != nil {
//	    return err
//	}
//	return server.Run(ctx, srv)
//
// Each request runs as one chain: the matching before filters in
// registration order, the best route handler (or the error handler), then
// the matching after filters. The request is complete once a link ends the
// response; a link that neither continues nor ends the chain leaves the
// request pending until the client goes away.
package server
