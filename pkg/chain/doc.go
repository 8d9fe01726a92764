// Package chain provides the request-scoped callback chain used by devhttp to
// run before filters, the matched route handler and after filters as one
// linear sequence.
//
// Continuation is explicit. Every Link receives the Chain and decides whether
// the request continues:
//
//	func auth(res *chain.Response, req *chain.Request, c *chain.Chain) {
//	    if req.HTTP.Header.Get("X-Token") == "" {
//	        res.WriteHead(http.StatusUnauthorized, nil)
//	        c.Stop(res, req)
//	        return
//	    }
//	    c.Next(res, req)
//	}
//
// A link that neither calls Next nor ends the response leaves the request
// pending. The chain applies no timeout.
//
// Route handlers do not see the chain. Decorate turns a Handler into a Link
// that always continues once the handler returns, so a route handler must
// write its response before returning.
package chain
