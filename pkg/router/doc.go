// Package router holds the route and filter registrations of a devhttp
// server and resolves them for a request path.
//
// Routes are (method, pattern, handler) triples. When several routes match
// a path, the one whose pattern has the highest weight wins; equal weights
// resolve to the earliest registration. Filters are (phase, pattern, link)
// triples and are never weighted: every matching filter of a phase runs, in
// registration order.
package router
