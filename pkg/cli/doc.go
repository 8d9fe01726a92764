// Package cli provides the command-line interface for devhttp.
//
// Commands:
//   - serve: Run the development server in the foreground
//   - validate: Check a project file without starting the server
//   - routes: List registered routes in match order with their weights
//   - version: Show devhttp version
//
// serve builds its configuration from a project file (see package config)
// and the --static and --json flags, then blocks until SIGINT or SIGTERM.
//
// Usage:
//
//	devhttp serve --static /=./public:index.html --json /api/todos=todos.json
//	devhttp serve --config devhttp.yaml --port 3000 --log-level debug
//	devhttp validate devhttp.yaml
//	devhttp routes -o json
package cli
