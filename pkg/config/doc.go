// Package config loads devhttp project files.
//
// A project file declares everything a devhttp server serves:
//   - server: listen address, timeouts, body limit and the stats endpoint
//   - logging: level and format
//   - static: folders served below a URL prefix
//   - json: JSON array files exposed as CRUD resources
//   - routes: canned responses for a method and path pattern
//   - filters: headers added before or after matching requests
//
// Files are YAML (.yaml, .yml) or JSON (anything else):
//
//	server:
//	  port: 3000
//	static:
//	  - prefix: /
//	    folder: ./public
//	    defaultFile: index.html
//	json:
//	  - prefix: /api/todos
//	    file: ./data/todos.json
//	    lookupField: id
//	routes:
//	  - method: GET
//	    path: /health
//	    body: ok
//
// Relative file references resolve against the directory of the project
// file. DEVHTTP_PORT, DEVHTTP_LOG_LEVEL and DEVHTTP_LOG_FORMAT override the
// corresponding file values.
//
// Apply registers a loaded configuration on a server.Server:
//
//	cfg, err := config.LoadFromFile("devhttp.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.New(cfg.Server.Listener(), cfg.Server.Options()...)
//	if err := config.Apply(srv, cfg); err != nil {
//	    log.Fatal(err)
//	}
package config
