package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	body := writeFile(t, dir, "body.txt", "hi")

	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{
			name:   "default is valid",
			mutate: func(*Config) {},
		},
		{
			name:   "negative port",
			mutate: func(c *Config) { c.Server.Port = -1 },
			field:  "server.port",
		},
		{
			name:   "negative body limit",
			mutate: func(c *Config) { c.Server.MaxBodyBytes = -5 },
			field:  "server.maxBodyBytes",
		},
		{
			name:   "stats path without slash",
			mutate: func(c *Config) { c.Server.StatsPath = "stats" },
			field:  "server.statsPath",
		},
		{
			name:   "unknown log level",
			mutate: func(c *Config) { c.Logging.Level = "chatty" },
			field:  "logging.level",
		},
		{
			name:   "unknown log format",
			mutate: func(c *Config) { c.Logging.Format = "xml" },
			field:  "logging.format",
		},
		{
			name:   "mixed case log settings",
			mutate: func(c *Config) { c.Logging = LoggingConfig{Level: "DEBUG", Format: "Json"} },
		},
		{
			name:   "static prefix without slash",
			mutate: func(c *Config) { c.Static = []StaticMapping{{Prefix: "assets", Folder: dir}} },
			field:  "static[0].prefix",
		},
		{
			name:   "static folder missing",
			mutate: func(c *Config) { c.Static = []StaticMapping{{Prefix: "/", Folder: filepath.Join(dir, "nope")}} },
			field:  "static[0].folder",
		},
		{
			name:   "static folder is a file",
			mutate: func(c *Config) { c.Static = []StaticMapping{{Prefix: "/", Folder: body}} },
			field:  "static[0].folder",
		},
		{
			name: "json file may not exist yet",
			mutate: func(c *Config) {
				c.JSON = []JSONMapping{{Prefix: "/api", File: filepath.Join(dir, "later.json"), LookupField: "id"}}
			},
		},
		{
			name:   "json file required",
			mutate: func(c *Config) { c.JSON = []JSONMapping{{Prefix: "/api"}} },
			field:  "json[0].file",
		},
		{
			name: "duplicate json prefix",
			mutate: func(c *Config) {
				c.JSON = []JSONMapping{{Prefix: "/api", File: "a.json"}, {Prefix: "/api", File: "b.json"}}
			},
			field: "json[1].prefix",
		},
		{
			name: "json schema missing",
			mutate: func(c *Config) {
				c.JSON = []JSONMapping{{Prefix: "/api", File: "a.json", Schema: filepath.Join(dir, "schema.json")}}
			},
			field: "json[0].schema",
		},
		{
			name:   "route method",
			mutate: func(c *Config) { c.Routes = []Route{{Method: "PATCH", PatternSpec: PatternSpec{Path: "/"}}} },
			field:  "routes[0].method",
		},
		{
			name:   "route without pattern",
			mutate: func(c *Config) { c.Routes = []Route{{Method: "GET"}} },
			field:  "routes[0].pattern",
		},
		{
			name: "route with two patterns",
			mutate: func(c *Config) {
				c.Routes = []Route{{Method: "GET", PatternSpec: PatternSpec{Path: "/", Glob: "/*"}}}
			},
			field: "routes[0].pattern",
		},
		{
			name:   "route bad regex",
			mutate: func(c *Config) { c.Routes = []Route{{Method: "GET", PatternSpec: PatternSpec{Regex: "("}}} },
			field:  "routes[0].pattern",
		},
		{
			name:   "route bad glob",
			mutate: func(c *Config) { c.Routes = []Route{{Method: "GET", PatternSpec: PatternSpec{Glob: "/[a"}}} },
			field:  "routes[0].pattern",
		},
		{
			name: "route bad expression",
			mutate: func(c *Config) {
				c.Routes = []Route{{Method: "GET", PatternSpec: PatternSpec{Match: "path +"}}}
			},
			field: "routes[0].pattern",
		},
		{
			name: "route status",
			mutate: func(c *Config) {
				c.Routes = []Route{{Method: "GET", PatternSpec: PatternSpec{Path: "/"}, Status: 42}}
			},
			field: "routes[0].status",
		},
		{
			name: "route body and body file",
			mutate: func(c *Config) {
				c.Routes = []Route{{Method: "GET", PatternSpec: PatternSpec{Path: "/"}, Body: "x", BodyFile: body}}
			},
			field: "routes[0].body",
		},
		{
			name: "route body file missing",
			mutate: func(c *Config) {
				c.Routes = []Route{{Method: "GET", PatternSpec: PatternSpec{Path: "/"}, BodyFile: filepath.Join(dir, "gone")}}
			},
			field: "routes[0].bodyFile",
		},
		{
			name: "valid route",
			mutate: func(c *Config) {
				c.Routes = []Route{{Method: "head", PatternSpec: PatternSpec{Template: "/users/{id}"}, BodyFile: body}}
			},
		},
		{
			name: "filter phase",
			mutate: func(c *Config) {
				c.Filters = []Filter{{Phase: "during", PatternSpec: PatternSpec{Path: "/"}}}
			},
			field: "filters[0].phase",
		},
		{
			name: "after filter headers",
			mutate: func(c *Config) {
				c.Filters = []Filter{{Phase: "after", PatternSpec: PatternSpec{Path: "/"}, Headers: map[string]string{"X": "1"}}}
			},
			field: "filters[0].headers",
		},
		{
			name: "filter pattern",
			mutate: func(c *Config) {
				c.Filters = []Filter{{Phase: "before"}}
			},
			field: "filters[0].pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected a ValidationError, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	var cfg *Config
	assert.Error(t, cfg.Validate())
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Field: "server.port", Message: "must be between 0 and 65535, got 70000"}
	assert.Equal(t, "validation error on server.port: must be between 0 and 65535, got 70000", err.Error())
}
