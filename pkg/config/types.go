package config

import (
	"fmt"
	"time"

	"github.com/getmockd/devhttp/pkg/logging"
	"github.com/getmockd/devhttp/pkg/server"
)

// DefaultLookupField is used by JSON mappings that name no lookup field.
const DefaultLookupField = "id"

// Config is a devhttp project file.
type Config struct {
	Server  ServerConfig    `json:"server" yaml:"server"`
	Logging LoggingConfig   `json:"logging,omitempty" yaml:"logging,omitempty"`
	Static  []StaticMapping `json:"static,omitempty" yaml:"static,omitempty"`
	JSON    []JSONMapping   `json:"json,omitempty" yaml:"json,omitempty"`
	Routes  []Route         `json:"routes,omitempty" yaml:"routes,omitempty"`
	Filters []Filter        `json:"filters,omitempty" yaml:"filters,omitempty"`
}

// Default returns a configuration with the default listen address and
// nothing mapped.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: server.DefaultHost,
			Port: server.DefaultPort,
		},
	}
}

// ServerConfig holds listener settings.
type ServerConfig struct {
	Host         string   `json:"host,omitempty" yaml:"host,omitempty"`
	Port         int      `json:"port" yaml:"port"`
	ReadTimeout  Duration `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`
	WriteTimeout Duration `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty"`
	IdleTimeout  Duration `json:"idleTimeout,omitempty" yaml:"idleTimeout,omitempty"`
	// MaxBodyBytes limits POST and PUT bodies; 0 means no limit.
	MaxBodyBytes int64 `json:"maxBodyBytes,omitempty" yaml:"maxBodyBytes,omitempty"`
	// StatsPath serves JSON store statistics when set.
	StatsPath string `json:"statsPath,omitempty" yaml:"statsPath,omitempty"`
}

// Listener returns the server.Config for these settings.
func (s ServerConfig) Listener() server.Config {
	host := s.Host
	if host == "" {
		host = server.DefaultHost
	}
	return server.Config{
		Host:         host,
		Port:         s.Port,
		ReadTimeout:  s.ReadTimeout.Std(),
		WriteTimeout: s.WriteTimeout.Std(),
		IdleTimeout:  s.IdleTimeout.Std(),
	}
}

// Options returns the server options for these settings.
func (s ServerConfig) Options() []server.Option {
	var opts []server.Option
	if s.MaxBodyBytes > 0 {
		opts = append(opts, server.WithMaxBodyBytes(s.MaxBodyBytes))
	}
	return opts
}

// LoggingConfig holds log settings. Empty values keep the caller's defaults.
type LoggingConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// Merge returns base with the level and format set in l.
func (l LoggingConfig) Merge(base logging.Config) logging.Config {
	if l.Level != "" {
		base.Level = logging.ParseLevel(l.Level)
	}
	if l.Format != "" {
		base.Format = logging.ParseFormat(l.Format)
	}
	return base
}

// StaticMapping serves Folder below Prefix.
type StaticMapping struct {
	Prefix      string `json:"prefix" yaml:"prefix"`
	Folder      string `json:"folder" yaml:"folder"`
	DefaultFile string `json:"defaultFile,omitempty" yaml:"defaultFile,omitempty"`
}

// JSONMapping exposes the JSON array in File as a CRUD resource below
// Prefix.
type JSONMapping struct {
	Prefix      string `json:"prefix" yaml:"prefix"`
	File        string `json:"file" yaml:"file"`
	LookupField string `json:"lookupField,omitempty" yaml:"lookupField,omitempty"`
	ReadOnly    bool   `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	// Schema is a JSON Schema file every written record must satisfy.
	Schema string `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// PatternSpec selects request paths. Exactly one field must be set.
type PatternSpec struct {
	Path     string `json:"path,omitempty" yaml:"path,omitempty"`
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Regex    string `json:"regex,omitempty" yaml:"regex,omitempty"`
	Glob     string `json:"glob,omitempty" yaml:"glob,omitempty"`
	Match    string `json:"match,omitempty" yaml:"match,omitempty"`
	Template string `json:"template,omitempty" yaml:"template,omitempty"`
}

// Compile builds the pattern.
func (p PatternSpec) Compile() (server.Pattern, error) {
	set := 0
	for _, v := range []string{p.Path, p.Prefix, p.Regex, p.Glob, p.Match, p.Template} {
		if v != "" {
			set++
		}
	}
	switch {
	case set == 0:
		return server.Pattern{}, fmt.Errorf("one of path, prefix, regex, glob, match or template is required")
	case set > 1:
		return server.Pattern{}, fmt.Errorf("only one of path, prefix, regex, glob, match or template may be set")
	}

	switch {
	case p.Path != "":
		return server.Exact(p.Path), nil
	case p.Prefix != "":
		return server.Prefix(p.Prefix), nil
	case p.Regex != "":
		return server.CompileRegexp(p.Regex)
	case p.Glob != "":
		return server.Glob(p.Glob)
	case p.Match != "":
		return server.Expr(p.Match)
	default:
		return server.Template(p.Template), nil
	}
}

// Route answers Method requests matching the pattern with a fixed response.
type Route struct {
	Method      string `json:"method" yaml:"method"`
	PatternSpec `json:",inline" yaml:",inline"`

	// Status defaults to 200.
	Status  int               `json:"status,omitempty" yaml:"status,omitempty"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body    string            `json:"body,omitempty" yaml:"body,omitempty"`
	// BodyFile is read on every request.
	BodyFile string `json:"bodyFile,omitempty" yaml:"bodyFile,omitempty"`
}

// Filter runs on requests matching the pattern, before or after the route
// handler. Before filters may set response headers; any filter may log.
type Filter struct {
	Phase       string `json:"phase" yaml:"phase"`
	PatternSpec `json:",inline" yaml:",inline"`

	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	// Log is written at info level for every matching request.
	Log string `json:"log,omitempty" yaml:"log,omitempty"`
}

// Duration is a time.Duration written as a string such as "5s".
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(b), err)
	}
	*d = Duration(v)
	return nil
}
