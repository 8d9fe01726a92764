package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/getmockd/devhttp/pkg/logging"
	"github.com/getmockd/devhttp/pkg/router"
)

// ValidationError names the offending field of an invalid configuration.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

// validLogLevels are the accepted logging.level values.
var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// validateFilePath checks that path, if set, names an existing regular file.
func validateFilePath(path, fieldName string) error {
	if path == "" {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("file does not exist: %s", path),
			}
		}
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("cannot access file: %s", err.Error()),
		}
	}

	if info.IsDir() {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("path is a directory, not a file: %s", path),
		}
	}
	return nil
}

// validateDir checks that path names an existing directory.
func validateDir(path, fieldName string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("directory does not exist: %s", path),
			}
		}
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("cannot access directory: %s", err.Error()),
		}
	}
	if !info.IsDir() {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("path is not a directory: %s", path),
		}
	}
	return nil
}

func validatePrefix(prefix, fieldName string) error {
	if !strings.HasPrefix(prefix, "/") {
		return &ValidationError{Field: fieldName, Message: fmt.Sprintf("must start with '/': %q", prefix)}
	}
	return nil
}

// Validate checks the whole configuration and returns the first problem.
// Files referenced by static folders, schemas and route bodies must exist;
// JSON store files may be created later.
func (c *Config) Validate() error {
	if c == nil {
		return &ValidationError{Field: "config", Message: "is nil"}
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}

	for i, m := range c.Static {
		field := fmt.Sprintf("static[%d]", i)
		if err := validatePrefix(m.Prefix, field+".prefix"); err != nil {
			return err
		}
		if m.Folder == "" {
			return &ValidationError{Field: field + ".folder", Message: "is required"}
		}
		if err := validateDir(m.Folder, field+".folder"); err != nil {
			return err
		}
	}

	prefixes := make(map[string]bool, len(c.JSON))
	for i, m := range c.JSON {
		field := fmt.Sprintf("json[%d]", i)
		if err := validatePrefix(m.Prefix, field+".prefix"); err != nil {
			return err
		}
		if prefixes[m.Prefix] {
			return &ValidationError{Field: field + ".prefix", Message: fmt.Sprintf("duplicate JSON mapping %s", m.Prefix)}
		}
		prefixes[m.Prefix] = true
		if m.File == "" {
			return &ValidationError{Field: field + ".file", Message: "is required"}
		}
		if err := validateFilePath(m.Schema, field+".schema"); err != nil {
			return err
		}
	}

	for i, r := range c.Routes {
		if err := r.Validate(); err != nil {
			return prefixField(fmt.Sprintf("routes[%d]", i), err)
		}
	}
	for i, f := range c.Filters {
		if err := f.Validate(); err != nil {
			return prefixField(fmt.Sprintf("filters[%d]", i), err)
		}
	}
	return nil
}

// Validate checks the listener settings.
func (s *ServerConfig) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return &ValidationError{Field: "server.port", Message: fmt.Sprintf("must be between 0 and 65535, got %d", s.Port)}
	}
	if s.ReadTimeout < 0 || s.WriteTimeout < 0 || s.IdleTimeout < 0 {
		return &ValidationError{Field: "server", Message: "timeouts cannot be negative"}
	}
	if s.MaxBodyBytes < 0 {
		return &ValidationError{Field: "server.maxBodyBytes", Message: "cannot be negative"}
	}
	if s.StatsPath != "" {
		return validatePrefix(s.StatsPath, "server.statsPath")
	}
	return nil
}

// Validate checks the level and format names.
func (l *LoggingConfig) Validate() error {
	if l.Level != "" && !validLogLevels[strings.ToLower(l.Level)] {
		return &ValidationError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", l.Level)}
	}
	if l.Format != "" && !strings.EqualFold(l.Format, string(logging.FormatText)) && !strings.EqualFold(l.Format, string(logging.FormatJSON)) {
		return &ValidationError{Field: "logging.format", Message: fmt.Sprintf("unknown format %q", l.Format)}
	}
	return nil
}

// Validate checks the method, pattern, status and body of a route.
func (r *Route) Validate() error {
	method := strings.ToUpper(r.Method)
	valid := false
	for _, m := range router.Methods {
		if m == method {
			valid = true
			break
		}
	}
	if !valid {
		return &ValidationError{Field: "method", Message: fmt.Sprintf("unsupported method %q", r.Method)}
	}
	if _, err := r.Compile(); err != nil {
		return &ValidationError{Field: "pattern", Message: err.Error()}
	}
	if r.Status != 0 && (r.Status < 100 || r.Status > 599) {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("must be between 100 and 599, got %d", r.Status)}
	}
	if r.Body != "" && r.BodyFile != "" {
		return &ValidationError{Field: "body", Message: "body and bodyFile are mutually exclusive"}
	}
	return validateFilePath(r.BodyFile, "bodyFile")
}

// Validate checks the phase and pattern of a filter.
func (f *Filter) Validate() error {
	phase, err := router.ParsePhase(f.Phase)
	if err != nil {
		return &ValidationError{Field: "phase", Message: err.Error()}
	}
	if phase == router.After && len(f.Headers) > 0 {
		return &ValidationError{Field: "headers", Message: "only before filters can set headers"}
	}
	if _, err := f.Compile(); err != nil {
		return &ValidationError{Field: "pattern", Message: err.Error()}
	}
	return nil
}

func prefixField(prefix string, err error) error {
	if ve, ok := err.(*ValidationError); ok {
		return &ValidationError{Field: prefix + "." + ve.Field, Message: ve.Message}
	}
	return err
}
