package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/devhttp/pkg/logging"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvPort, "")
	t.Setenv(logging.EnvLevel, "")
	t.Setenv(logging.EnvFormat, "")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFile_ValidYAML(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "public"), 0755))
	writeFile(t, tmpDir, "bodies/health.json", `{"ok":true}`)

	path := writeFile(t, tmpDir, "devhttp.yaml", `
server:
  port: 3000
  readTimeout: 5s
  maxBodyBytes: 1024
  statsPath: /_stats
logging:
  level: debug
  format: json
static:
  - prefix: /
    folder: public
    defaultFile: index.html
json:
  - prefix: /api/todos
    file: data/todos.json
routes:
  - method: get
    path: /health
    bodyFile: bodies/health.json
  - method: POST
    glob: /hooks/**
    status: 204
filters:
  - phase: before
    prefix: /api
    headers:
      Access-Control-Allow-Origin: "*"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout.Std())
	assert.Equal(t, int64(1024), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "/_stats", cfg.Server.StatsPath)
	assert.Equal(t, "debug", cfg.Logging.Level)

	require.Len(t, cfg.Static, 1)
	assert.Equal(t, filepath.Join(tmpDir, "public"), cfg.Static[0].Folder)

	require.Len(t, cfg.JSON, 1)
	assert.Equal(t, filepath.Join(tmpDir, "data", "todos.json"), cfg.JSON[0].File)
	assert.Equal(t, "id", cfg.JSON[0].LookupField)

	require.Len(t, cfg.Routes, 2)
	assert.Equal(t, "GET", cfg.Routes[0].Method)
	assert.Equal(t, filepath.Join(tmpDir, "bodies", "health.json"), cfg.Routes[0].BodyFile)
	assert.Equal(t, "/hooks/**", cfg.Routes[1].Glob)

	require.Len(t, cfg.Filters, 1)
	assert.Equal(t, "/api", cfg.Filters[0].Prefix)
	assert.Equal(t, "*", cfg.Filters[0].Headers["Access-Control-Allow-Origin"])
}

func TestLoadFromFile_ValidJSON(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	path := writeFile(t, tmpDir, "devhttp.json", `{
		"server": {"host": "0.0.0.0", "port": 9000},
		"json": [{"prefix": "/api/users", "file": "/abs/users.json", "lookupField": "$.meta.id", "readOnly": true}]
	}`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Listener().Address())
	assert.Equal(t, "/abs/users.json", cfg.JSON[0].File)
	assert.Equal(t, "$.meta.id", cfg.JSON[0].LookupField)
	assert.True(t, cfg.JSON[0].ReadOnly)
}

func TestLoadFromFile_Defaults(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "devhttp.yaml", "routes: []\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", cfg.Server.Listener().Address())
	assert.Empty(t, cfg.Server.Options())
}

func TestLoadFromFile_InvalidJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "invalid.json", `{ invalid json }`)

	cfg, err := LoadFromFile(path)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "invalid.yml", "server: [port\n")

	cfg, err := LoadFromFile(path)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidYAML)
}

func TestLoadFromFile_UnknownField(t *testing.T) {
	path := writeFile(t, t.TempDir(), "devhttp.yaml", "sever:\n  port: 1\n")

	_, err := LoadFromFile(path)
	assert.ErrorIs(t, err, ErrInvalidYAML)

	path = writeFile(t, t.TempDir(), "devhttp.json", `{"sever": {}}`)
	_, err = LoadFromFile(path)
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	cfg, err := LoadFromFile("/nonexistent/path/devhttp.yaml")
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoadFromFile_Directory(t *testing.T) {
	_, err := LoadFromFile(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")
}

func TestLoadFromFile_EmptyFile(t *testing.T) {
	for _, content := range []string{"", "  \n\t\n"} {
		path := writeFile(t, t.TempDir(), "empty.yaml", content)

		cfg, err := LoadFromFile(path)
		assert.Nil(t, cfg)
		assert.ErrorIs(t, err, ErrEmptyFile)
	}
}

func TestLoadFromFile_ValidationError(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "devhttp.yaml", "server:\n  port: 70000\n")

	cfg, err := LoadFromFile(path)
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "server.port", ve.Field)
}

func TestLoadFromFile_EnvOverrides(t *testing.T) {
	t.Setenv(EnvPort, "4567")
	t.Setenv(logging.EnvLevel, "warn")
	t.Setenv(logging.EnvFormat, "json")

	path := writeFile(t, t.TempDir(), "devhttp.yaml", "server:\n  port: 3000\nlogging:\n  level: debug\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4567, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)

	lc := cfg.Logging.Merge(logging.DefaultConfig())
	assert.Equal(t, logging.LevelWarn, lc.Level)
	assert.Equal(t, logging.FormatJSON, lc.Format)
}

func TestLoadFromFile_InvalidEnvPort(t *testing.T) {
	t.Setenv(EnvPort, "eighty")
	path := writeFile(t, t.TempDir(), "devhttp.yaml", "server:\n  port: 3000\n")

	_, err := LoadFromFile(path)
	assert.ErrorIs(t, err, ErrInvalidEnv)
}

func TestParseYAML_DurationError(t *testing.T) {
	_, err := ParseYAML([]byte("server:\n  idleTimeout: soon\n"))
	assert.ErrorIs(t, err, ErrInvalidYAML)
}

func TestParseJSON_Duration(t *testing.T) {
	cfg, err := ParseJSON([]byte(`{"server": {"port": 0, "writeTimeout": "1m30s"}}`))
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Server.Listener().WriteTimeout)
	assert.Equal(t, 0, cfg.Server.Port)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()

	original := Default()
	original.Server.Port = 9999
	original.Server.IdleTimeout = Duration(2 * time.Minute)
	original.JSON = []JSONMapping{{Prefix: "/api/todos", File: filepath.Join(tmpDir, "todos.json"), LookupField: "id"}}
	original.Routes = []Route{{
		Method:      "GET",
		PatternSpec: PatternSpec{Regex: `^/v[0-9]+/ping$`},
		Status:      200,
		Headers:     map[string]string{"X-Test": "1"},
		Body:        "pong",
	}}
	original.Filters = []Filter{{Phase: "after", PatternSpec: PatternSpec{Template: "/api/{id}"}, Log: "served"}}

	for _, name := range []string{"nested/devhttp.yaml", "nested/devhttp.json"} {
		path := filepath.Join(tmpDir, name)
		require.NoError(t, SaveToFile(path, original))

		loaded, err := LoadFromFile(path)
		require.NoError(t, err, name)
		assert.Equal(t, original, loaded, name)

		_, err = os.Stat(path + ".tmp")
		assert.True(t, os.IsNotExist(err), "temporary file must be renamed away")
	}
}

func TestSaveToFile_Nil(t *testing.T) {
	assert.Error(t, SaveToFile(filepath.Join(t.TempDir(), "nil.yaml"), nil))
	assert.Error(t, SaveToFile(filepath.Join(t.TempDir(), "nil.json"), nil))
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()

	_, err := Discover(dir)
	assert.ErrorIs(t, err, ErrFileNotFound)

	writeFile(t, dir, "devhttp.json", "{}")
	path, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "devhttp.json"), path)

	writeFile(t, dir, "devhttp.yaml", "{}")
	path, err = Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "devhttp.yaml"), path, "yaml is preferred")
}
