package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/getmockd/devhttp/pkg/cli/internal/flags"
	"github.com/getmockd/devhttp/pkg/cli/internal/parse"
	"github.com/getmockd/devhttp/pkg/config"
	"github.com/getmockd/devhttp/pkg/logging"
	"github.com/getmockd/devhttp/pkg/server"
)

// serveFlags holds the values bound to the serve command flags.
type serveFlags struct {
	configFile   string
	host         string
	port         int
	static       flags.StringSlice
	json         flags.StringSlice
	readOnly     bool
	maxBodyBytes int64
	statsPath    string
	logLevel     string
	logFormat    string
	logFile      string
}

// serveFlagVals is the package-level instance bound to cobra flags.
var serveFlagVals serveFlags

// serveCmd runs the server in the foreground until interrupted.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the development server (foreground)",
	Long: `Start the development server.

Mappings come from a project file and from --static and --json flags; flags
add to what the file declares and --host, --port and the log flags override it.
Without --config and without mapping flags, devhttp.yaml, devhttp.yml or
devhttp.json in the current directory is used when present.

The server runs until interrupted (Ctrl+C or SIGTERM).`,
	Example: `  # Serve ./public at / with index.html for the bare prefix
  devhttp serve --static /=./public:index.html

  # Expose a JSON array file as a CRUD resource keyed by "id"
  devhttp serve --json /api/todos=todos.json

  # Key records by a nested field
  devhttp serve --json /api/users=users.json:$.meta.id

  # Start from a project file on another port
  devhttp serve --config devhttp.yaml --port 3000

  # Mirror JSON logs to a file
  devhttp serve -c devhttp.yaml --log-level debug --log-file devhttp.log`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildServeConfig(&serveFlagVals, cmd.Flags().Changed)
		if err != nil {
			return err
		}

		log, closeLog, err := newServeLogger(cfg, &serveFlagVals, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer func() { _ = closeLog() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, cfg, log, cmd.OutOrStdout())
	},
}

func init() {
	f := &serveFlagVals

	serveCmd.Flags().StringVarP(&f.configFile, "config", "c", "", "Path to project file (YAML or JSON)")
	serveCmd.Flags().StringVar(&f.host, "host", server.DefaultHost, "Host to listen on")
	serveCmd.Flags().IntVarP(&f.port, "port", "p", server.DefaultPort, "Port to listen on (0 picks a free port)")
	serveCmd.Flags().Var(&f.static, "static", "Static mapping prefix=dir[:defaultFile] (repeatable)")
	serveCmd.Flags().Var(&f.json, "json", "JSON mapping prefix=file[:lookupField] (repeatable)")
	serveCmd.Flags().BoolVar(&f.readOnly, "read-only", false, "Expose every JSON mapping for GET only")
	serveCmd.Flags().Int64Var(&f.maxBodyBytes, "max-body-bytes", 0, "Maximum POST/PUT body size in bytes (0 = unlimited)")
	serveCmd.Flags().StringVar(&f.statsPath, "stats", "", "Serve JSON store statistics at this path")
	serveCmd.Flags().StringVar(&f.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&f.logFormat, "log-format", "text", "Log format (text, json)")
	serveCmd.Flags().StringVar(&f.logFile, "log-file", "", "Also write JSON logs to this file")
}

// buildServeConfig loads the project file, if any, and applies the flags
// that changed reports as set.
func buildServeConfig(f *serveFlags, changed func(name string) bool) (*config.Config, error) {
	path := f.configFile
	if path == "" && len(f.static) == 0 && len(f.json) == 0 {
		if found, err := config.Discover("."); err == nil {
			path = found
		}
	}

	var cfg *config.Config
	if path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
		if err := cfg.ApplyEnv(); err != nil {
			return nil, err
		}
	}

	if changed("host") {
		cfg.Server.Host = f.host
	}
	if changed("port") {
		cfg.Server.Port = f.port
	}
	if changed("max-body-bytes") {
		cfg.Server.MaxBodyBytes = f.maxBodyBytes
	}
	if changed("stats") {
		cfg.Server.StatsPath = f.statsPath
	}
	if changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if changed("log-format") {
		cfg.Logging.Format = f.logFormat
	}

	for _, s := range f.static {
		prefix, dir, defaultFile, err := parse.Mapping(s)
		if err != nil {
			return nil, fmt.Errorf("--static: %w", err)
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("--static: %w", err)
		}
		cfg.Static = append(cfg.Static, config.StaticMapping{Prefix: prefix, Folder: abs, DefaultFile: defaultFile})
	}
	for _, s := range f.json {
		prefix, file, lookup, err := parse.Mapping(s)
		if err != nil {
			return nil, fmt.Errorf("--json: %w", err)
		}
		if lookup == "" {
			lookup = config.DefaultLookupField
		}
		abs, err := filepath.Abs(file)
		if err != nil {
			return nil, fmt.Errorf("--json: %w", err)
		}
		cfg.JSON = append(cfg.JSON, config.JSONMapping{Prefix: prefix, File: abs, LookupField: lookup})
	}
	if f.readOnly {
		for i := range cfg.JSON {
			cfg.JSON[i].ReadOnly = true
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

// newServeLogger builds the operational logger writing to stderr and, with
// --log-file, also to a JSON log file. The returned func closes the file.
func newServeLogger(cfg *config.Config, f *serveFlags, stderr io.Writer) (*slog.Logger, func() error, error) {
	lc := cfg.Logging.Merge(logging.DefaultConfig())
	lc.Output = stderr
	handler := logging.Handler(lc)

	if f.logFile == "" {
		return slog.New(handler), func() error { return nil }, nil
	}

	file, err := os.OpenFile(f.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	fileHandler := logging.Handler(logging.Config{
		Level:  lc.Level,
		Format: logging.FormatJSON,
		Output: file,
	})
	return slog.New(logging.Tee(handler, fileHandler)), file.Close, nil
}

// runServe starts a server for cfg, prints where it listens and blocks until
// ctx is done, then shuts it down.
func runServe(ctx context.Context, cfg *config.Config, log *slog.Logger, out io.Writer) error {
	opts := append(cfg.Server.Options(), server.WithLogger(log))
	srv := server.New(cfg.Server.Listener(), opts...)

	if err := config.Apply(srv, cfg); err != nil {
		return errors.Join(err, srv.Close())
	}
	if err := srv.Start(); err != nil {
		return errors.Join(err, srv.Close())
	}

	fmt.Fprintf(out, "devhttp listening on http://%s\n", srv.Addr())
	for _, m := range cfg.Static {
		fmt.Fprintf(out, "  static  %-20s %s\n", m.Prefix, m.Folder)
	}
	for _, m := range cfg.JSON {
		mode := "read-write"
		if m.ReadOnly {
			mode = "read-only"
		}
		fmt.Fprintf(out, "  json    %-20s %s (%s, %s)\n", m.Prefix, m.File, m.LookupField, mode)
	}
	if cfg.Server.StatsPath != "" {
		fmt.Fprintf(out, "  stats   %s\n", cfg.Server.StatsPath)
	}

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer cancel()
	return errors.Join(srv.Shutdown(shutdownCtx), srv.Close())
}
