package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/getmockd/devhttp/pkg/chain"
	"github.com/getmockd/devhttp/pkg/logging"
	"github.com/getmockd/devhttp/pkg/router"
	"github.com/getmockd/devhttp/pkg/store"
)

// Default listen settings.
const (
	DefaultHost = "localhost"
	DefaultPort = 8080

	// DefaultShutdownTimeout bounds how long Run waits for in-flight
	// requests after its context is cancelled.
	DefaultShutdownTimeout = 5 * time.Second
)

// ErrAlreadyRunning is returned by Start on a running server.
var ErrAlreadyRunning = errors.New("server is already running")

// Config holds the listener settings of a Server. Zero timeouts mean no
// timeout.
type Config struct {
	Host         string
	Port         int // 0 picks a free port
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns the configuration used by `devhttp serve`.
func DefaultConfig() Config {
	return Config{
		Host: DefaultHost,
		Port: DefaultPort,
	}
}

// Address returns host:port.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// FileReader reads a whole file. It is the only file-system access of the
// static mapping.
type FileReader func(name string) ([]byte, error)

// ObserverFactory returns an additional observer for the JSON mapping at
// prefix, or nil.
type ObserverFactory func(prefix string) store.Observer

// Server dispatches requests through its registry. It implements
// http.Handler.
type Server struct {
	cfg             Config
	registry        *router.Registry
	log             *slog.Logger
	readFile        FileReader
	maxBodyBytes    int64
	observerFactory ObserverFactory

	mu         sync.Mutex
	mappings   []*jsonMapping
	httpServer *http.Server
	listener   net.Listener
	running    bool
	stopping   chan struct{} // closed by Shutdown to release pending chains
}

// Option is a functional option for configuring a Server.
type Option func(*Server)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithFileReader replaces os.ReadFile for static files.
func WithFileReader(fn FileReader) Option {
	return func(s *Server) {
		if fn != nil {
			s.readFile = fn
		}
	}
}

// WithMaxBodyBytes limits POST and PUT bodies. Larger bodies are answered
// with 413. Zero or less means no limit.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		s.maxBodyBytes = n
	}
}

// WithObserverFactory attaches extra observers to every JSON mapping.
func WithObserverFactory(fn ObserverFactory) Option {
	return func(s *Server) {
		s.observerFactory = fn
	}
}

// New creates a server with an empty registry.
func New(cfg Config, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		registry: router.New(),
		log:      logging.Nop(),
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the server's route registry.
func (s *Server) Registry() *router.Registry {
	return s.registry
}

// Logger returns the operational logger.
func (s *Server) Logger() *slog.Logger {
	return s.log
}

// Config returns the listener configuration.
func (s *Server) Config() Config {
	return s.cfg
}

// On registers a handler for method and pattern.
func (s *Server) On(method string, pattern Pattern, h chain.Handler) {
	s.registry.Handle(method, pattern, h)
}

// OnHead registers a HEAD handler.
func (s *Server) OnHead(pattern Pattern, h chain.Handler) {
	s.On(http.MethodHead, pattern, h)
}

// OnGet registers a GET handler.
func (s *Server) OnGet(pattern Pattern, h chain.Handler) {
	s.On(http.MethodGet, pattern, h)
}

// OnPost registers a POST handler.
func (s *Server) OnPost(pattern Pattern, h chain.Handler) {
	s.On(http.MethodPost, pattern, h)
}

// OnPut registers a PUT handler.
func (s *Server) OnPut(pattern Pattern, h chain.Handler) {
	s.On(http.MethodPut, pattern, h)
}

// OnDelete registers a DELETE handler.
func (s *Server) OnDelete(pattern Pattern, h chain.Handler) {
	s.On(http.MethodDelete, pattern, h)
}

// BeforeFilter registers a link that runs before the route handler.
func (s *Server) BeforeFilter(pattern Pattern, link chain.Link) {
	s.registry.Filter(router.Before, pattern, link)
}

// AfterFilter registers a link that runs after the route handler.
func (s *Server) AfterFilter(pattern Pattern, link chain.Link) {
	s.registry.Filter(router.After, pattern, link)
}

// OnError replaces the handler used for unmatched routes and failed static
// or JSON lookups.
func (s *Server) OnError(h chain.Handler) {
	s.registry.SetErrorHandler(h)
}

// fail answers the request with the current error handler.
func (s *Server) fail(res *chain.Response, req *chain.Request) {
	s.registry.ErrorHandler()(res, req)
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}

	ln, err := net.Listen("tcp", s.cfg.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Address(), err)
	}

	httpServer := &http.Server{
		Handler:      s,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(s.log.Handler(), slog.LevelWarn),
	}
	go func() {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("HTTP server error", "error", err)
		}
	}()

	s.httpServer = httpServer
	s.listener = ln
	s.running = true
	s.stopping = make(chan struct{})
	s.log.Info("server started", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound listen address, or "" when not running.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// stoppingCh returns the channel closed when the server shuts down, or nil
// when it was never started.
func (s *Server) stoppingCh() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopping
}

// IsRunning reports whether the server is listening.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done. Requests whose chain is still pending are released.
// JSON stores stay open; see Close.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.listener = nil
	close(s.stopping)
	httpServer := s.httpServer
	s.mu.Unlock()

	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// Close stops the listener immediately and closes every JSON store.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.running {
		close(s.stopping)
	}
	s.running = false
	s.listener = nil
	if s.httpServer != nil {
		// Also drops connections a timed-out Shutdown left behind.
		if err := s.httpServer.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, fmt.Errorf("HTTP close: %w", err))
		}
		s.httpServer = nil
	}
	for _, m := range s.mappings {
		if err := m.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store %s: %w", m.prefix, err))
		}
	}
	return errors.Join(errs...)
}

// Run starts srv, blocks until ctx is cancelled, then shuts it down
// gracefully and closes its stores.
func Run(ctx context.Context, srv *Server) error {
	if err := srv.Start(); err != nil {
		return err
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if err := srv.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
